// config/db.go
package config

import (
	"context"
	"log"
	"os"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ConnectDB establishes connection to MongoDB
func ConnectDB() *mongo.Client {
	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		mongoURI = os.Getenv("MONGODB_URI")
	}

	// Only use the Docker service name as fallback in development
	if mongoURI == "" {
		env := os.Getenv("ENV")
		if env == "development" || env == "dev" {
			mongoURI = "mongodb://mongodb:27017"
		} else {
			log.Fatal("MONGO_URI or MONGODB_URI environment variable is required for production")
		}
	}

	log.Printf("Connecting to MongoDB at: %s", maskMongoURI(mongoURI))

	clientOptions := options.Client().ApplyURI(mongoURI)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		log.Fatal("MongoDB connection error:", err)
	}

	err = client.Ping(ctx, nil)
	if err != nil {
		log.Fatal("MongoDB ping error:", err)
	}

	log.Println("Connected to MongoDB")

	setupCollections(client)

	return client
}

// DatabaseName returns the configured database name
func DatabaseName() string {
	dbName := os.Getenv("DB_NAME")
	if dbName == "" {
		dbName = "leadportal"
	}
	return dbName
}

// GetCollection returns a MongoDB collection
func GetCollection(client *mongo.Client, collectionName string) *mongo.Collection {
	return client.Database(DatabaseName()).Collection(collectionName)
}

// setupCollections ensures all necessary collections and indexes exist
func setupCollections(client *mongo.Client) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db := client.Database(DatabaseName())

	collections := []string{"users", "companies", "deals", "leadShares", "commissions", "notifications"}
	for _, collName := range collections {
		db.CreateCollection(ctx, collName)
	}

	// Email index for users collection
	userColl := db.Collection("users")
	emailIndexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := userColl.Indexes().CreateOne(ctx, emailIndexModel); err != nil {
		log.Printf("Error creating email index: %v", err)
	}

	// CRM deal id is our external key for deals
	dealColl := db.Collection("deals")
	dealIndexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "dealId", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := dealColl.Indexes().CreateOne(ctx, dealIndexModel); err != nil {
		log.Printf("Error creating dealId index: %v", err)
	}

	// One share per deal/company pair
	shareColl := db.Collection("leadShares")
	shareIndexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "dealId", Value: 1}, {Key: "companyName", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := shareColl.Indexes().CreateOne(ctx, shareIndexModel); err != nil {
		log.Printf("Error creating leadShares index: %v", err)
	}

	// One commission line per deal/company/leadType
	commissionColl := db.Collection("commissions")
	commissionIndexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "dealId", Value: 1}, {Key: "companyName", Value: 1}, {Key: "leadType", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := commissionColl.Indexes().CreateOne(ctx, commissionIndexModel); err != nil {
		log.Printf("Error creating commissions index: %v", err)
	}

	log.Println("Database collections and indexes setup complete")
}

// maskMongoURI masks the password in a MongoDB URI for logging
func maskMongoURI(uri string) string {
	if idx := strings.Index(uri, "@"); idx > 0 {
		if colonIdx := strings.LastIndex(uri[:idx], ":"); colonIdx > 0 {
			return uri[:colonIdx+1] + "***" + uri[idx:]
		}
	}
	return uri
}
