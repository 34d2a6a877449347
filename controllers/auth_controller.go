// controllers/auth_controller.go
package controllers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/nordsol/leadportal_backend/config"
	"github.com/nordsol/leadportal_backend/middleware"
	"github.com/nordsol/leadportal_backend/models"
	"github.com/nordsol/leadportal_backend/utils"
)

type AuthController struct {
	db *mongo.Client
}

func NewAuthController(db *mongo.Client) *AuthController {
	return &AuthController{db: db}
}

// Login authenticates an admin or setter and returns JWT tokens
func (ac *AuthController) Login(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Email and password are required",
		})
	}

	email, err := utils.SanitizeEmail(req.Email)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid email address",
		})
	}

	usersCollection := config.GetCollection(ac.db, "users")
	var user models.User
	err = usersCollection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid email or password",
		})
	}

	if !user.IsActive {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Account is inactive",
		})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid email or password",
		})
	}

	token, refreshToken, err := middleware.GenerateJWT(user.ID.Hex(), user.Email, user.UserType)
	if err != nil {
		log.Printf("Failed to generate JWT for %s: %v", user.Email, err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate token",
		})
	}

	data := map[string]interface{}{
		"token":        token,
		"refreshToken": refreshToken,
		"userType":     user.UserType,
		"fullName":     user.FullName,
	}

	// Optional remember-me token, stored encrypted in Redis
	if req.RememberMe {
		rememberToken, err := utils.GenerateRememberMeToken()
		if err == nil {
			session := utils.RememberedSession{
				Email:     user.Email,
				UserType:  user.UserType,
				UserID:    user.ID.Hex(),
				ExpiresAt: time.Now().Add(30 * 24 * time.Hour),
			}
			if err := utils.StoreRememberedSession(config.GetRedisClient(), rememberToken, session, 30*24*time.Hour); err != nil {
				log.Printf("Failed to store remember-me session: %v", err)
			} else {
				data["rememberMeToken"] = rememberToken
			}
		}
	}

	usersCollection.UpdateByID(ctx, user.ID, bson.M{"$set": bson.M{"lastActivityAt": time.Now()}})

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Login successful",
		Data:    data,
	})
}

// LoginWithRememberToken exchanges a remember-me token for fresh JWTs
func (ac *AuthController) LoginWithRememberToken(c echo.Context) error {
	var req struct {
		Token string `json:"token" validate:"required"`
	}
	if err := c.Bind(&req); err != nil || req.Token == "" {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Remember-me token is required",
		})
	}

	session, err := utils.RetrieveRememberedSession(config.GetRedisClient(), req.Token)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid or expired remember-me token",
		})
	}

	token, refreshToken, err := middleware.GenerateJWT(session.UserID, session.Email, session.UserType)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate token",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Login successful",
		Data: map[string]interface{}{
			"token":        token,
			"refreshToken": refreshToken,
			"userType":     session.UserType,
		},
	})
}

// Logout blacklists the current token
func (ac *AuthController) Logout(c echo.Context) error {
	authHeader := c.Request().Header.Get("Authorization")
	if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
		middleware.BlacklistToken(authHeader[7:], time.Now().Add(24*time.Hour))
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Logged out successfully",
	})
}

// CreateUser lets an admin create dashboard or portal accounts
func (ac *AuthController) CreateUser(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var req models.CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid user data",
			Data:    err.Error(),
		})
	}

	email, err := utils.SanitizeEmail(req.Email)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid email address",
		})
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to hash password",
		})
	}

	now := time.Now()
	user := models.User{
		Email:     email,
		Password:  string(hashed),
		FullName:  utils.SanitizeInput(req.FullName),
		UserType:  req.UserType,
		AgentName: utils.SanitizeInput(req.AgentName),
		Phone:     req.Phone,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	result, err := config.GetCollection(ac.db, "users").InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return c.JSON(http.StatusConflict, models.Response{
				Status:  http.StatusConflict,
				Message: "A user with this email already exists",
			})
		}
		log.Printf("Failed to create user: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create user",
		})
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "User created successfully",
		Data:    map[string]interface{}{"id": result.InsertedID},
	})
}
