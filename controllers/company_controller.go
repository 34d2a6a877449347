// controllers/company_controller.go
package controllers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/nordsol/leadportal_backend/config"
	"github.com/nordsol/leadportal_backend/models"
	"github.com/nordsol/leadportal_backend/utils"
)

type CompanyController struct {
	db *mongo.Client
}

func NewCompanyController(db *mongo.Client) *CompanyController {
	return &CompanyController{db: db}
}

// GetAllCompanies returns all partner companies; pass active=true to get
// only companies currently buying leads
func (cc *CompanyController) GetAllCompanies(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if c.QueryParam("active") == "true" {
		filter["isActive"] = true
	}

	cursor, err := config.GetCollection(cc.db, "companies").Find(ctx, filter)
	if err != nil {
		log.Printf("Failed to fetch companies: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch companies",
		})
	}

	var companies []models.Company
	if err := cursor.All(ctx, &companies); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode companies",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Companies retrieved successfully",
		Data:    companies,
	})
}

// CreateCompany registers a new partner company
func (cc *CompanyController) CreateCompany(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var req models.CreateCompanyRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid company data",
			Data:    err.Error(),
		})
	}

	now := time.Now()
	company := models.Company{
		Name:          utils.SanitizeInput(req.Name),
		OrgNumber:     utils.SanitizeInput(req.OrgNumber),
		ContactPerson: utils.SanitizeInput(req.ContactPerson),
		Emails:        req.Emails,
		Phones:        req.Phones,
		City:          utils.SanitizeInput(req.City),
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	result, err := config.GetCollection(cc.db, "companies").InsertOne(ctx, company)
	if err != nil {
		log.Printf("Failed to create company: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create company",
		})
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Company created successfully",
		Data:    map[string]interface{}{"id": result.InsertedID},
	})
}

// UpdateCompany updates a partner company; omitted fields are unchanged
func (cc *CompanyController) UpdateCompany(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid company id",
		})
	}

	var req models.UpdateCompanyRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	update := bson.M{"updatedAt": time.Now()}
	if req.Name != nil {
		update["name"] = utils.SanitizeInput(*req.Name)
	}
	if req.OrgNumber != nil {
		update["orgNumber"] = utils.SanitizeInput(*req.OrgNumber)
	}
	if req.ContactPerson != nil {
		update["contactPerson"] = utils.SanitizeInput(*req.ContactPerson)
	}
	if req.Emails != nil {
		update["emails"] = *req.Emails
	}
	if req.Phones != nil {
		update["phones"] = *req.Phones
	}
	if req.City != nil {
		update["city"] = utils.SanitizeInput(*req.City)
	}
	if req.IsActive != nil {
		update["isActive"] = *req.IsActive
	}

	result, err := config.GetCollection(cc.db, "companies").UpdateByID(ctx, objID, bson.M{"$set": update})
	if err != nil {
		log.Printf("Failed to update company %s: %v", objID.Hex(), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update company",
		})
	}
	if result.MatchedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Company not found",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Company updated successfully",
	})
}

// DeleteCompany deactivates a company rather than removing it: old lead
// shares and commissions keep referencing it
func (cc *CompanyController) DeleteCompany(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid company id",
		})
	}

	result, err := config.GetCollection(cc.db, "companies").UpdateByID(ctx, objID, bson.M{
		"$set": bson.M{"isActive": false, "updatedAt": time.Now()},
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to deactivate company",
		})
	}
	if result.MatchedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Company not found",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Company deactivated",
	})
}
