package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/nordsol/leadportal_backend/controllers"
	"github.com/nordsol/leadportal_backend/middleware"
	"github.com/nordsol/leadportal_backend/models"
	"github.com/nordsol/leadportal_backend/websocket"
)

// RegisterAdminRoutes sets up all dashboard routes
func RegisterAdminRoutes(e *echo.Echo, db *mongo.Client, hub *websocket.Hub) {
	authController := controllers.NewAuthController(db)
	dealController := controllers.NewDealController(db, hub)
	companyController := controllers.NewCompanyController(db)
	reportController := controllers.NewReportController(db)
	alertController := controllers.NewAlertController(db, hub)
	syncController := controllers.NewSyncController(db)

	admin := e.Group("/api/admin")
	admin.Use(middleware.JWTMiddleware())
	admin.Use(middleware.RequireUserType(models.UserTypeAdmin))

	// User management
	admin.POST("/users", authController.CreateUser)

	// Deals
	admin.GET("/deals", dealController.GetDeals)
	admin.GET("/deals/:dealId", dealController.GetDeal)
	admin.POST("/deals/:dealId/recalculate", dealController.RecalculateCommission)
	admin.POST("/deals/:dealId/approval", dealController.HandleApproval)
	admin.POST("/deals/:dealId/share", dealController.ShareDeal)
	admin.POST("/deals/:dealId/credit-back", dealController.CreditBack)

	// Partner companies
	admin.GET("/companies", companyController.GetAllCompanies)
	admin.POST("/companies", companyController.CreateCompany)
	admin.PUT("/companies/:id", companyController.UpdateCompany)
	admin.DELETE("/companies/:id", companyController.DeleteCompany)

	// Commission reports
	admin.GET("/reports/commission", reportController.GetCommissionReport)
	admin.GET("/reports/commission/export", reportController.ExportCommissionReportCSV)

	// Credit window alerts
	admin.GET("/alerts/credit-windows", alertController.GetCreditWindowAlerts)
	admin.POST("/alerts/credit-windows/check", alertController.RunAlertCheck)

	// External feed sync
	admin.POST("/sync/deals", syncController.SyncDeals)
	admin.POST("/sync/leads", syncController.SyncLeads)
}
