package acceptance

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mirabelle-minis/commissions-api/config"
	"github.com/mirabelle-minis/commissions-api/controllers"
	"github.com/mirabelle-minis/commissions-api/middleware"
	"github.com/mirabelle-minis/commissions-api/models"
	"github.com/mirabelle-minis/commissions-api/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// OrderAcceptanceTestSuite runs the commission workflow against a real HTTP
// server. Customer endpoints are mounted under /api/v1 and the same admin
// endpoints under /api/v1/admin with admin credentials.
type OrderAcceptanceTestSuite struct {
	suite.Suite
	server   *httptest.Server
	db       *gorm.DB
	customer models.User
	admin    models.User
	gateway  *services.MockGateway
}

// SetupSuite runs once before all tests
func (suite *OrderAcceptanceTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)

	// Set test environment
	os.Setenv("GO_ENV", "test")
	os.Setenv("AUTH0_DOMAIN", "test.auth0.com")
	os.Setenv("AUTH0_AUDIENCE", "https://api.test.com")
	os.Setenv("PORT", "8080")

	_, err := config.Load()
	suite.NoError(err)

	// Setup database
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.NoError(err)
	suite.db = db

	err = db.AutoMigrate(
		&models.User{},
		&models.Order{},
		&models.Questionnaire{},
		&models.Question{},
		&models.Answer{},
		&models.Quote{},
		&models.Invoice{},
		&models.InvoiceItem{},
		&models.DesignVersion{},
		&models.GalleryImage{},
		&models.Message{},
	)
	suite.NoError(err)

	config.SetDB(db)

	// Create test server
	router := suite.createRouter()
	suite.server = httptest.NewServer(router)
}

// TearDownSuite runs once after all tests
func (suite *OrderAcceptanceTestSuite) TearDownSuite() {
	suite.server.Close()
	if suite.db != nil {
		sqlDB, _ := suite.db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
	}
}

// SetupTest runs before each test
func (suite *OrderAcceptanceTestSuite) SetupTest() {
	// Clean up database before each test
	for _, table := range []string{
		"answers", "questions", "questionnaires",
		"invoice_items", "invoices", "quotes",
		"design_versions", "gallery_images", "messages",
		"orders", "users",
	} {
		suite.db.Exec("DELETE FROM " + table)
	}

	// Fresh mock collaborators per test
	services.NewMockNotifier().SetAsMockForTesting()
	suite.gateway = services.NewMockGateway()
	suite.gateway.SetAsMockForTesting()

	// Seed the two actors
	suite.customer = models.User{
		Auth0ID: "auth0|customer",
		Name:    "Test Customer",
		Email:   "customer@test.com",
		Role:    "customer",
	}
	suite.NoError(suite.db.Create(&suite.customer).Error)

	suite.admin = models.User{
		Auth0ID: "auth0|admin",
		Name:    "Studio Admin",
		Email:   "admin@test.com",
		Role:    "admin",
	}
	suite.NoError(suite.db.Create(&suite.admin).Error)
}

// createRouter creates the application router for acceptance testing
func (suite *OrderAcceptanceTestSuite) createRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	// Customer-facing routes with the customer's mock auth
	v1 := router.Group("/api/v1", suite.mockAuthMiddleware("auth0|customer", "customer"))
	{
		v1.POST("/enquiries", controllers.CreateEnquiry)
		v1.GET("/orders", controllers.ListOrders)
		v1.GET("/orders/:id", controllers.GetOrder)
		v1.POST("/questionnaires/:id/responses", controllers.SubmitQuestionnaireResponse)
		v1.POST("/quotes/:id/accept", controllers.AcceptQuote)
		v1.POST("/quotes/:id/reject", controllers.RejectQuote)
		v1.GET("/orders/:id/invoice", controllers.GetInvoice)
		v1.POST("/orders/:id/payments", controllers.ProcessPayment)
	}

	// The same workflow endpoints with admin credentials
	adm := router.Group("/api/v1/admin", suite.mockAuthMiddleware("auth0|admin", "admin"))
	{
		adm.POST("/orders/:id/review", controllers.StartReview)
		adm.POST("/orders/:id/questionnaire", controllers.CreateQuestionnaire)
		adm.POST("/orders/:id/quotes", controllers.CreateQuote)
		adm.POST("/quotes/:id/invoice", controllers.GenerateInvoice)
		adm.POST("/orders/:id/ready", controllers.MarkReadyToShip)
		adm.POST("/orders/:id/ship", controllers.ShipOrder)
		adm.POST("/orders/:id/complete", controllers.CompleteOrder)
		adm.POST("/orders/:id/cancel", controllers.CancelOrder)
	}

	return router
}

// mockAuthMiddleware simulates authentication for acceptance testing
func (suite *OrderAcceptanceTestSuite) mockAuthMiddleware(auth0ID, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", auth0ID)
		c.Set("access_token", "mock-token")

		customClaims := &middleware.CustomClaims{
			Role: role,
		}
		c.Set("custom_claims", customClaims)

		c.Next()
	}
}

// makeRequest is a helper to make HTTP requests
func (suite *OrderAcceptanceTestSuite) makeRequest(method, path string, body interface{}) (*http.Response, map[string]interface{}) {
	var bodyReader *bytes.Reader
	if body != nil {
		bodyJSON, _ := json.Marshal(body)
		bodyReader = bytes.NewReader(bodyJSON)
	} else {
		bodyReader = bytes.NewReader([]byte{})
	}

	req, err := http.NewRequest(method, suite.server.URL+path, bodyReader)
	suite.NoError(err)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	suite.NoError(err)

	var responseData map[string]interface{}
	err = json.NewDecoder(resp.Body).Decode(&responseData)
	suite.NoError(err)
	resp.Body.Close()

	return resp, responseData
}

// TestCommissionJourney_Acceptance walks an order from enquiry to completion
// over real HTTP
func (suite *OrderAcceptanceTestSuite) TestCommissionJourney_Acceptance() {
	// Step 1: Customer submits an enquiry
	resp, respData := suite.makeRequest("POST", "/api/v1/enquiries", map[string]interface{}{
		"model_name":   "1:12 Ducati Panigale V4",
		"scale":        "1:12",
		"budget_range": "200-350",
		"description":  "Race livery with sponsor decals",
	})
	assert.Equal(suite.T(), http.StatusCreated, resp.StatusCode)
	assert.True(suite.T(), respData["success"].(bool))

	orderData := respData["data"].(map[string]interface{})
	orderID := int(orderData["id"].(float64))
	assert.Equal(suite.T(), "enquiry_received", orderData["stage"])

	// Step 2: Admin reviews and quotes directly
	resp, _ = suite.makeRequest("POST", fmt.Sprintf("/api/v1/admin/orders/%d/review", orderID), nil)
	assert.Equal(suite.T(), http.StatusOK, resp.StatusCode)

	resp, respData = suite.makeRequest("POST", fmt.Sprintf("/api/v1/admin/orders/%d/quotes", orderID), map[string]interface{}{
		"amount":        280.0,
		"timeline":      "3 weeks",
		"valid_until":   time.Now().Add(21 * 24 * time.Hour).Format(time.RFC3339),
		"scope_of_work": []string{"Assembly", "Race livery paint", "Decals and clear coat"},
	})
	assert.Equal(suite.T(), http.StatusCreated, resp.StatusCode)
	quoteID := int(respData["data"].(map[string]interface{})["id"].(float64))

	// Step 3: Customer accepts and pays
	resp, _ = suite.makeRequest("POST", fmt.Sprintf("/api/v1/quotes/%d/accept", quoteID), nil)
	assert.Equal(suite.T(), http.StatusOK, resp.StatusCode)

	resp, respData = suite.makeRequest("POST", fmt.Sprintf("/api/v1/admin/quotes/%d/invoice", quoteID), nil)
	assert.Equal(suite.T(), http.StatusCreated, resp.StatusCode)

	invoiceData := respData["data"].(map[string]interface{})
	assert.Equal(suite.T(), 280.0, invoiceData["subtotal"])
	assert.Equal(suite.T(), invoiceData["subtotal"].(float64)+invoiceData["tax"].(float64), invoiceData["total"])

	resp, respData = suite.makeRequest("POST", fmt.Sprintf("/api/v1/orders/%d/payments", orderID), map[string]interface{}{
		"payment_method": "card",
	})
	assert.Equal(suite.T(), http.StatusOK, resp.StatusCode)
	assert.Equal(suite.T(), "paid", respData["data"].(map[string]interface{})["status"])
	assert.Len(suite.T(), suite.gateway.Charges(), 1)

	// Step 4: Admin finishes the build and ships
	resp, _ = suite.makeRequest("POST", fmt.Sprintf("/api/v1/admin/orders/%d/ready", orderID), nil)
	assert.Equal(suite.T(), http.StatusOK, resp.StatusCode)

	resp, respData = suite.makeRequest("POST", fmt.Sprintf("/api/v1/admin/orders/%d/ship", orderID), map[string]interface{}{
		"tracking_number": "9400110200881234567890",
		"carrier":         "USPS",
	})
	assert.Equal(suite.T(), http.StatusOK, resp.StatusCode)
	assert.Equal(suite.T(), "shipped", respData["data"].(map[string]interface{})["stage"])

	resp, respData = suite.makeRequest("POST", fmt.Sprintf("/api/v1/admin/orders/%d/complete", orderID), nil)
	assert.Equal(suite.T(), http.StatusOK, resp.StatusCode)
	assert.Equal(suite.T(), "completed", respData["data"].(map[string]interface{})["stage"])

	// Step 5: Customer sees the finished order with its full state
	resp, respData = suite.makeRequest("GET", fmt.Sprintf("/api/v1/orders/%d", orderID), nil)
	assert.Equal(suite.T(), http.StatusOK, resp.StatusCode)

	data := respData["data"].(map[string]interface{})
	finished := data["order"].(map[string]interface{})
	assert.Equal(suite.T(), "completed", finished["stage"])
	assert.Equal(suite.T(), "9400110200881234567890", finished["tracking_number"])

	customerData := finished["customer"].(map[string]interface{})
	assert.Equal(suite.T(), suite.customer.Email, customerData["email"])
}

// TestQuestionnaireRound_Acceptance covers the optional questionnaire loop
// between review and quoting
func (suite *OrderAcceptanceTestSuite) TestQuestionnaireRound_Acceptance() {
	order := models.Order{
		Reference:  "CM-ACCQ0001",
		ModelName:  "1:6 Iron Man Mk85 bust",
		Stage:      models.StagePendingAdminReview,
		CustomerID: suite.customer.ID,
	}
	suite.NoError(suite.db.Create(&order).Error)

	// Admin sends a questionnaire
	resp, respData := suite.makeRequest("POST", fmt.Sprintf("/api/v1/admin/orders/%d/questionnaire", order.ID), map[string]interface{}{
		"title": "Finish details",
		"questions": []map[string]interface{}{
			{"prompt": "Matte or gloss armour?", "type": "single_select", "required": true, "options": []string{"Matte", "Gloss"}},
		},
	})
	assert.Equal(suite.T(), http.StatusCreated, resp.StatusCode)

	questionnaireData := respData["data"].(map[string]interface{})
	questionnaireID := int(questionnaireData["id"].(float64))
	questionID := int(questionnaireData["questions"].([]interface{})[0].(map[string]interface{})["id"].(float64))

	// Customer answers it
	resp, respData = suite.makeRequest("POST", fmt.Sprintf("/api/v1/questionnaires/%d/responses", questionnaireID), map[string]interface{}{
		"answers": map[string]interface{}{
			fmt.Sprintf("%d", questionID): map[string]interface{}{"value": "Gloss"},
		},
	})
	assert.Equal(suite.T(), http.StatusOK, resp.StatusCode)
	assert.True(suite.T(), respData["data"].(map[string]interface{})["answered"].(bool))

	var updated models.Order
	suite.NoError(suite.db.First(&updated, order.ID).Error)
	assert.Equal(suite.T(), models.StageQuestionnaireCompleted, updated.Stage)
}

// TestEnquiryValidation_Acceptance tests enquiry validation end-to-end
func (suite *OrderAcceptanceTestSuite) TestEnquiryValidation_Acceptance() {
	resp, respData := suite.makeRequest("POST", "/api/v1/enquiries", map[string]interface{}{
		"scale": "1:48",
	})

	assert.Equal(suite.T(), http.StatusBadRequest, resp.StatusCode)
	assert.False(suite.T(), respData["success"].(bool))

	errorData := respData["error"].(map[string]interface{})
	assert.Equal(suite.T(), "VALIDATION_ERROR", errorData["code"])

	// No order was created
	var count int64
	suite.db.Model(&models.Order{}).Count(&count)
	assert.Equal(suite.T(), int64(0), count)
}

// TestStageConflict_Acceptance tests that repeating a transition is a conflict
func (suite *OrderAcceptanceTestSuite) TestStageConflict_Acceptance() {
	order := models.Order{
		Reference:  "CM-ACCC0001",
		ModelName:  "1:700 Yamato",
		Stage:      models.StageEnquiryReceived,
		CustomerID: suite.customer.ID,
	}
	suite.NoError(suite.db.Create(&order).Error)

	resp, _ := suite.makeRequest("POST", fmt.Sprintf("/api/v1/admin/orders/%d/review", order.ID), nil)
	assert.Equal(suite.T(), http.StatusOK, resp.StatusCode)

	// Second review attempt hits the stage guard
	resp, respData := suite.makeRequest("POST", fmt.Sprintf("/api/v1/admin/orders/%d/review", order.ID), nil)
	assert.Equal(suite.T(), http.StatusConflict, resp.StatusCode)
	assert.False(suite.T(), respData["success"].(bool))

	errorData := respData["error"].(map[string]interface{})
	assert.Equal(suite.T(), "INVALID_STAGE", errorData["code"])
	assert.Equal(suite.T(), "pending_admin_review", errorData["current"])
}

// TestExpiredQuote_Acceptance tests that an expired quote cannot be accepted
func (suite *OrderAcceptanceTestSuite) TestExpiredQuote_Acceptance() {
	order := models.Order{
		Reference:  "CM-ACCE0001",
		ModelName:  "1:32 Mustang P-51D",
		Stage:      models.StageQuoteSent,
		CustomerID: suite.customer.ID,
	}
	suite.NoError(suite.db.Create(&order).Error)

	quote := models.Quote{
		OrderID:     order.ID,
		Version:     1,
		Amount:      350,
		Currency:    "USD",
		Timeline:    "4 weeks",
		ValidUntil:  time.Now().Add(-24 * time.Hour),
		ScopeOfWork: []string{"Bare metal finish"},
		Status:      models.QuoteProposed,
	}
	suite.NoError(suite.db.Create(&quote).Error)

	resp, respData := suite.makeRequest("POST", fmt.Sprintf("/api/v1/quotes/%d/accept", quote.ID), nil)
	assert.Equal(suite.T(), http.StatusConflict, resp.StatusCode)

	errorData := respData["error"].(map[string]interface{})
	assert.Equal(suite.T(), "QUOTE_EXPIRED", errorData["code"])

	// The order did not advance
	var unchanged models.Order
	suite.NoError(suite.db.First(&unchanged, order.ID).Error)
	assert.Equal(suite.T(), models.StageQuoteSent, unchanged.Stage)
}

// TestGetOrder_NotFound_Acceptance tests 404 response end-to-end
func (suite *OrderAcceptanceTestSuite) TestGetOrder_NotFound_Acceptance() {
	resp, respData := suite.makeRequest("GET", "/api/v1/orders/99999", nil)

	assert.Equal(suite.T(), http.StatusNotFound, resp.StatusCode)
	assert.False(suite.T(), respData["success"].(bool))

	errorData := respData["error"].(map[string]interface{})
	assert.Equal(suite.T(), "NOT_FOUND", errorData["code"])
}

// TestCancelOrder_Acceptance tests cancelling mid-workflow
func (suite *OrderAcceptanceTestSuite) TestCancelOrder_Acceptance() {
	order := models.Order{
		Reference:  "CM-ACCX0001",
		ModelName:  "1:100 MG Freedom Gundam",
		Stage:      models.StageQuoteSent,
		CustomerID: suite.customer.ID,
	}
	suite.NoError(suite.db.Create(&order).Error)

	resp, respData := suite.makeRequest("POST", fmt.Sprintf("/api/v1/admin/orders/%d/cancel", order.ID), map[string]interface{}{
		"reason": "Customer withdrew the commission",
	})
	assert.Equal(suite.T(), http.StatusOK, resp.StatusCode)

	cancelled := respData["data"].(map[string]interface{})
	assert.Equal(suite.T(), "cancelled", cancelled["stage"])
	assert.Equal(suite.T(), "Customer withdrew the commission", cancelled["cancellation_reason"])

	// Cancellation is terminal
	resp, respData = suite.makeRequest("POST", fmt.Sprintf("/api/v1/admin/orders/%d/review", order.ID), nil)
	assert.Equal(suite.T(), http.StatusConflict, resp.StatusCode)
	assert.Equal(suite.T(), "INVALID_STAGE", respData["error"].(map[string]interface{})["code"])
}

// TestOrderAcceptanceSuite runs the test suite
func TestOrderAcceptanceSuite(t *testing.T) {
	suite.Run(t, new(OrderAcceptanceTestSuite))
}
