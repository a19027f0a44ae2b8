package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/mfrs_ledger_app/internal/handlers"
	"github.com/SscSPs/mfrs_ledger_app/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

const testTenantID = "tenant-1"

// HandlerTestSuite wires every route group behind the real auth and tenant
// middleware with mocked services.
type HandlerTestSuite struct {
	suite.Suite
	router                *gin.Engine
	mockAccountService    *MockAccountService
	mockJournalService    *MockJournalService
	mockTemplateService   *MockTemplateService
	mockComplianceService *MockComplianceService
	jwtSecret             string
	userID                string
}

func (suite *HandlerTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	suite.Require().NoError(handlers.RegisterCustomValidators())
}

func (suite *HandlerTestSuite) SetupTest() {
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"
	suite.userID = uuid.NewString()

	suite.mockAccountService = new(MockAccountService)
	suite.mockJournalService = new(MockJournalService)
	suite.mockTemplateService = new(MockTemplateService)
	suite.mockComplianceService = new(MockComplianceService)

	v1 := suite.router.Group("/api/v1")
	v1.Use(middleware.AuthMiddleware(suite.jwtSecret))
	tenant := v1.Group("/tenants/:tenant_id")
	tenant.Use(middleware.TenantScope())

	handlers.RegisterAccountRoutes(tenant, suite.mockAccountService, suite.mockJournalService)
	handlers.RegisterJournalRoutes(tenant, suite.mockJournalService, suite.mockTemplateService, nil)
	handlers.RegisterReportingRoutes(tenant, suite.mockJournalService)
	handlers.RegisterComplianceRoutes(tenant, suite.mockComplianceService, nil)
	handlers.RegisterComplianceAdminRoutes(v1, suite.mockComplianceService)
}

func (suite *HandlerTestSuite) TearDownTest() {
	suite.mockAccountService.AssertExpectations(suite.T())
	suite.mockJournalService.AssertExpectations(suite.T())
	suite.mockTemplateService.AssertExpectations(suite.T())
	suite.mockComplianceService.AssertExpectations(suite.T())
}

// generateTestToken creates a signed JWT granting userID the test tenant.
func (suite *HandlerTestSuite) generateTestToken(userID string) string {
	return suite.signClaims(middleware.AccessClaims{
		Tenants:          []string{testTenantID},
		RegisteredClaims: suite.registeredClaims(userID),
	})
}

// generateAdminToken creates a signed JWT carrying the admin claim.
func (suite *HandlerTestSuite) generateAdminToken(userID string) string {
	return suite.signClaims(middleware.AccessClaims{
		Tenants:          []string{testTenantID},
		Admin:            true,
		RegisteredClaims: suite.registeredClaims(userID),
	})
}

func (suite *HandlerTestSuite) registeredClaims(userID string) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		Issuer:    "mfrs-ledger-test",
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
}

func (suite *HandlerTestSuite) signClaims(claims middleware.AccessClaims) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

// tenantURL prefixes path with the test tenant's route.
func tenantURL(path string) string {
	return "/api/v1/tenants/" + testTenantID + path
}

// adminURL prefixes path with the shared compliance catalogue route.
func adminURL(path string) string {
	return "/api/v1/compliance" + path
}

// serveAsAdmin issues a request with an admin token.
func (suite *HandlerTestSuite) serveAsAdmin(method, url string, body any) *httptest.ResponseRecorder {
	return suite.serveWithToken(method, url, body, suite.generateAdminToken(suite.userID))
}

// serve issues an authenticated request. body may be nil, a string or any JSON-encodable value.
func (suite *HandlerTestSuite) serve(method, url string, body any) *httptest.ResponseRecorder {
	return suite.serveWithToken(method, url, body, suite.generateTestToken(suite.userID))
}

func (suite *HandlerTestSuite) serveWithToken(method, url string, body any, token string) *httptest.ResponseRecorder {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		suite.Require().NoError(err)
		reader = bytes.NewBuffer(raw)
	}

	req, err := http.NewRequest(method, url, reader)
	suite.Require().NoError(err)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Accept", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// decode unmarshals the response body into a generic map.
func (suite *HandlerTestSuite) decode(w *httptest.ResponseRecorder) map[string]any {
	var body map[string]any
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func TestHandlers(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}
