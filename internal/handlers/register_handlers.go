package handlers

import (
	"net/http"

	"github.com/SscSPs/mfrs_ledger_app/cmd/docs"
	portssvc "github.com/SscSPs/mfrs_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/mfrs_ledger_app/internal/middleware"
	"github.com/SscSPs/mfrs_ledger_app/internal/platform/config"
	"github.com/SscSPs/mfrs_ledger_app/internal/platform/metrics"
	"github.com/SscSPs/mfrs_ledger_app/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	m *metrics.Metrics,
	posthogClient *utils.PosthogClientWrapper,
) {
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	r.GET("/metrics", gin.WrapH(m.Handler()))

	setupAPIV1Routes(r, cfg, services, posthogClient)

	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	posthogClient *utils.PosthogClientWrapper,
) {
	var jwtOpts []jwt.ParserOption
	if cfg.JWTIssuer != "" {
		jwtOpts = append(jwtOpts, jwt.WithIssuer(cfg.JWTIssuer))
	}

	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret, jwtOpts...))

	// Every ledger resource lives under a tenant the token grants.
	tenant := v1.Group("/tenants/:tenant_id", middleware.TenantScope(), middleware.PosthogMiddleware(posthogClient))

	RegisterAccountRoutes(tenant, services.Account, services.Journal)
	RegisterJournalRoutes(tenant, services.Journal, services.Templates, posthogClient)
	RegisterReportingRoutes(tenant, services.Journal)
	RegisterComplianceRoutes(tenant, services.Compliance, posthogClient)

	RegisterComplianceAdminRoutes(v1, services.Compliance)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
