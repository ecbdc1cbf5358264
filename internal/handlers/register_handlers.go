package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/cashbook_ledger/internal/core/ports/services"
	"github.com/SscSPs/cashbook_ledger/internal/dto"
	"github.com/SscSPs/cashbook_ledger/internal/middleware"
	"github.com/SscSPs/cashbook_ledger/internal/platform/config"
	"github.com/SscSPs/cashbook_ledger/internal/platform/metrics"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces.
// groupMiddleware runs on the API and worker groups after their authentication,
// so it can key on the authenticated caller.
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	groupMiddleware ...gin.HandlerFunc,
) {
	// Amounts are decimals; teach gin's validator to compare them.
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		dto.RegisterValidatorTypes(v)
	}

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	setupAPIV1Routes(r, cfg, services, groupMiddleware)
	setupInternalRoutes(r, cfg, services, groupMiddleware)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	service *portssvc.ServiceContainer,
	groupMiddleware []gin.HandlerFunc,
) {
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))
	v1.Use(groupMiddleware...)
	org := v1.Group("/orgs/:orgID")

	registerCashbookRoutes(org, service.Cashbook)
	registerAccountRoutes(org, service.Account)
	registerContactRoutes(org, service.Contact)
	registerEntryRoutes(org, service.Entry, service.Transfer, service.DeleteApproval)
	registerDashboardRoutes(org, service.Dashboard, service.Audit)
	registerReportingRoutes(org, service.Report)
}

// setupInternalRoutes configures routes called by background workers rather than users.
func setupInternalRoutes(
	r *gin.Engine,
	cfg *config.Config,
	service *portssvc.ServiceContainer,
	groupMiddleware []gin.HandlerFunc,
) {
	internal := r.Group("/internal/orgs/:orgID", middleware.WorkerTokenAuth(cfg.ReportCallbackToken))
	internal.Use(groupMiddleware...)
	registerReportCallbackRoutes(internal, service.Report)
}
