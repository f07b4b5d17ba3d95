package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/nxtlevel/rent_ledger_app/internal/core/domain"
	portsrepo "github.com/nxtlevel/rent_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/nxtlevel/rent_ledger_app/internal/core/ports/services"
	"github.com/nxtlevel/rent_ledger_app/internal/middleware"
	"github.com/nxtlevel/rent_ledger_app/internal/platform/config"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	repos *portsrepo.RepositoryProvider,
) {
	registerCustomValidations()

	// Add health check route
	r.GET("/health", NewHomeHandler().Health)

	// Webhook endpoint is public: deliveries authenticate via the signature
	// header, not a bearer token.
	webhookHandler := NewWebhookHandler(services.Webhook)
	r.POST("/webhooks/stripe", webhookHandler.HandleProcessorEvent)

	setupAPIV1Routes(r, cfg, services, repos)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	repos *portsrepo.RepositoryProvider,
) {
	// Apply AuthMiddleware to the entire v1 group
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))

	registerPaymentRoutes(v1, services.Checkout)
	registerLedgerRoutes(v1, services.Ledger, repos.Directory)
	registerRentStatusRoutes(v1, services.Reporting, repos.Directory)
}

// registerCustomValidations wires request-binding validators used by the DTOs.
func registerCustomValidations() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("yearmonth", func(fl validator.FieldLevel) bool {
			_, err := domain.ParseYearMonth(fl.Field().String())
			return err == nil
		})
	}
}
