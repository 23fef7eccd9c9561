package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"translateapi/docs"
	"translateapi/internal/service"
)

// Deps are the collaborators the HTTP layer needs.
type Deps struct {
	Translation service.TranslationService
	Auth        service.AuthService
	Checkout    service.CheckoutService
	// HealthChecks are probed by /health.
	HealthChecks []Check
	// Gatherer backs /metrics. Nil disables the endpoint.
	Gatherer prometheus.Gatherer
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, d Deps) {
	app.Get("/health", HealthCheck(d.HealthChecks...))
	app.Get("/healthz", LivenessProbe())
	if d.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}
	app.Get("/swagger/*", SwaggerUI())

	api := app.Group("/api")

	api.Post("/auth/register", Register(d.Auth))
	api.Post("/auth/login", Login(d.Auth))
	api.Post("/auth/forgot_password", ForgotPassword(d.Auth))
	api.Post("/auth/reset_password", ResetPassword(d.Auth))
	api.Get("/user/:id", GetUser(d.Auth))
	api.Delete("/user/:id", DeleteUser(d.Auth))

	api.Post("/upload", UploadFile(d.Translation))
	api.Get("/saved_data", SavedData(d.Translation))
	api.Post("/translate", Translate(d.Translation))
	api.Get("/outputs/:fileName", DownloadOutput(d.Translation))

	api.Get("/current_subscription/:userId", CurrentSubscription(d.Checkout))
	api.Get("/subscriptions/:userId", Subscriptions(d.Checkout))
	api.Post("/create_product", CreateProduct(d.Checkout))
	api.Post("/create_checkout_session", CreateCheckoutSession(d.Checkout))
}

// SwaggerUI serves the API docs with host and scheme taken from the request.
func SwaggerUI() fiber.Handler {
	return func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.TrimSpace(strings.Split(proto, ",")[0])
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	}
}
