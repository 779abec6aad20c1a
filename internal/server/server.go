package server

import (
	"context"
	"log/slog"
	"net/http"

	"course-checkout/internal/handler"
	"course-checkout/internal/middleware"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handlers struct {
	Payment    *handler.PaymentHandler
	Enrollment *handler.EnrollmentHandler
	Webhook    *handler.WebhookHandler
}

type Server struct {
	echo     *echo.Echo
	handlers Handlers
	auth     *middleware.AuthMiddleware
	gatherer prometheus.Gatherer
}

func NewServer(handlers Handlers, auth *middleware.AuthMiddleware, gatherer prometheus.Gatherer, logger *slog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency_ms", v.Latency.Milliseconds(),
			}
			if v.Error != nil {
				logger.Error("request failed", append(attrs, "error", v.Error.Error())...)
				return nil
			}
			logger.Info("request", attrs...)
			return nil
		},
	}))
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())

	s := &Server{
		echo:     e,
		handlers: handlers,
		auth:     auth,
		gatherer: gatherer,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))

	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	api.GET("/courses", s.handlers.Payment.ListCourses)

	// -------- provider webhooks --------
	api.POST("/webhooks/stripe", s.handlers.Webhook.StripeWebhook)

	authed := api.Group("", s.auth.RequireAuth())

	authed.POST("/checkout/intents", s.handlers.Payment.CreateIntent)
	authed.POST("/payments/confirm", s.handlers.Payment.ConfirmPayment)
	authed.POST("/payments/:intentID/enrollment", s.handlers.Payment.RetryEnrollment)
	authed.GET("/enrollments", s.handlers.Enrollment.ListEnrollments)
}

func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
