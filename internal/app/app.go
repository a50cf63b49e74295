package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/alimikegami/pi-callback-service/config"
	"github.com/alimikegami/pi-callback-service/internal/controller"
	circuitbreaker "github.com/alimikegami/pi-callback-service/internal/infrastructure/circuit-breaker"
	"github.com/alimikegami/pi-callback-service/internal/infrastructure/message-queue/kafka"
	paymentnetwork "github.com/alimikegami/pi-callback-service/internal/infrastructure/payment-network"
	"github.com/alimikegami/pi-callback-service/internal/infrastructure/tracing"
	"github.com/alimikegami/pi-callback-service/internal/metrics"
	localmiddleware "github.com/alimikegami/pi-callback-service/internal/middleware"
	"github.com/alimikegami/pi-callback-service/internal/repository"
	"github.com/alimikegami/pi-callback-service/internal/service"
	"github.com/alimikegami/pi-callback-service/internal/signature"
	"github.com/alimikegami/pi-callback-service/pkg/errs"
	"github.com/alimikegami/pi-callback-service/pkg/response"
	"github.com/go-co-op/gocron/v2"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
)

type App struct {
	DB     *mongo.Database
	Config *config.Config
	Server *echo.Echo
}

func (app *App) Start() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = logger

	e := echo.New()
	app.Server = e

	traceProvider, err := tracing.InitTracing(app.Config.TracingConfig.CollectorHost)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize tracing")
	}

	defer func() {
		if err := tracing.Shutdown(context.Background(), traceProvider); err != nil {
			logger.Error().Err(err).Msg("Failed to shutdown tracing")
		}
	}()

	if traceProvider != nil {
		tracer := traceProvider.Tracer("pi-callback-service")

		e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error {
				// span creation and naming
				ctx, span := tracer.Start(c.Request().Context(), fmt.Sprintf("[%s] %s", c.Request().Method, c.Path()))
				defer span.End()

				// add the context to the request
				req := c.Request()
				c.SetRequest(req.WithContext(ctx))

				return next(c)
			}
		})
	}

	// The payment network must never see internal error detail: everything
	// that falls through to the error handler becomes an opaque body in the
	// {"error": ...} shape the callback contract uses.
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		statusCode := http.StatusInternalServerError
		message := errs.ErrInternalServer.Error()

		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) && httpErr.Code != http.StatusInternalServerError {
			statusCode = httpErr.Code
			message = fmt.Sprintf("%v", httpErr.Message)
		} else {
			log.Error().Err(err).Str("component", "HTTPErrorHandler").Msg("unhandled error")
		}

		if err := c.JSON(statusCode, response.ErrorResponse{Error: message}); err != nil {
			log.Error().Err(err).Str("component", "HTTPErrorHandler").Msg("")
		}
	}

	e.Use(middleware.Recover())

	// Used empty string so that metrics are not prefixed with the service name making it easier to aggregate across services
	e.Use(echoprometheus.NewMiddleware(""))
	metrics.Register()

	go func() {
		metricsServer := echo.New()
		metricsServer.GET("/metrics", echoprometheus.NewHandler())
		if err := metricsServer.Start(fmt.Sprintf(":%s", app.Config.MetricsPort)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start metrics server")
		}
	}()

	e.Use(localmiddleware.Logger)

	e.Static("/", app.Config.CallbackConfig.StaticDir)

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	g := e.Group("/api/v1")

	g.GET("/ping", func(c echo.Context) error {
		return response.WriteSuccessResponse(c, "Hello, World!", nil)
	})

	verifier := signature.CreateVerifier(app.Config.CallbackConfig.SignatureSecret)
	if app.Config.CallbackConfig.SignatureSecret == "" {
		log.Warn().Msg("SIGNATURE_SECRET is not set, callbacks will be accepted without verification")
	}

	kafkaProducer := kafka.CreateKafkaProducer(app.Config)
	platformClient := paymentnetwork.CreateClient(app.Config)
	cb := circuitbreaker.CreateCircuitBreaker("notification-store")

	notificationRepo := repository.CreateNotificationRepository(app.DB)
	callbackSvc := service.CreateCallbackService(notificationRepo, verifier, kafkaProducer, platformClient, cb, app.Config)
	controller.CreateCallbackController(e, g, callbackSvc, localmiddleware.Auth(app.Config.JWTSecret))

	s, err := gocron.NewScheduler()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create scheduler")
	}

	_, err = s.NewJob(
		gocron.DurationJob(
			30*time.Second,
		),
		gocron.NewTask(
			callbackSvc.FlushPendingWrites,
		),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to schedule pending write flush")
	}

	s.Start()
	defer func() {
		if err := s.Shutdown(); err != nil {
			log.Error().Err(err).Msg("Failed to shutdown scheduler")
		}
	}()

	e.Logger.Fatal(e.Start(fmt.Sprintf(":%s", app.Config.ServicePort)))
}

func (app *App) StopServer() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return app.Server.Shutdown(ctx)
}
