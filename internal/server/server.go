package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/OFFIS-RIT/docvis/internal/pipeline"
	"github.com/OFFIS-RIT/docvis/internal/queue"
	mid "github.com/OFFIS-RIT/docvis/internal/server/middleware"
	"github.com/OFFIS-RIT/docvis/internal/storage"
	"github.com/OFFIS-RIT/docvis/internal/util"
	"github.com/OFFIS-RIT/docvis/pkg/logger"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i any) error {
	if err := cv.validator.Struct(i); err != nil {
		return err
	}
	return nil
}

// BodyLimit caps request bodies; documents are sent inline.
const BodyLimit = "20M"

// New builds the echo instance with middleware and routes.
func New(app *mid.App) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = &CustomValidator{validator: validator.New()}

	e.Use(mid.AppContextMiddleware(app))
	e.Use(mid.MetricsMiddleware(app.Pipeline.Metrics()))
	e.Use(middleware.CORS())
	e.Use(middleware.RequestLogger())
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit(BodyLimit))

	RegisterRoutes(e, app)
	return e
}

// Init wires the server from cfg and serves until ctx is done.
func Init(ctx context.Context, cfg util.Config) {
	var key mid.KeyProvider
	if cfg.AuthURL != "" {
		k, err := keyfunc.NewDefault([]string{cfg.AuthURL + "/jwks"})
		if err != nil {
			logger.Fatal("Failed to load jwks keys", "err", err)
		}
		key = k
	}
	if key == nil && cfg.MasterAPIKey == "" {
		logger.Warn("No AUTH_URL or MASTER_API_KEY set, /api is open")
	}

	var s3Client *s3.Client
	if cfg.S3Enabled() {
		client, err := storage.NewS3Client(ctx, cfg)
		if err != nil {
			logger.Fatal("Failed to create s3 client", "err", err)
		}
		s3Client = client
	}

	p, err := pipeline.FromConfig(ctx, cfg, s3Client)
	if err != nil {
		logger.Fatal("Failed to set up pipeline", "err", err)
	}
	defer p.Close()

	app := &mid.App{
		Pipeline:     p,
		Key:          key,
		MasterAPIKey: cfg.MasterAPIKey,
	}

	if cfg.EnableQueue {
		conn, err := queue.Dial(ctx, cfg.RabbitMQURL)
		if err != nil {
			logger.Fatal("Failed to connect to RabbitMQ", "err", err)
		}
		defer conn.Close()

		ch, err := conn.Channel()
		if err != nil {
			logger.Fatal("Failed to open channel", "err", err)
		}
		defer ch.Close()

		if err := queue.SetupQueues(ch, []string{queue.VisualizationQueue}); err != nil {
			logger.Fatal("Failed to set up queues", "err", err)
		}
		app.Queue = ch
	}

	e := New(app)

	go func() {
		logger.Info("Starting server", "port", cfg.Port, "ai", p.AIEnabled())
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed shutting down server", "err", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Failed to shutdown server", "err", err)
	}
}
