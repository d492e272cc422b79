package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/httpserver"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/search"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/pkg/config"
	pkgdb "github.com/Skotchmaster/storefront/pkg/db"
	jwthelp "github.com/Skotchmaster/storefront/pkg/jwt"
	"github.com/Skotchmaster/storefront/pkg/logging"
	"github.com/Skotchmaster/storefront/pkg/middleware/csrf"
	loggingmw "github.com/Skotchmaster/storefront/pkg/middleware/logging"
	"github.com/Skotchmaster/storefront/pkg/telemetry"
)

// Set with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: could not load .env: %v", err)
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	startCtx, startCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer startCancel()

	shutdownTracer, err := telemetry.InitTracerProvider(startCtx, cfg.ServiceName, version, cfg.OTLPEndpoint)
	if err != nil {
		log.Fatalf("tracer: %v", err)
	}
	metricsHandler, shutdownMeter, err := telemetry.InitMeterProvider(cfg.ServiceName, version)
	if err != nil {
		log.Fatalf("meter: %v", err)
	}

	db, err := pkgdb.Open(startCtx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	if cfg.DBAutoMigrate {
		if err := models.AutoMigrate(db.WithContext(startCtx)); err != nil {
			log.Fatalf("auto migrate: %v", err)
		}
		logger.Info("schema migrated")
	}

	var publisher events.Publisher = events.Nop{}
	var producer *events.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer = events.NewProducer(cfg.KafkaBrokers)
		publisher = producer
	} else {
		logger.Warn("KAFKA_BROKERS not set, events are dropped")
	}

	r := repo.New(db)
	catalog := &service.CatalogService{Repo: r, Publisher: publisher}
	if cfg.ESURL != "" {
		es, err := search.New(startCtx, search.Config{
			URL:      cfg.ESURL,
			Username: cfg.ESUser,
			Password: cfg.ESPassword,
			Index:    cfg.ESIndex,
		})
		if err != nil {
			logger.Error("search_unavailable", "reason", "falling back to database search", "error", err)
		} else {
			catalog.Index = es
		}
	}

	jwthelp.Secure = cfg.CookieSecure
	auth := service.NewAuthService(r, cfg.JWTAccessSecret, cfg.JWTRefreshSecret)

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = httpserver.ErrorHandler
	e.Validator = httpserver.NewValidator()

	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(echo.WrapMiddleware(func(h http.Handler) http.Handler {
		return otelhttp.NewHandler(h, cfg.ServiceName)
	}))
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.SecureWithConfig(echomw.SecureConfig{
		XSSProtection:      "0",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
	}))
	if len(cfg.CORSOrigins) > 0 {
		e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
			AllowOrigins:     cfg.CORSOrigins,
			AllowCredentials: true,
			AllowHeaders:     []string{echo.HeaderContentType, "X-CSRF-Token"},
		}))
	}
	if cfg.CSRFEnabled {
		e.Use(csrf.Middleware(csrf.Config{
			Secure:       cfg.CookieSecure,
			SkipPrefixes: []string{"/health/", "/server/", "/metrics"},
		}))
	}

	httpserver.Register(e, &httpserver.Deps{
		OrderHandler:     &httpserver.OrderHTTP{Svc: service.NewOrderService(r, publisher)},
		InventoryHandler: &httpserver.InventoryHTTP{Svc: &service.InventoryService{Repo: r}},
		CatalogHandler:   &httpserver.CatalogHTTP{Svc: catalog},
		CategoryHandler:  &httpserver.CategoryHTTP{Svc: &service.CategoryService{Repo: r}},
		AuthHandler:      &httpserver.AuthHTTP{Svc: auth},
		CartHandler:      &httpserver.CartHTTP{Svc: &service.CartService{Repo: r}},
		ServiceName:      cfg.ServiceName,
		JWTSecret:        cfg.JWTAccessSecret,
		Refresher:        auth,
		Ping:             func(ctx context.Context) error { return pkgdb.Ping(ctx, db) },
		Metrics:          metricsHandler,
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		logger.Info("listening", "addr", srv.Addr, "version", version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}
	closeAll(shutdownCtx, logger, db, producer, shutdownTracer, shutdownMeter)
	logger.Info("storefront stopped")
}

func closeAll(ctx context.Context, l *slog.Logger, db *gorm.DB, producer *events.Producer, shutdowns ...func(context.Context) error) {
	if producer != nil {
		if err := producer.Close(); err != nil {
			l.Error("kafka close error", "error", err)
		}
	}
	if err := pkgdb.Close(db); err != nil {
		l.Error("db close error", "error", err)
	}
	for _, fn := range shutdowns {
		if err := fn(ctx); err != nil {
			l.Error("telemetry shutdown error", "error", err)
		}
	}
}
