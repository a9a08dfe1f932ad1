package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/DaviHS/badaoburguer/internal/config"
	"github.com/DaviHS/badaoburguer/internal/httpserver"
	"github.com/DaviHS/badaoburguer/internal/mercadopago"
	authmw "github.com/DaviHS/badaoburguer/internal/middleware/auth"
	"github.com/DaviHS/badaoburguer/internal/notify"
	"github.com/DaviHS/badaoburguer/internal/repo"
	"github.com/DaviHS/badaoburguer/internal/search"
	"github.com/DaviHS/badaoburguer/internal/service"
	pkgdb "github.com/DaviHS/badaoburguer/pkg/db"
	"github.com/DaviHS/badaoburguer/pkg/logging"
	loggingmw "github.com/DaviHS/badaoburguer/pkg/middleware/logging"
)

func main() {
	cfg := config.Load()
	cfg.MustValidate()

	logger := logging.New(os.Getenv("LOG_LEVEL")).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := pkgdb.Open(ctx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db open: %v", err)
	}

	if err := repo.Migrate(db); err != nil {
		log.Fatalf("db migrate: %v", err)
	}

	gormRepo := &repo.GormRepo{DB: db}

	var notifier service.Notifier
	var dispatcher *notify.Dispatcher
	if len(cfg.KafkaBrokers) > 0 {
		dispatcher = notify.NewDispatcher(cfg.KafkaBrokers, cfg.NotificationTopic)
		notifier = dispatcher
	} else {
		logger.Warn("kafka brokers not configured, notifications disabled")
	}

	var index service.ProductIndexer
	if cfg.ESURL != "" {
		esClient, err := search.NewClient(cfg.ESURL, cfg.ESUser, cfg.ESPassword)
		if err != nil {
			log.Fatalf("elasticsearch: %v", err)
		}
		index = search.NewIndex(esClient, cfg.ESIndex)
	} else {
		logger.Warn("elasticsearch not configured, product search disabled")
	}

	authSvc := &service.AuthService{
		Repo:          gormRepo,
		JWTSecret:     cfg.JWTAccessSecret,
		RefreshSecret: cfg.JWTRefreshSecret,
	}
	catalogSvc := &service.CatalogService{Repo: gormRepo, Index: index}
	orderSvc := &service.OrderService{Repo: gormRepo, Notifier: notifier}
	userSvc := &service.UserService{Repo: gormRepo}
	paymentSvc := &service.PaymentService{
		Repo:          gormRepo,
		Provider:      mercadopago.NewClient(cfg.MPBaseURL, cfg.MPAccessToken),
		Orders:        orderSvc,
		PublicBaseURL: cfg.PublicBaseURL,
		AutoConfirm:   cfg.PaymentAutoConfirm,
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.CORS())

	httpserver.Register(e, &httpserver.Deps{
		ProductHandler: &httpserver.ProductHTTP{Svc: catalogSvc},
		OrderHandler:   &httpserver.OrderHTTP{Svc: orderSvc},
		PaymentHandler: &httpserver.PaymentHTTP{Svc: paymentSvc},
		AuthHandler:    &httpserver.AuthHTTP{Svc: authSvc},
		UserHandler:    &httpserver.UserHTTP{Svc: userSvc, Notifier: notifier},
		AuthMW:         authmw.NewMiddleware(cfg.JWTAccessSecret, authSvc),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		log.Printf("badaoburguer listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = srv.Shutdown(shutdownCtx)

	if dispatcher != nil {
		_ = dispatcher.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	log.Println("badaoburguer stopped")
}
