package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tokito/genka-kanri/internal/auth"
	"github.com/tokito/genka-kanri/internal/config"
	"github.com/tokito/genka-kanri/internal/db"
	"github.com/tokito/genka-kanri/internal/excel"
	httphandler "github.com/tokito/genka-kanri/internal/http"
	"github.com/tokito/genka-kanri/internal/http/middleware"
	"github.com/tokito/genka-kanri/internal/logger"
	"github.com/tokito/genka-kanri/internal/pdf"
	"github.com/tokito/genka-kanri/internal/repository"
	"github.com/tokito/genka-kanri/internal/service"
	"github.com/tokito/genka-kanri/internal/store"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)
	ctx := context.Background()

	database, err := db.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	documentRepo := repository.NewDocumentRepository(database)
	userRepo := repository.NewUserRepository(database)

	gateway := store.NewGateway(documentRepo, cfg.Store.DocumentID, log)
	dataset, err := gateway.Load(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load dataset")
	}
	flusher := store.NewFlusher(gateway, cfg.Store.SaveDebounce, log)

	rules, err := excel.LoadImportRules(cfg.Reports.ImportRulesFile)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load import rules")
	}

	var pdfGenerator service.PDFGenerator
	if cfg.Reports.PDFFontPath == "" {
		log.Warn().Msg("PDF_FONT_PATH not set, pdf export disabled")
	} else if generator, err := pdf.NewGeneratorFromFile(cfg.Reports.PDFFontPath); err != nil {
		log.Warn().Err(err).Msg("pdf export disabled")
	} else {
		pdfGenerator = generator
	}

	tracker := service.NewTracker(dataset, flusher, excel.NewGenerator(), pdfGenerator, rules, log)

	var revoker auth.Revoker = auth.NewMemoryRevoker()
	redisClient, err := auth.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	switch {
	case err != nil:
		log.Fatal().Err(err).Msg("failed to connect redis")
	case redisClient != nil:
		defer redisClient.Close()
		revoker = auth.NewRedisRevoker(redisClient)
	default:
		log.Warn().Msg("REDIS_ADDR not set, token revocation is kept in memory")
	}

	issuer := auth.NewIssuer(cfg.Auth.AccessSecret, cfg.Auth.AccessTTL)
	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)
	authService := service.NewAuthService(userRepo, issuer, revoker, cfg.Auth.AllowSignUp, log)

	handler := httphandler.NewHandler(tracker, authService, log)
	authMiddleware := middleware.Auth(tokenParser, revoker, log)
	router := httphandler.NewRouter(handler, authMiddleware, cfg.Environment, cfg.HTTP.AllowedOrigins)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("starting genka service")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	if !flusher.Close(shutdownCtx) {
		log.Error().Msg("pending changes were not saved")
		return
	}
	log.Info().Msg("stopped")
}
