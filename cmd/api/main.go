package main

import (
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"opdsapi/internal/archive"
	"opdsapi/internal/catalog"
	"opdsapi/internal/config"
	apphttp "opdsapi/internal/http"
	"opdsapi/internal/httpx"
	"opdsapi/internal/taxonomy"
)

func main() {
	_ = godotenv.Load(".env.local")

	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("cannot create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	store, err := taxonomy.Load(cfg.TaxonomyPath)
	if err != nil {
		logger.Fatal("cannot load taxonomy", zap.String("path", cfg.TaxonomyPath), zap.Error(err))
	}

	client := archive.NewClient(cfg.ArchiveBaseURL, cfg.ArchiveUserAgent,
		cfg.ArchiveRPS, cfg.ArchiveMaxRetries, logger)
	provider := archive.NewProvider(client, logger)

	factory := catalog.NewFactory(store, provider)
	manifests := catalog.NewManifestBuilder(provider)

	catalogHandler := apphttp.NewCatalogHandler(factory, logger)
	bookHandler := apphttp.NewBookHandler(manifests, provider, logger)

	router := http.NewServeMux()
	router.HandleFunc("/{$}", catalogHandler.Root)
	router.HandleFunc("/catalog", catalogHandler.Catalog)
	router.HandleFunc("/authentication_document", apphttp.AuthenticationDocument)
	router.HandleFunc("/audiobooks/", bookHandler.AudiobookManifest)
	router.HandleFunc("/book/", bookHandler.BookRedirect)
	router.HandleFunc("/healthcheck", apphttp.Healthcheck)

	rateLimit := httpx.NewRateLimitMiddleware(cfg.ClientRPS, cfg.ClientBurst)

	var handler http.Handler = router
	handler = rateLimit.Middleware(handler)
	handler = httpx.RequestSizeLimitMiddleware(cfg.RequestSizeLimit)(handler)
	handler = httpx.SecurityHeadersMiddleware(handler)
	handler = httpx.CORSMiddleware(cfg.CORSAllowedOrigins)(handler)
	handler = httpx.RecoveryMiddleware(logger)(handler)
	handler = httpx.AccessLogMiddleware(logger)(handler)
	handler = httpx.RequestIDMiddleware(handler)

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("starting server", zap.String("addr", cfg.Addr))
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
