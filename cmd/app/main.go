package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/prasetyowira/etiqueta/api"
	"github.com/prasetyowira/etiqueta/config"
	"github.com/prasetyowira/etiqueta/constant"
	"github.com/prasetyowira/etiqueta/domain/assets"
	"github.com/prasetyowira/etiqueta/domain/catalog"
	"github.com/prasetyowira/etiqueta/domain/export"
	"github.com/prasetyowira/etiqueta/domain/report"
	"github.com/prasetyowira/etiqueta/infrastructure/barcode"
	"github.com/prasetyowira/etiqueta/infrastructure/cache"
	"github.com/prasetyowira/etiqueta/infrastructure/db"
	appLogger "github.com/prasetyowira/etiqueta/infrastructure/logger"
	"github.com/prasetyowira/etiqueta/infrastructure/qrcode"
	"github.com/prasetyowira/etiqueta/infrastructure/render"
	"github.com/prasetyowira/etiqueta/infrastructure/storage"
)

func main() {
	// Load configuration from environment variables
	cfg := config.LoadConfig()

	// Initialize logger based on environment
	isProduction := cfg.LogLevel == "INFO"
	appLogger.Initialize(isProduction)
	defer appLogger.Close()

	appLogger.Info(constant.MsgApplicationStarting, appLogger.LoggerInfo{
		ContextFunction: constant.CtxMain,
		Data: map[string]interface{}{
			constant.DataPort:        cfg.Port,
			constant.DataDBPath:      cfg.DatabaseURL,
			constant.DataBackend:     cfg.StorageBackend,
			constant.DataEnvironment: cfg.LogLevel,
		},
	})

	// Create SQLite repository
	repository, err := db.NewSQLiteRepository(cfg.DatabaseURL)
	if err != nil {
		appLogger.Fatal(constant.MsgFailedToInitDB, appLogger.LoggerInfo{
			ContextFunction: constant.CtxMain,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeAppDBInit,
				Message: err.Error(),
				Type:    constant.ErrTypeApp,
			},
			Data: map[string]interface{}{
				constant.DataDBPath: cfg.DatabaseURL,
			},
		})
	}
	defer repository.Close()

	blobs, err := newBlobStore(cfg)
	if err != nil {
		appLogger.Fatal(constant.MsgFailedToInitStorage, appLogger.LoggerInfo{
			ContextFunction: constant.CtxMain,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeAppStorageInit,
				Message: err.Error(),
				Type:    constant.ErrTypeApp,
			},
			Data: map[string]interface{}{
				constant.DataBackend: cfg.StorageBackend,
			},
		})
	}

	rasterizer, err := render.NewPNGRasterizer()
	if err != nil {
		appLogger.Fatal("Failed to initialize rasterizer", appLogger.LoggerInfo{
			ContextFunction: constant.CtxMain,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeLabelRender,
				Message: err.Error(),
				Type:    constant.ErrTypeApp,
			},
		})
	}

	// Domain services
	catalogSvc := catalog.NewService(repository, cache.NewNamespaceLRU(cfg.CacheSize))
	qrGen := qrcode.NewGenerator()
	assetSvc := assets.NewService(catalogSvc, repository, blobs, qrGen, barcode.NewGenerator(), rasterizer, render.NewSVGRenderer())
	exporter := export.NewExporter(catalogSvc, repository, blobs, qrGen, assetSvc, assetSvc, cache.NewNamespaceLRU(cfg.CacheSize))
	reports := report.NewService(catalogSvc, repository)

	// Create API handler and router
	handler := api.NewHandler(catalogSvc, assetSvc, exporter, reports)
	router := api.NewRouter(handler, cfg.AuthUser, cfg.AuthPass)
	router.SetupRoutes()

	// Configure HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second, // bulk exports can be slow
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		appLogger.Info(constant.MsgServerStarting, appLogger.LoggerInfo{
			ContextFunction: constant.CtxMain,
			Data: map[string]interface{}{
				constant.DataPort: cfg.Port,
			},
		})

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal(constant.MsgServerFailedToStart, appLogger.LoggerInfo{
				ContextFunction: constant.CtxMain,
				Error: &appLogger.CustomError{
					Code:    constant.ErrCodeAppServerStart,
					Message: err.Error(),
					Type:    constant.ErrTypeApp,
				},
				Data: map[string]interface{}{
					constant.DataPort: cfg.Port,
				},
			})
		}
	}()

	// Set up graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	appLogger.Info(constant.MsgServerShuttingDown, appLogger.LoggerInfo{
		ContextFunction: constant.CtxMain,
	})

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		appLogger.Error(constant.MsgServerShutdownError, appLogger.LoggerInfo{
			ContextFunction: constant.CtxMain,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeAppServerShutdown,
				Message: err.Error(),
				Type:    constant.ErrTypeApp,
			},
		})
	}

	appLogger.Info(constant.MsgServerStopped, appLogger.LoggerInfo{
		ContextFunction: constant.CtxMain,
	})
}

// newBlobStore selects the blob storage backend from configuration.
func newBlobStore(cfg config.Config) (storage.BlobStore, error) {
	if cfg.StorageBackend == "minio" {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		return storage.NewMinIOStore(ctx, storage.MinIOConfig{
			Endpoint:  cfg.MinIOEndpoint,
			AccessKey: cfg.MinIOAccessKey,
			SecretKey: cfg.MinIOSecretKey,
			Bucket:    cfg.MinIOBucket,
			UseSSL:    cfg.MinIOUseSSL,
		})
	}

	return storage.NewFSStore(cfg.AssetDir)
}
