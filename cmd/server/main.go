package main

import (
	"context"
	"database/sql"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"storefront_service/config"
	"storefront_service/internal/clients"
	"storefront_service/internal/delivery"
	grpcHandler "storefront_service/internal/delivery/grpc"
	"storefront_service/internal/domain"
	"storefront_service/internal/middleware"
	"storefront_service/internal/repository"
	"storefront_service/internal/usecase"
	"storefront_service/pkg/db"
	"storefront_service/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"
)

type repositories struct {
	categories domain.CategoryRepository
	products   domain.ProductRepository
	purchases  domain.PurchaseRepository
	users      domain.UserRepository
}

func main() {
	bootLog := logger.New(logger.Options{Level: "info", JSON: true})
	cfg, err := config.LoadConfig(bootLog)
	if err != nil {
		bootLog.Fatalf("FATAL: %v", err)
	}
	log := logger.New(logger.Options{Level: cfg.LogLevel, JSON: true, File: cfg.LogFile})
	log.Info("Starting Storefront Service...")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repos, closeRepos, err := openRepositories(ctx, cfg, log)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialise %s backend: %v", cfg.DataBackend, err)
	}
	defer closeRepos()
	log.Infof("Repositories initialized (%s backend).", cfg.DataBackend)

	storage, mediaDir := openStorage(cfg, log)

	categoryUseCase := usecase.NewCategoryUseCase(repos.categories, log)
	productUseCase := usecase.NewProductUseCase(repos.products, repos.categories, log)
	purchaseUseCase := usecase.NewPurchaseUseCase(repos.purchases, repos.products, log)
	authUseCase := usecase.NewAuthUseCase(repos.users, cfg.JWTSecret, cfg.AuthTokenTTL, log)
	uploader := usecase.NewImageUploader(storage, cfg.StorageBucket, log)
	log.Info("Use cases initialized.")

	store := middleware.NewCookieStore(cfg.SessionSecret, int(cfg.AuthTokenTTL/time.Second),
		strings.HasPrefix(cfg.PublicBaseURL, "https://"))

	gin.SetMode(gin.ReleaseMode)
	router := delivery.NewRouter(delivery.RouterDeps{
		Categories: delivery.NewCategoryHandler(categoryUseCase, log),
		Products:   delivery.NewProductHandler(productUseCase, log),
		Purchases:  delivery.NewPurchaseHandler(purchaseUseCase, log),
		Auth:       delivery.NewAuthHandler(authUseCase, store, log),
		Uploads:    delivery.NewUploadHandler(uploader, log),
		Admin:      delivery.NewAdminHandler(categoryUseCase, productUseCase, log),
		Verifier:   authUseCase,
		Store:      store,
		MediaDir:   mediaDir,
		Log:        log,
	})
	httpServer := &http.Server{
		Addr:              cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	grpcServer := grpc.NewServer()
	grpcHandler.RegisterCatalogServer(grpcServer, grpcHandler.NewCatalogHandler(categoryUseCase, productUseCase, log))
	reflection.Register(grpcServer)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Infof("HTTP server listening on %s", cfg.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		lis, err := net.Listen("tcp", cfg.GrpcPort)
		if err != nil {
			return err
		}
		log.Infof("gRPC server listening on %s", cfg.GrpcPort)
		if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Warn("Shutdown signal received...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Errorf("HTTP server shutdown error: %v", err)
		}
		grpcServer.GracefulStop()
		log.Info("Servers stopped gracefully.")
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Errorf("Storefront Service stopped with error: %v", err)
		os.Exit(1)
	}
	log.Info("Storefront Service shut down gracefully.")
}

func openRepositories(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*repositories, func(), error) {
	if cfg.DataBackend == config.BackendREST {
		tables := clients.NewTableClient(cfg.DataAPIURL, cfg.DataAPIKey, cfg.HTTPClientTimeout, log)
		return &repositories{
			categories: repository.NewRESTCategoryRepository(tables, log),
			products:   repository.NewRESTProductRepository(tables, log),
			purchases:  repository.NewRESTPurchaseRepository(tables, log),
			users:      repository.NewRESTUserRepository(tables, log),
		}, func() {}, nil
	}

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	log.Info("Database connection established.")
	if cfg.Migrate {
		if err := db.Migrate(ctx, database); err != nil {
			_ = database.Close()
			return nil, nil, err
		}
		log.Info("Database schema applied.")
	}
	return postgresRepositories(database, log), func() {
		if err := database.Close(); err != nil {
			log.Errorf("Error closing database connection: %v", err)
		} else {
			log.Info("Database connection closed.")
		}
	}, nil
}

func postgresRepositories(database *sql.DB, log *logrus.Logger) *repositories {
	return &repositories{
		categories: repository.NewPostgresCategoryRepository(database, log),
		products:   repository.NewPostgresProductRepository(database, log),
		purchases:  repository.NewPostgresPurchaseRepository(database, log),
		users:      repository.NewPostgresUserRepository(database, log),
	}
}

// openStorage returns the image store and, for local storage, the directory
// served under /media.
func openStorage(cfg *config.Config, log *logrus.Logger) (clients.ObjectStorage, string) {
	if cfg.StorageBackend == config.StorageLocal {
		log.Infof("Storing uploads under %s", cfg.StorageDir)
		return clients.NewLocalStorage(cfg.StorageDir, cfg.PublicBaseURL, log), cfg.StorageDir
	}
	return clients.NewStorageHTTPClient(cfg.DataAPIURL, cfg.DataAPIKey, cfg.HTTPClientTimeout, log), ""
}
