package main

import (
	"context"
	"os"
	"time"

	"taskboard/backend/config"
	"taskboard/backend/logging"
	"taskboard/backend/users-service/handlers"
	"taskboard/backend/users-service/repositories"
	"taskboard/backend/users-service/services"
	"taskboard/backend/utils"
)

const serviceName = "users-service"

func main() {
	cfg, envLoaded := config.Load(serviceName, "8001")
	logging.InitLogger(serviceName, cfg.LogFile, cfg.LogLevel)
	if envLoaded {
		logging.Logger.Info("Event ID: ENV_LOADED, Description: Loaded variables from .env file")
	}

	if cfg.JWTSecret == "" {
		logging.Logger.Fatal("Event ID: CONFIG_ERROR, Description: JWT_SECRET must be set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var users repositories.UserRepository
	switch cfg.StoreDriver {
	case config.DriverMemory:
		logging.Logger.Warn("Event ID: STORE_MEMORY, Description: Users are kept in memory and lost on restart")
		users = repositories.NewMemoryUserRepository()
	default:
		client, err := utils.ConnectMongo(ctx, cfg.MongoURI)
		if err != nil {
			logging.Logger.Fatalf("Event ID: DB_CONNECTION_FAILED, Description: %v", err)
		}
		defer client.Disconnect(context.Background())

		repo := repositories.NewMongoUserRepository(client.Database(cfg.MongoDBName).Collection("users"))
		if err := repo.EnsureIndexes(ctx); err != nil {
			logging.Logger.Fatalf("Event ID: DB_INDEX_FAILED, Description: %v", err)
		}
		users = repo
		logging.Logger.Info("Event ID: DB_CONNECTED, Description: Connected to MongoDB")
	}

	var revoked services.RevocationStore
	if cfg.RedisURL != "" {
		store, err := services.NewRedisRevocationStore(cfg.RedisURL)
		if err != nil {
			logging.Logger.Fatalf("Event ID: REDIS_CONNECTION_FAILED, Description: %v", err)
		}
		defer store.Close()
		revoked = store
	} else {
		revoked = services.NewMemoryRevocationStore()
	}

	authService := services.NewAuthService(users, services.NewJWTService(cfg.JWTSecret, cfg.JWTTTL), revoked)
	userHandler := handlers.NewUserHandler(authService, utils.NewIdentityExtractor(cfg.AssertionSecret))

	r := utils.NewServiceRouter(serviceName)
	userHandler.Register(r)

	if err := utils.Serve(serviceName, cfg.Port, utils.EnableCORS(cfg.CORSOrigin)(r)); err != nil {
		logging.Logger.Errorf("Event ID: SERVER_ERROR, Description: %v", err)
		os.Exit(1)
	}
}
