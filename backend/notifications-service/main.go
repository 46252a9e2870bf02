package main

import (
	"context"
	"os"
	"time"

	"taskboard/backend/config"
	"taskboard/backend/logging"
	"taskboard/backend/notifications-service/handlers"
	"taskboard/backend/notifications-service/repositories"
	"taskboard/backend/notifications-service/services"
	"taskboard/backend/utils"
)

const serviceName = "notifications-service"

func main() {
	cfg, envLoaded := config.Load(serviceName, "8004")
	logging.InitLogger(serviceName, cfg.LogFile, cfg.LogLevel)
	if envLoaded {
		logging.Logger.Info("Event ID: ENV_LOADED, Description: Loaded variables from .env file")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var repo repositories.NotificationRepository
	switch cfg.NotificationsStore {
	case config.DriverMemory:
		logging.Logger.Warn("Event ID: STORE_MEMORY, Description: Notifications are kept in memory and lost on restart")
		repo = repositories.NewMemoryNotificationRepository()
	case config.DriverCassandra:
		cass, err := repositories.NewCassandraNotificationRepository(cfg.CassandraHosts, cfg.CassandraKeyspace)
		if err != nil {
			logging.Logger.Fatalf("Event ID: DB_CONNECTION_FAILED, Description: %v", err)
		}
		defer cass.CloseSession()

		if err := cass.CreateTable(); err != nil {
			logging.Logger.Fatalf("Event ID: DB_SCHEMA_FAILED, Description: %v", err)
		}
		repo = cass
	default:
		client, err := utils.ConnectMongo(ctx, cfg.MongoURI)
		if err != nil {
			logging.Logger.Fatalf("Event ID: DB_CONNECTION_FAILED, Description: %v", err)
		}
		defer client.Disconnect(context.Background())

		mongoRepo := repositories.NewMongoNotificationRepository(client.Database(cfg.MongoDBName).Collection("notifications"))
		if err := mongoRepo.EnsureIndexes(ctx); err != nil {
			logging.Logger.Fatalf("Event ID: DB_INDEX_FAILED, Description: %v", err)
		}
		repo = mongoRepo
		logging.Logger.Info("Event ID: DB_CONNECTED, Description: Connected to MongoDB")
	}

	handler := handlers.NewNotificationHandler(
		services.NewNotificationService(repo),
		utils.NewIdentityExtractor(cfg.AssertionSecret),
	)

	r := utils.NewServiceRouter(serviceName)
	handler.Register(r)

	if err := utils.Serve(serviceName, cfg.Port, utils.EnableCORS(cfg.CORSOrigin)(r)); err != nil {
		logging.Logger.Errorf("Event ID: SERVER_ERROR, Description: %v", err)
		os.Exit(1)
	}
}
