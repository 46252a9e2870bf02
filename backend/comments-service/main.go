package main

import (
	"context"
	"os"
	"time"

	"taskboard/backend/comments-service/clients"
	"taskboard/backend/comments-service/handlers"
	"taskboard/backend/comments-service/repositories"
	"taskboard/backend/comments-service/services"
	"taskboard/backend/config"
	"taskboard/backend/logging"
	"taskboard/backend/utils"
)

const serviceName = "comments-service"

func main() {
	cfg, envLoaded := config.Load(serviceName, "8005")
	logging.InitLogger(serviceName, cfg.LogFile, cfg.LogLevel)
	if envLoaded {
		logging.Logger.Info("Event ID: ENV_LOADED, Description: Loaded variables from .env file")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var comments repositories.CommentRepository
	switch cfg.StoreDriver {
	case config.DriverMemory:
		logging.Logger.Warn("Event ID: STORE_MEMORY, Description: Comments are kept in memory and lost on restart")
		comments = repositories.NewMemoryCommentRepository()
	default:
		client, err := utils.ConnectMongo(ctx, cfg.MongoURI)
		if err != nil {
			logging.Logger.Fatalf("Event ID: DB_CONNECTION_FAILED, Description: %v", err)
		}
		defer client.Disconnect(context.Background())

		repo := repositories.NewMongoCommentRepository(client.Database(cfg.MongoDBName).Collection("comments"))
		if err := repo.EnsureIndexes(ctx); err != nil {
			logging.Logger.Fatalf("Event ID: DB_INDEX_FAILED, Description: %v", err)
		}
		comments = repo
		logging.Logger.Info("Event ID: DB_CONNECTED, Description: Connected to MongoDB")
	}

	httpClient := utils.NewHTTPClient(cfg.HTTPClientTimeout)
	dispatcher := services.NewInlineDispatcher(
		clients.NewTasksClient(cfg.TasksServiceURL, httpClient),
		clients.NewNotificationsClient(cfg.NotificationsServiceURL, httpClient),
	)

	commentHandler := handlers.NewCommentHandler(
		services.NewCommentService(comments, dispatcher),
		utils.NewIdentityExtractor(cfg.AssertionSecret),
	)

	r := utils.NewServiceRouter(serviceName)
	commentHandler.Register(r)

	if err := utils.Serve(serviceName, cfg.Port, utils.EnableCORS(cfg.CORSOrigin)(r)); err != nil {
		logging.Logger.Errorf("Event ID: SERVER_ERROR, Description: %v", err)
		os.Exit(1)
	}
}
