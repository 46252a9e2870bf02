package main

import (
	"context"
	"os"
	"time"

	"taskboard/backend/config"
	"taskboard/backend/logging"
	"taskboard/backend/tasks-service/handlers"
	"taskboard/backend/tasks-service/repositories"
	"taskboard/backend/tasks-service/services"
	"taskboard/backend/utils"
)

const serviceName = "tasks-service"

func main() {
	cfg, envLoaded := config.Load(serviceName, "8002")
	logging.InitLogger(serviceName, cfg.LogFile, cfg.LogLevel)
	if envLoaded {
		logging.Logger.Info("Event ID: ENV_LOADED, Description: Loaded variables from .env file")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var tasks repositories.TaskRepository
	switch cfg.StoreDriver {
	case config.DriverMemory:
		logging.Logger.Warn("Event ID: STORE_MEMORY, Description: Tasks are kept in memory and lost on restart")
		tasks = repositories.NewMemoryTaskRepository()
	default:
		client, err := utils.ConnectMongo(ctx, cfg.MongoURI)
		if err != nil {
			logging.Logger.Fatalf("Event ID: DB_CONNECTION_FAILED, Description: %v", err)
		}
		defer client.Disconnect(context.Background())

		repo := repositories.NewMongoTaskRepository(client.Database(cfg.MongoDBName).Collection("tasks"))
		if err := repo.EnsureIndexes(ctx); err != nil {
			logging.Logger.Fatalf("Event ID: DB_INDEX_FAILED, Description: %v", err)
		}
		tasks = repo
		logging.Logger.Info("Event ID: DB_CONNECTED, Description: Connected to MongoDB")
	}

	taskHandler := handlers.NewTaskHandler(
		services.NewTaskService(tasks),
		utils.NewIdentityExtractor(cfg.AssertionSecret),
	)

	r := utils.NewServiceRouter(serviceName)
	taskHandler.Register(r)

	if err := utils.Serve(serviceName, cfg.Port, utils.EnableCORS(cfg.CORSOrigin)(r)); err != nil {
		logging.Logger.Errorf("Event ID: SERVER_ERROR, Description: %v", err)
		os.Exit(1)
	}
}
