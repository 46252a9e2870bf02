package main

import (
	"context"
	"os"
	"time"

	"taskboard/backend/config"
	"taskboard/backend/logging"
	"taskboard/backend/projects-service/handlers"
	"taskboard/backend/projects-service/repositories"
	"taskboard/backend/projects-service/services"
	"taskboard/backend/utils"
)

const serviceName = "projects-service"

func main() {
	cfg, envLoaded := config.Load(serviceName, "8003")
	logging.InitLogger(serviceName, cfg.LogFile, cfg.LogLevel)
	if envLoaded {
		logging.Logger.Info("Event ID: ENV_LOADED, Description: Loaded variables from .env file")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var projects repositories.ProjectRepository
	switch cfg.StoreDriver {
	case config.DriverMemory:
		logging.Logger.Warn("Event ID: STORE_MEMORY, Description: Projects are kept in memory and lost on restart")
		projects = repositories.NewMemoryProjectRepository()
	default:
		client, err := utils.ConnectMongo(ctx, cfg.MongoURI)
		if err != nil {
			logging.Logger.Fatalf("Event ID: DB_CONNECTION_FAILED, Description: %v", err)
		}
		defer client.Disconnect(context.Background())

		repo := repositories.NewMongoProjectRepository(client.Database(cfg.MongoDBName).Collection("projects"))
		if err := repo.EnsureIndexes(ctx); err != nil {
			logging.Logger.Fatalf("Event ID: DB_INDEX_FAILED, Description: %v", err)
		}
		projects = repo
		logging.Logger.Info("Event ID: DB_CONNECTED, Description: Connected to MongoDB")
	}

	projectHandler := handlers.NewProjectHandler(
		services.NewProjectService(projects),
		utils.NewIdentityExtractor(cfg.AssertionSecret),
	)

	r := utils.NewServiceRouter(serviceName)
	projectHandler.Register(r)

	if err := utils.Serve(serviceName, cfg.Port, utils.EnableCORS(cfg.CORSOrigin)(r)); err != nil {
		logging.Logger.Errorf("Event ID: SERVER_ERROR, Description: %v", err)
		os.Exit(1)
	}
}
