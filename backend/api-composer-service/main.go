package main

import (
	"os"

	"taskboard/backend/api-composer-service/handlers"
	"taskboard/backend/api-composer-service/services"
	"taskboard/backend/config"
	"taskboard/backend/logging"
	"taskboard/backend/utils"
)

const serviceName = "api-composer-service"

func main() {
	cfg, envLoaded := config.Load(serviceName, "8006")
	logging.InitLogger(serviceName, cfg.LogFile, cfg.LogLevel)
	if envLoaded {
		logging.Logger.Info("Event ID: ENV_LOADED, Description: Loaded variables from .env file")
	}

	composer := services.NewComposerService(
		utils.NewHTTPClient(cfg.HTTPClientTimeout),
		cfg.ProjectsServiceURL,
		cfg.TasksServiceURL,
		cfg.CommentsServiceURL,
	)

	r := utils.NewServiceRouter(serviceName)
	handlers.NewBoardHandler(composer, utils.NewIdentityExtractor(cfg.AssertionSecret)).Register(r)

	if err := utils.Serve(serviceName, cfg.Port, utils.EnableCORS(cfg.CORSOrigin)(r)); err != nil {
		logging.Logger.Errorf("Event ID: SERVER_ERROR, Description: %v", err)
		os.Exit(1)
	}
}
