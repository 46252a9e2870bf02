package main

import (
	"os"

	"taskboard/api-gateway/verifier"
	"taskboard/backend/config"
	"taskboard/backend/logging"
	"taskboard/backend/utils"
)

func main() {
	cfg, envLoaded := config.Load(serviceName, "8000")
	logging.InitLogger(serviceName, cfg.LogFile, cfg.LogLevel)
	if envLoaded {
		logging.Logger.Info("Event ID: ENV_LOADED, Description: Loaded variables from .env file")
	}

	var signer *utils.AssertionSigner
	if cfg.AssertionSecret != "" {
		signer = utils.NewAssertionSigner(cfg.AssertionSecret)
		logging.Logger.Info("Event ID: ASSERTION_ENABLED, Description: Forwarded identities carry a signed assertion")
	}

	httpClient := utils.NewHTTPClient(cfg.HTTPClientTimeout)
	g, err := newGateway(cfg, verifier.NewTokenVerifier(cfg.UsersServiceURL, httpClient), signer)
	if err != nil {
		logging.Logger.Fatalf("Event ID: CONFIG_ERROR, Description: %v", err)
	}

	if err := utils.Serve(serviceName, cfg.Port, utils.EnableCORS(cfg.CORSOrigin)(g.router())); err != nil {
		logging.Logger.Errorf("Event ID: SERVER_ERROR, Description: %v", err)
		os.Exit(1)
	}
}
