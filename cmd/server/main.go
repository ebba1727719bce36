package main

import (
	"os"
	"strconv"

	"github.com/sirupsen/logrus"

	"sudogwon/web/config"
	"sudogwon/web/internal/api"
	"sudogwon/web/internal/web"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}
	logger.WithField("api_base_url", cfg.APIBaseURL).Info("Using backend API")

	client := api.NewClient(cfg.APIBaseURL, logger)
	handler := web.NewHandler(client, cfg, logger)

	router, err := web.SetupRouter(handler)
	if err != nil {
		logger.WithError(err).Fatal("Failed to set up router")
	}

	addr := ":" + strconv.Itoa(cfg.Port)
	logger.Infof("Starting server on port %d", cfg.Port)
	if err := router.Run(addr); err != nil {
		logger.WithError(err).Fatal("Server failed to start")
	}
}
