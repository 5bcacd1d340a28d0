package main

import (
	"context"
	"os"

	"github.com/arianium/rws-data-ingester/pkg/config"
	"github.com/arianium/rws-data-ingester/pkg/locations"
	"github.com/arianium/rws-data-ingester/pkg/prometheus"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	// for development purposes
	// we don't care about errors here
	_ = godotenv.Load(".env")
	conf := config.NewConfig()

	c := context.Background()
	ctx, cancel := context.WithCancel(c)

	logger := createLogger(conf)
	mon := prometheus.NewMonitor()

	checkAPIKey(conf, logger)

	registry, err := locations.NewRegistry(conf.LocationsFile)
	if err != nil {
		logger.Fatalf("Could not load locations: %v", err)
	}

	pipeline := NewPipeline(ctx, conf, registry, mon, logger)

	args := os.Args[1:]
	if len(args) > 0 && args[0] == "serve" {
		locs, err := pipeline.resolve(args[1:])
		if err != nil {
			logger.Fatalf("Could not resolve locations: %v", err)
		}

		if err := pipeline.generateAll(locs); err != nil {
			logger.Errorf("Could not generate all reports: %v", err)
		}

		StartServer(NewRouter(&HandlerRepository{
			registry: registry,
			config:   conf,
			monitor:  mon,
			logger:   logger,
		}), conf.HTTPPort, cancel)
		return
	}

	if err := pipeline.Run(args); err != nil {
		logger.Fatalf("Something went wrong: %v", err)
	}
	cancel()
}

func checkAPIKey(conf *config.Config, logger *logrus.Logger) {
	switch conf.AiProvider {
	case "openai":
		if conf.OpenAiAPIKey == "" {
			logger.Fatal("OPENAI_API_KEY is missing in environment variables.")
		}
	case "anthropic":
		if conf.AnthropicAPIKey == "" {
			logger.Fatal("ANTHROPIC_API_KEY is missing in environment variables.")
		}
	}
}

func createLogger(conf *config.Config) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetLevel(logrus.InfoLevel)
	if conf.Debug {
		logger.SetLevel(logrus.DebugLevel)
	}

	return logger
}
