package main

import (
	"context"
	"flag"
	"os"

	"fleetmaster/config"
	"fleetmaster/internal/app"
	"fleetmaster/pkg/logger"

	_ "fleetmaster/docs"
)

var (
	helpFlag   = flag.Bool("help", false, "Show help message")
	configPath = flag.String("config-path", "config.yaml", "Path to the config yaml file")
	logLevel   = flag.String("log-level", logger.LevelDebug, "Log level: DEBUG, INFO, WARN or ERROR")
)

// @title           Fleetmaster API
// @version         1.0
// @description     Fleet management backend: owner and driver authentication, vehicle and maintenance tracking, fleet analytics.
// @BasePath        /
func main() {
	flag.Parse()
	if *helpFlag {
		config.PrintHelp()
		return
	}

	level := *logLevel
	if !logger.ValidateLogLevel(level) {
		level = logger.LevelDebug
	}

	ctx := context.Background()
	log := logger.InitLogger("fleetmaster", level)

	cfg, err := config.NewConfig(*configPath)
	if err != nil {
		log.Error(ctx, "failed to configure application", err)
		config.PrintHelp()
		return
	}

	// Creating application
	application, err := app.NewApplication(ctx, *cfg, log)
	if err != nil {
		log.Error(ctx, "failed to init application", err)
		os.Exit(1)
	}

	// Running the application
	if err = application.Run(ctx); err != nil {
		log.Error(ctx, "failed to run application", err)
		os.Exit(1)
	}
}
