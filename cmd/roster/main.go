/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/ssargent/roster/cmd/roster/cmd"
	"github.com/ssargent/roster/pkg/di"
	"github.com/ssargent/roster/pkg/logging"
)

func main() {
	// Load .env file if it exists; real environment variables win
	envErr := godotenv.Load()

	logger := logging.Setup(os.Getenv(cmd.EnvLogLevel), os.Getenv(cmd.EnvLogFormat))
	if envErr != nil {
		slog.Debug("no .env file found, using environment variables")
	}

	// Initialize dependency injection container
	container := di.NewContainer(logger)

	os.Exit(cmd.Execute(container))
}
