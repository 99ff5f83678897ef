// Command action runs a single signup activation: it reads the action parameters
// as a JSON object from stdin and writes the {statusCode, headers, body} response to stdout.
package main

import (
	"context"
	"encoding/json"
	"log"
	"os"

	"crmsync/config"
	"crmsync/internal/app"
	"crmsync/internal/delivery/action"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	logger := config.NewStderrLogger(cfg.Environment, cfg.LogLevel)

	var params map[string]any
	if err := json.NewDecoder(os.Stdin).Decode(&params); err != nil {
		logger.Error("failed to decode action parameters", "error", err)
		os.Exit(1)
	}

	svc, err := app.NewSignupService(cfg, nil, logger)
	if err != nil {
		logger.Error("failed to build signup service", "error", err)
		os.Exit(1)
	}

	resp := action.NewHandler(svc, logger).Invoke(context.Background(), params)
	if err := json.NewEncoder(os.Stdout).Encode(resp); err != nil {
		logger.Error("failed to write action response", "error", err)
		os.Exit(1)
	}
}
