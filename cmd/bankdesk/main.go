package main

import (
	"context"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/jask/bankdesk/internal/api"
	"github.com/jask/bankdesk/internal/config"
	"github.com/jask/bankdesk/internal/logging"
	"github.com/jask/bankdesk/internal/pipeline"
	"github.com/jask/bankdesk/internal/tui"
)

func main() {
	ctx := context.Background()

	// A missing .env is normal; values then come from the environment or config file.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if len(os.Args) > 1 && os.Args[1] == "init" {
		if err := config.Save(cfg); err != nil {
			log.Fatalf("save config: %v", err)
		}
		fmt.Println("config written")
		return
	}

	logger, logFile, err := logging.OpenFile(cfg.Log.File, cfg.Log.Level)
	if err != nil {
		log.Fatalf("log: %v", err)
	}
	defer logFile.Close()

	client, err := api.New(cfg.Server.BaseURL,
		api.WithTimeout(cfg.Server.Timeout),
		api.WithLogger(logging.Component(logger, "api")),
	)
	if err != nil {
		log.Fatalf("api client: %v", err)
	}
	pipe := pipeline.New(client, cfg.UI.CurrencySymbol, logging.Component(logger, "pipeline"))

	logging.Component(logger, "main").WithField("base_url", cfg.Server.BaseURL).Info("starting")

	p := tea.NewProgram(tui.New(ctx, cfg, pipe, logging.Component(logger, "tui")), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("error: %v\n", err)
	}
}
