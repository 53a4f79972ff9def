// Command kargo is the terminal client for the branch directory.
//
// Usage:
//
//	kargo [initial search]
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/foxxcyber/kargolojik/internal/config"
	"github.com/foxxcyber/kargolojik/internal/directory"
	"github.com/foxxcyber/kargolojik/internal/logger"
	"github.com/foxxcyber/kargolojik/internal/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "kargo:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadClient()
	if err != nil {
		return err
	}

	// The screen owns stdout
	log, err := logger.NewFileOnly(cfg.Logging)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := directory.NewClient(cfg.APIURL,
		directory.WithTimeout(cfg.Timeout),
		directory.WithLogger(log),
	)

	query := strings.TrimSpace(strings.Join(os.Args[1:], " "))
	model := tui.New(ctx, client, tui.BrowserOpener{}, log, query)

	log.Info("starting", zap.String("api", cfg.APIURL))
	if _, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}
