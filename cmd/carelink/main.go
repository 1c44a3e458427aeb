package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/carelinkzm/carelink/internal/api"
	"github.com/carelinkzm/carelink/internal/app"
	"github.com/carelinkzm/carelink/internal/credential"
	"github.com/carelinkzm/carelink/internal/model"
	"github.com/carelinkzm/carelink/internal/notify"
	"github.com/carelinkzm/carelink/internal/session"
	"github.com/carelinkzm/carelink/internal/store"
	appsync "github.com/carelinkzm/carelink/internal/sync"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "carelink: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfgPath := model.DefaultConfigPath()
	cfg, err := model.LoadConfig(cfgPath)
	if err != nil {
		return err
	}

	// Keep log output away from the terminal the TUI draws on.
	logPath := filepath.Join(filepath.Dir(cfgPath), "carelink.log")
	if f, logErr := os.OpenFile(
		logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600,
	); logErr == nil {
		defer f.Close()
		log.SetOutput(f)
	}

	// Materialize the defaults on first run so there is a file to edit.
	if _, statErr := os.Stat(cfgPath); os.IsNotExist(statErr) {
		if saveErr := model.SaveConfig(cfgPath, cfg); saveErr != nil {
			log.Printf("writing default config: %v", saveErr)
		}
	}

	dbPath, err := cacheDBPath()
	if err != nil {
		return err
	}
	st, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		return err
	}
	defer st.Close()

	client := api.NewClient(
		cfg.API.BaseURL,
		time.Duration(cfg.API.TimeoutSec)*time.Second,
	)

	sess := session.New(client, credential.Vault{}, client)

	center := notify.NewCenter(
		time.Duration(cfg.Display.AlertDismissSec) * time.Second,
	)

	poller := appsync.New(
		client, st, center, sess,
		time.Duration(cfg.Sync.PollIntervalSec)*time.Second,
	)

	root := app.New(client, st, sess, center, poller)

	p := tea.NewProgram(root, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

// cacheDBPath returns the sqlite cache location under the user's config
// directory, creating the directory if needed.
func cacheDBPath() (string, error) {
	dir := filepath.Dir(model.DefaultConfigPath())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating data directory %s: %w", dir, err)
	}
	return filepath.Join(dir, "cache.db"), nil
}
