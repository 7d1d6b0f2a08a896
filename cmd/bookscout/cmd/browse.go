package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"bookscout/internal/agent"
	"bookscout/internal/browse"
	"bookscout/internal/catalog"
	"bookscout/internal/config"
	"bookscout/internal/debounce"
	"bookscout/internal/logging"
	"bookscout/internal/notify"
	"bookscout/internal/session"
	"bookscout/internal/tui"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Start the interactive book browser",
	Long: `Start the interactive book browser.

Keys:
  /        focus the search box
  j/k      move the selection
  f/space  toggle favorite (fetches recommendations)
  y        copy the open recommendation
  esc      blur search, clear the query, or close the panel
  s        toggle the process stats line
  q        quit

Example:
  bookscout browse
  bookscout browse --config ./bookscout.yaml`,
	RunE: runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(_ *cobra.Command, _ []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// While the TUI owns the terminal, logs go to a file or nowhere.
	logOut := io.Discard
	if cfg.Log.File != "" {
		f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	logger := logging.New(logging.Config{
		Level:  cfg.Log.Level,
		Format: "json",
		Output: logOut,
	})

	source, watch, err := buildCatalogSource(cfg)
	if err != nil {
		return err
	}
	if watch != nil {
		defer watch.Close()
	}

	center := notify.NewCenter(cfg.UI.ToastTTL)

	ctrl := browse.NewController(browse.Options{
		Catalog:   source,
		Sessions:  session.NewClient(cfg.Session.BaseURL, cfg.Session.Timeout),
		Agent:     agent.NewClient(cfg.Agent.BaseURL, cfg.Agent.Timeout),
		Notifier:  center,
		Logger:    logger,
		Debouncer: debounce.New(cfg.UI.Debounce),
	})
	defer ctrl.Close()

	model := tui.New(tui.Options{
		Controller: ctrl,
		Center:     center,
		Watch:      watch,
		Logger:     logger,
		ToastTTL:   cfg.UI.ToastTTL,
		ShowStats:  cfg.UI.Stats,
	})

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running browser: %w", err)
	}
	return nil
}

// buildCatalogSource builds the configured catalog backend. The file
// backend also returns its watch handle for live reloads.
func buildCatalogSource(cfg *config.Config) (catalog.Source, catalog.Watchable, error) {
	switch cfg.Catalog.Source {
	case "file":
		src := catalog.NewFileSource(cfg.Catalog.File)
		return src, src, nil
	case "http":
		return catalog.NewClient(catalog.ClientOptions{
			BaseURL:       cfg.Catalog.BaseURL,
			Timeout:       cfg.Catalog.Timeout,
			RatePerSecond: cfg.Catalog.RatePerSecond,
			MaxRetries:    cfg.Catalog.MaxRetries,
		}), nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown catalog source %q", cfg.Catalog.Source)
	}
}
