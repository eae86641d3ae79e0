package cli

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/sandeepkv93/studytime/internal/config"
	"github.com/sandeepkv93/studytime/internal/remote"
	"github.com/sandeepkv93/studytime/internal/scheduler"
	"github.com/sandeepkv93/studytime/internal/storage"
	"github.com/sandeepkv93/studytime/internal/store"
	"github.com/sandeepkv93/studytime/internal/update"
)

// NewRootCommand builds the studytime command tree. Running it without a
// subcommand opens the terminal UI.
func NewRootCommand(version string) *cobra.Command {
	var cfgPath string
	root := &cobra.Command{
		Use:   "studytime",
		Short: "studytime - study task planner for the terminal",
		Long: `studytime tracks study tasks with due dates and priorities.

Without a subcommand it opens the terminal UI. Tasks live in a local file or
SQLite database, or on a remote task service in remote mode.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd, cfgPath)
		},
	}
	root.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "config file (default ~/.studytime/config.yaml)")

	root.AddCommand(
		newServeCommand(&cfgPath),
		newListCommand(&cfgPath),
		newStatsCommand(&cfgPath),
		newExportCommand(&cfgPath),
		newConfigCommand(&cfgPath),
	)
	return root
}

// Execute runs the root command and prints any error to stderr.
func Execute(version string) error {
	if err := NewRootCommand(version).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

func runTUI(cmd *cobra.Command, cfgPath string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	logger, closeLog, err := openLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	s, closeStore, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	engine := scheduler.NewEngine(cfg.Scheduler.Buffer)
	engine.Start()
	defer engine.Stop()

	m := update.NewModel(update.Deps{Store: s, Scheduler: engine, Config: cfg, Logger: logger})
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	logger.Printf("cli=tui mode=%s backend=%s", cfg.Mode, cfg.Storage.Backend)
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}

// openLogger writes to log.file when set. Terminal output is never used so
// the UI stays intact.
func openLogger(cfg config.RuntimeConfig) (*log.Logger, func(), error) {
	if cfg.Log.File == "" {
		return log.New(io.Discard, "", 0), func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Log.File), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := tea.LogToFile(cfg.Log.File, "studytime")
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return log.New(f, "studytime ", log.LstdFlags), func() { _ = f.Close() }, nil
}

// openStore wires the task store to the configured backend. The returned
// func releases backend resources.
func openStore(cfg config.RuntimeConfig, logger *log.Logger) (*store.Store, func(), error) {
	if cfg.Mode == config.ModeRemote {
		client, err := remote.New(cfg.Remote.URL, remote.Options{
			Token:   cfg.Remote.Token,
			Timeout: cfg.RemoteTimeout(),
			Logger:  logger,
		})
		if err != nil {
			return nil, nil, err
		}
		return store.New(store.Options{Remote: client, Logger: logger}), func() {}, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Storage.Path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create storage dir: %w", err)
	}
	switch cfg.Storage.Backend {
	case config.BackendSQLite:
		kv, err := storage.OpenSQLiteKV(cfg.Storage.Path, logger)
		if err != nil {
			return nil, nil, err
		}
		return store.New(store.Options{Persister: kv, Logger: logger}), func() { _ = kv.Close() }, nil
	default:
		fs := storage.NewFileStore(cfg.Storage.Path, logger)
		return store.New(store.Options{Persister: fs, Logger: logger}), func() {}, nil
	}
}

// loadTasks opens the configured store and reads its tasks once.
func loadTasks(cmd *cobra.Command, cfgPath string) (*store.Store, config.RuntimeConfig, func(), error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, cfg, nil, err
	}
	s, closeStore, err := openStore(cfg, log.New(io.Discard, "", 0))
	if err != nil {
		return nil, cfg, nil, err
	}
	if err := s.Load(cmd.Context()); err != nil {
		closeStore()
		return nil, cfg, nil, fmt.Errorf("load tasks: %w", err)
	}
	return s, cfg, closeStore, nil
}
