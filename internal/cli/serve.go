package cli

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/sandeepkv93/studytime/internal/config"
	"github.com/sandeepkv93/studytime/internal/server"
	"github.com/sandeepkv93/studytime/internal/storage"
)

func newServeCommand(cfgPath *string) *cobra.Command {
	var addr, db string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the reference task service used by remote mode",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(*cfgPath)
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Server.Addr
			}
			if db == "" {
				db = cfg.Server.DB
			}
			if err := os.MkdirAll(filepath.Dir(db), 0o755); err != nil {
				return fmt.Errorf("create db dir: %w", err)
			}
			repo, err := storage.OpenSQLite(db)
			if err != nil {
				return err
			}
			defer repo.Close()

			gin.SetMode(gin.ReleaseMode)
			logger := log.New(cmd.ErrOrStderr(), "studytime-server ", log.LstdFlags)
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger.Printf("server=start addr=%s db=%s", addr, db)
			return server.New(repo, server.Options{Logger: logger}).Run(ctx, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default server.addr)")
	cmd.Flags().StringVar(&db, "db", "", "SQLite database path (default server.db)")
	return cmd
}
