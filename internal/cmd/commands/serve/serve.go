// Package serve implements the serve command, which runs the HTTP server.
package serve

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/documentiulia/docvault/internal/api"
	"github.com/documentiulia/docvault/internal/cmd/base"
	"github.com/documentiulia/docvault/internal/config"
	"github.com/documentiulia/docvault/internal/server"
	"github.com/documentiulia/docvault/pkg/database"
	"github.com/documentiulia/docvault/pkg/docstore"
	searchbleve "github.com/documentiulia/docvault/pkg/search/bleve"
)

type Command struct {
	*base.Command

	flagConfig string
	flagAddr   string
}

func (c *Command) Synopsis() string {
	return "Run the server"
}

func (c *Command) Help() string {
	return `Usage: docvault serve
       docvault serve -config=config.hcl

  Run the document store server.

  Without a config file the server uses an embedded SQLite database under
  ./.docvault/ and listens on http://127.0.0.1:8000.

  Options:

    -config=<path>  Path to an HCL configuration file.
    -addr=<addr>    Listen address, overriding the configuration.
`
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet("serve")
	f.StringVar(&c.flagConfig, "config", "", "path to configuration file")
	f.StringVar(&c.flagAddr, "addr", "", "listen address")
	return f
}

func (c *Command) Run(args []string) int {
	f := c.Flags()
	if err := f.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}

	log := c.Log.Named("serve")

	cfg := config.Default()
	if c.flagConfig != "" {
		var err error
		cfg, err = config.NewConfig(c.flagConfig)
		if err != nil {
			c.UI.Error(fmt.Sprintf("error loading configuration: %v", err))
			return 1
		}
	}
	if c.flagAddr != "" {
		cfg.ListenAddr = c.flagAddr
	}
	if cfg.LogLevel != "" {
		log.SetLevel(hclog.LevelFromString(cfg.LogLevel))
	}

	if cfg.Database.Driver == "sqlite" {
		if cfg.Database.Path == "" {
			cfg.Database.Path = ".docvault/docvault.db"
		}
		if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
			c.UI.Error(fmt.Sprintf("error creating data directory: %v", err))
			return 1
		}
	}

	db, err := database.Connect(database.Config{
		Driver:   cfg.Database.Driver,
		Path:     cfg.Database.Path,
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
	}, log)
	if err != nil {
		c.UI.Error(fmt.Sprintf("error connecting to database: %v", err))
		return 1
	}
	if err := database.Migrate(db); err != nil {
		c.UI.Error(fmt.Sprintf("error migrating database: %v", err))
		return 1
	}

	storeOpts := []docstore.Option{
		docstore.WithLogger(log.Named("docstore")),
	}
	srv := server.Server{
		Config: cfg,
		DB:     db,
		Logger: log,
	}

	if cfg.Search != nil && cfg.Search.Enabled {
		idx, err := searchbleve.NewAdapter(&searchbleve.Config{
			IndexPath: cfg.Search.IndexPath,
		})
		if err != nil {
			c.UI.Error(fmt.Sprintf("error opening search index: %v", err))
			return 1
		}
		defer idx.Close()
		srv.SearchIndex = idx
		storeOpts = append(storeOpts, docstore.WithSearchIndex(idx))
		log.Info("full-text search enabled", "index_path", cfg.Search.IndexPath)
	}

	srv.Store = docstore.New(db, storeOpts...)

	httpServer := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: api.NewMux(srv),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.ListenAddr)
		errCh <- httpServer.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			c.UI.Error(fmt.Sprintf("server error: %v", err))
			return 1
		}
	case sig := <-sigCh:
		log.Info("shutting down", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			c.UI.Error(fmt.Sprintf("error shutting down server: %v", err))
			return 1
		}
	}

	return 0
}
