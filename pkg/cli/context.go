package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/japaniel/connections/pkg/config"
	"github.com/japaniel/connections/pkg/db"
	"github.com/spf13/cobra"
)

// commandContext bundles what a data command needs.
type commandContext struct {
	Config *config.Config
	Logger *slog.Logger
	Store  *db.Store
	Out    *renderer
}

// newCommandContext opens the configured database. Callers must run the
// returned cleanup.
func newCommandContext(cmd *cobra.Command) (*commandContext, func(), error) {
	cfg := GetConfig(cmd.Context())
	logger := GetLogger(cmd.Context())

	store, err := openStore(cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("database opened", "path", cfg.Database)

	cleanup := func() {
		if err := store.Close(); err != nil {
			logger.Warn("close database", "error", err)
		}
	}
	return &commandContext{
		Config: cfg,
		Logger: logger,
		Store:  store,
		Out:    newRenderer(cmd.OutOrStdout(), cfg.Output),
	}, cleanup, nil
}

func openStore(path string) (*db.Store, error) {
	if path != db.MemoryPath {
		if dir := filepath.Dir(path); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
	}
	return db.Open(path)
}

// parseIDs accepts ids as separate arguments or comma separated.
func parseIDs(args []string) ([]int64, error) {
	var ids []int64
	for _, arg := range args {
		for _, part := range strings.Split(arg, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseInt(part, 10, 64)
			if err != nil || id < 1 {
				return nil, fmt.Errorf("invalid person id %q", part)
			}
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("no person ids given")
	}
	return ids, nil
}
