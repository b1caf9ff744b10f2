package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lewtec/realtor/internal/config"
	"github.com/lewtec/realtor/internal/database"
	"github.com/lewtec/realtor/internal/logging"
	"github.com/lewtec/realtor/internal/repository"
	"github.com/lewtec/realtor/internal/service"
	"github.com/lewtec/realtor/internal/thumbnail"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "realtor",
	Short: "Store real-estate listings together with their photographs",
	Long: strings.TrimSpace(`
Listings are created atomically with all of their pictures. A thumbnail is
derived for every picture at write time and served back by the HTTP API.
    `),
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "YAML config file (environment variables override it)")
}

// setup loads the configuration and configures logging for a command.
func setup(cmd *cobra.Command) (*config.Config, zerolog.Logger, error) {
	configFile, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("failed to load config: %w", err)
	}
	logger := logging.Setup(cfg.Log.Level, cfg.Log.Format, cmd.ErrOrStderr())
	return cfg, logger, nil
}

// openDatabase connects to the configured database, applying migrations
// when enabled.
func openDatabase(ctx context.Context, cfg *config.Config) (*sqlx.DB, error) {
	db, err := database.Open(ctx, cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if cfg.Database.AutoMigrate {
		if err := database.Migrate(db.DB, database.DialectOf(db)); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to prepare database: %w", err)
		}
	}
	return db, nil
}

// openStore opens the database and, for SQLite files, a separate pool for
// read transactions. The returned func closes both.
func openStore(ctx context.Context, cfg *config.Config) (*repository.Store, func(), error) {
	db, err := openDatabase(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	reader, err := database.OpenReader(ctx, cfg.Database.URL)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	closeAll := func() {
		if reader != nil {
			reader.Close()
		}
		db.Close()
	}
	return repository.NewStoreWithReader(db, reader), closeAll, nil
}

func newService(store *repository.Store, cfg *config.Config) *service.Service {
	return service.New(store, service.WithThumbnailBox(thumbnail.Box{
		MaxWidth:  cfg.Thumbnail.MaxWidth,
		MaxHeight: cfg.Thumbnail.MaxHeight,
	}))
}
