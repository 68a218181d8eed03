package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/yourusername/courtside/internal/database"
	"github.com/yourusername/courtside/internal/datasource"
	"github.com/yourusername/courtside/internal/repository"
	"github.com/yourusername/courtside/internal/service"
)

var importFlags struct {
	file      string
	batchSize int
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Load the serve dataset into Postgres",
	Long:  `Reads the CSV serve dataset, validates every record and copies it into the serve_records table in batches.`,
	RunE:  runImport,
}

func init() {
	importCmd.Flags().StringVarP(&importFlags.file, "file", "f", "", "CSV dataset to import (default: stats.path from the config)")
	importCmd.Flags().IntVar(&importFlags.batchSize, "batch-size", 500, "Records per insert batch")
}

func runImport(cmd *cobra.Command, args []string) error {
	path := importFlags.file
	if path == "" {
		path = cfg.Stats.Path
	}
	if path == "" {
		return fmt.Errorf("no dataset given: pass --file or set stats.path")
	}
	if cfg.Database.Host == "" {
		return fmt.Errorf("database.host must be set to import")
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Minute)
	defer cancel()

	db, err := database.Initialize(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	repos, err := repository.NewRepositories(db)
	if err != nil {
		return fmt.Errorf("failed to initialize repositories: %w", err)
	}

	importer := service.NewImportService(datasource.NewCSVSource(path), repos.ServeRecords, appLog, importFlags.batchSize)
	m, err := importer.Import(ctx)
	fmt.Println(m.String())
	if err != nil {
		return err
	}

	total, err := repos.ServeRecords.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count serve records: %w", err)
	}
	fmt.Printf("serve_records now holds %d rows\n", total)
	return nil
}
