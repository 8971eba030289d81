package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gridatlas/capacidad/internal/export"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the table to SQLite, JSON, Parquet, or Kafka",
	Long: `Export the loaded capacity table to downstream consumers.

Formats: sqlite, json, parquet, kafka. File formats write into the processed
data directory unless --output overrides the path; kafka publishes one message
per node to the configured snapshot topic.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := loadTable()
		if err != nil {
			return err
		}
		format, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")

		if format != "kafka" {
			if output == "" {
				output = filepath.Join(cfg.ProcessedDir, "capacidad."+extensionFor(format))
			}
			if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
				return fmt.Errorf("create output directory: %w", err)
			}
		}

		switch format {
		case "sqlite":
			err = export.WriteSQLite(output, t)
		case "json":
			err = export.WriteJSON(output, t)
		case "parquet":
			err = export.WriteParquet(output, t)
		case "kafka":
			if !cfg.KafkaEnabled {
				return fmt.Errorf("kafka export requires KAFKA_ENABLED=true")
			}
			pub := export.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
			defer pub.Close()
			return pub.PublishSnapshot(cmd.Context(), t)
		default:
			return fmt.Errorf("unknown export format %q", format)
		}
		if err != nil {
			return err
		}
		fmt.Printf("Exported %d nodes to %s\n", t.Len(), output)
		return nil
	},
}

func extensionFor(format string) string {
	if format == "sqlite" {
		return "db"
	}
	return format
}

func init() {
	exportCmd.Flags().String("format", "sqlite", "export format: sqlite, json, parquet, kafka")
	exportCmd.Flags().String("output", "", "output file path (file formats only)")
}
