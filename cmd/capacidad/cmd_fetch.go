package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gridatlas/capacidad/internal/fetch"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download and extract the published dataset archive",
	RunE: func(cmd *cobra.Command, args []string) error {
		client := fetch.NewClient(cfg.DownloadTimeout, logger)
		path, err := client.Download(cmd.Context(), cfg.DownloadURL, cfg.RawDataDir)
		if err != nil {
			return err
		}
		fmt.Printf("Dataset extracted to %s\n", path)
		return nil
	},
}
