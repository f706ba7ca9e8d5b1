package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rpattn/bookmarks/internal/ingestion"
)

var (
	importCollection string
	importFile       string
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Append a dataset file to a collection",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		file, err := os.Open(importFile)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", importFile, err)
		}
		defer file.Close()

		summary, err := a.ingestion.Import(cmd.Context(), ingestion.Request{
			Collection: importCollection,
			FileName:   importFile,
			Data:       file,
		})
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	},
}

func init() {
	importCmd.Flags().StringVar(&importCollection, "collection", "", "target collection")
	importCmd.Flags().StringVar(&importFile, "file", "", "dataset file (.csv, .xlsx, .json, .yaml)")
	_ = importCmd.MarkFlagRequired("collection")
	_ = importCmd.MarkFlagRequired("file")
}
