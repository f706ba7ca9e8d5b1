package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rpattn/bookmarks/internal/domain"
	"github.com/rpattn/bookmarks/internal/ingestion"
	"github.com/rpattn/bookmarks/internal/query"
)

var queryFile string

var queryCmd = &cobra.Command{
	Use:   "query [raw query]",
	Short: "Run a query string against a local dataset file",
	Example: `  bookmarks query --file bookmarks.csv "sort=Title,desc&Category=cloud"
  bookmarks query --file bookmarks.json "field=Category"`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}

		payload, err := os.ReadFile(queryFile)
		if err != nil {
			return fmt.Errorf("failed to read dataset: %w", err)
		}
		rows, err := ingestion.ParseFile(queryFile, payload)
		if err != nil {
			return err
		}
		records := make([]domain.Record, len(rows))
		for i, row := range rows {
			records[i] = domain.RecordFromMap(row)
		}

		raw := ""
		if len(args) == 1 {
			raw = args[0]
		}
		params, err := domain.ParseQueryParams(raw)
		if err != nil {
			return err
		}

		engine := query.NewEngine(query.WithCategoryField(cfg.Query.CategoryField))
		result, err := engine.Run(records, params)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

func init() {
	queryCmd.Flags().StringVar(&queryFile, "file", "", "dataset file (.csv, .xlsx, .json, .yaml)")
	_ = queryCmd.MarkFlagRequired("file")
}
