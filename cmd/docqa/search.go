package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/docqa-engine/backend/internal/search"
)

var searchJSON bool

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Retrieve the most relevant chunks without calling the LLM",
	Args:  cobra.ExactArgs(1),
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	entry := newLogger()
	eng, err := buildEngine(cmd.Context(), entry)
	if err != nil {
		return err
	}

	results, err := eng.Retrieve(args[0])
	if err != nil && !errors.Is(err, search.ErrNoIndex) {
		return err
	}

	if searchJSON {
		data, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal results: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	for i, r := range results {
		snippet := r.ChunkText
		if len(snippet) > 200 {
			snippet = snippet[:200] + "..."
		}
		cmd.Printf("  [%d] %s (%.2f)\n      %s\n\n", i+1, r.Document, r.Score, snippet)
	}
	return nil
}
