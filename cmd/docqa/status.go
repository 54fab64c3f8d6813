package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var statusJSON bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show corpus and index statistics",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "output stats as JSON")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	entry := newLogger()
	eng, err := buildEngine(cmd.Context(), entry)
	if err != nil {
		return err
	}

	stats := eng.Status()
	if statusJSON {
		data, err := json.MarshalIndent(stats, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal stats: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Printf("Documents:   %d\n", stats.Documents)
	cmd.Printf("Chunks:      %d\n", stats.Chunks)
	cmd.Printf("Vocabulary:  %d term(s)\n", stats.VocabularySize)
	cmd.Printf("Last build:  %s\n", stats.LastBuild.Format(time.RFC3339))
	return nil
}
