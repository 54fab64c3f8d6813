package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/docqa-engine/backend/internal/search"
)

// answerer is the slice of the engine the ask command needs.
type answerer interface {
	Answer(ctx context.Context, question string) (string, []search.Result, error)
}

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer a question about the corpus",
	Long: `Retrieves the most relevant document chunks for the question and asks
the configured LLM to answer from them. With no argument, starts an
interactive loop; type 'exit' or 'quit' to leave.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	entry := newLogger()
	eng, err := buildEngine(cmd.Context(), entry)
	if err != nil {
		return err
	}

	stats := eng.Status()
	fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d document(s), %d chunk(s).\n\n", stats.Documents, stats.Chunks)

	if len(args) == 1 {
		return askOnce(cmd, eng, args[0])
	}

	// Interactive loop
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Fprint(cmd.OutOrStdout(), "Ask a question about the documents: ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}
		if question == "exit" || question == "quit" {
			fmt.Fprintln(cmd.OutOrStdout(), "Goodbye!")
			return nil
		}
		if err := askOnce(cmd, eng, question); err != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "Error: %v\n\n", err)
		}
	}
}

func askOnce(cmd *cobra.Command, eng answerer, question string) error {
	answer, sources, err := eng.Answer(cmd.Context(), question)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Answer:\n%s\n", answer)
	if len(sources) > 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "\nSources:")
		for _, src := range sources {
			fmt.Fprintf(cmd.OutOrStdout(), "  - %s (%.2f)\n", src.Document, src.Score)
		}
	}
	fmt.Fprintln(cmd.OutOrStdout())
	return nil
}
