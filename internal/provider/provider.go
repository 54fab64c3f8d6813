package provider

import (
	"context"
	"net/http"
	"time"
)

// LLMProvider defines the interface for AI model integration
type LLMProvider interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Name() string
}

// defaultHTTPClient bounds every provider call; long prompts can take a
// while to complete, so the timeout is generous.
var defaultHTTPClient = &http.Client{Timeout: 2 * time.Minute}

// BuildPrompt assembles the final prompt from the user question and the
// retrieved document excerpts.
func BuildPrompt(question, excerpts string) string {
	if excerpts == "" {
		excerpts = "No document excerpts were retrieved."
	}

	return "You are a helpful assistant that answers questions about a set of documents.\n" +
		"Answer using only the excerpts below. If the answer is not in the excerpts, say so explicitly.\n" +
		"Be concise and accurate, and cite which document(s) you are referencing.\n\n" +
		"EXCERPTS:\n" + excerpts + "\n\n" +
		"QUESTION:\n" + question + "\n\n" +
		"ANSWER:\n"
}
