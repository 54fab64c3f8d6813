package provider_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docqa-engine/backend/internal/provider"
)

func TestBuildPrompt(t *testing.T) {
	prompt := provider.BuildPrompt("What is a fox?", "[From: a.txt]\nThe quick brown fox.")

	assert.Contains(t, prompt, "What is a fox?")
	assert.Contains(t, prompt, "The quick brown fox.")
	assert.Contains(t, prompt, "EXCERPTS:")
	assert.Contains(t, prompt, "QUESTION:")
}

func TestBuildPrompt_EmptyExcerpts(t *testing.T) {
	prompt := provider.BuildPrompt("Anything?", "")
	assert.Contains(t, prompt, "No document excerpts were retrieved.")
}

func TestProviders_BoundedHTTPClient(t *testing.T) {
	// Every provider ships with a client that cannot hang forever.
	assert.NotZero(t, provider.NewAnthropicProvider("", "m", "k").Client.Timeout)
	assert.NotZero(t, provider.NewOpenAIProvider("", "m", "k").Client.Timeout)
	assert.NotZero(t, provider.NewOllamaProvider("", "m").Client.Timeout)
}

func TestAnthropicProvider_Generate(t *testing.T) {
	var gotVersion, gotKey string
	var gotBody map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotVersion = r.Header.Get("anthropic-version")
		gotKey = r.Header.Get("x-api-key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"content": []map[string]string{{"type": "text", "text": "the answer"}},
		})
	}))
	defer server.Close()

	p := provider.NewAnthropicProvider(server.URL, "claude-3-5-haiku-20241022", "secret")
	answer, err := p.Generate(context.Background(), "the prompt")
	require.NoError(t, err)

	assert.Equal(t, "the answer", answer)
	assert.Equal(t, "2023-06-01", gotVersion)
	assert.Equal(t, "secret", gotKey)
	assert.Equal(t, "claude-3-5-haiku-20241022", gotBody["model"])
	assert.Equal(t, "anthropic", p.Name())
}

func TestAnthropicProvider_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	p := provider.NewAnthropicProvider(server.URL, "model", "key")
	_, err := p.Generate(context.Background(), "prompt")
	assert.Error(t, err)
}

func TestOllamaProvider_Generate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, false, body["stream"])

		json.NewEncoder(w).Encode(map[string]string{"response": "local answer"})
	}))
	defer server.Close()

	p := provider.NewOllamaProvider(server.URL, "qwen3:1.7b")
	answer, err := p.Generate(context.Background(), "the prompt")
	require.NoError(t, err)
	assert.Equal(t, "local answer", answer)
	assert.Equal(t, "ollama", p.Name())
}

func TestOpenAIProvider_Generate(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": "gpt answer"}},
			},
		})
	}))
	defer server.Close()

	p := provider.NewOpenAIProvider(server.URL, "gpt-4o-mini", "sk-test")
	answer, err := p.Generate(context.Background(), "the prompt")
	require.NoError(t, err)
	assert.Equal(t, "gpt answer", answer)
	assert.Equal(t, "Bearer sk-test", gotAuth)
	assert.Equal(t, "openai", p.Name())
}

func TestOpenAIProvider_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"choices": []interface{}{}})
	}))
	defer server.Close()

	p := provider.NewOpenAIProvider(server.URL, "gpt-4o-mini", "sk-test")
	_, err := p.Generate(context.Background(), "prompt")
	assert.Error(t, err)
}
