package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ollama/ollama/api"
)

// CheckOllama verifies the ollama server is reachable and has pulled modelName.
// It reports whether the model is present; a reachability problem is returned as error.
func CheckOllama(ctx context.Context, baseURL, modelName string, httpClient *http.Client) (bool, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return false, fmt.Errorf("invalid ollama base URL %q: %w", baseURL, err)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	client := api.NewClient(base, httpClient)
	if err := client.Heartbeat(ctx); err != nil {
		return false, fmt.Errorf("ollama is not reachable at %s: %w", baseURL, err)
	}

	list, err := client.List(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to list ollama models: %w", err)
	}

	for _, m := range list.Models {
		if modelMatches(m.Name, modelName) || modelMatches(m.Model, modelName) {
			return true, nil
		}
	}
	return false, nil
}

// modelMatches treats "llama3.1" and "llama3.1:latest" as the same model
func modelMatches(have, want string) bool {
	if have == want {
		return true
	}
	if !strings.Contains(want, ":") {
		return have == want+":latest"
	}
	return false
}
