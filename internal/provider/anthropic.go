// Package provider builds the Anthropic client used by the runner.
package provider

import (
	"net/http"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/petasbytes/synapse/internal/config"
)

const DefaultModel = anthropic.ModelClaude3_7SonnetLatest

// NewAnthropicClient returns a client for cfg. An empty APIKey falls back to
// the SDK's environment lookup. httpClient may be nil.
func NewAnthropicClient(cfg config.LLMConfig, httpClient *http.Client) *anthropic.Client {
	var opts []option.RequestOption
	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}
	c := anthropic.NewClient(opts...)
	return &c
}

// Model returns the configured model, or DefaultModel when unset.
func Model(cfg config.LLMConfig) anthropic.Model {
	if cfg.Model == "" {
		return DefaultModel
	}
	return anthropic.Model(cfg.Model)
}
