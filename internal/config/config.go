// Package config reads the process configuration once at cold start.
package config

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	BackendHub     = "hub"
	BackendBedrock = "bedrock"

	DefaultVariant     = "assistant"
	DefaultAllowOrigin = "https://edumark.surge.sh"
	DefaultHubBaseURL  = "https://api-inference.huggingface.co/models/"
)

// Config is immutable after Load and shared by every invocation.
type Config struct {
	Variant string
	Backend string

	// Self-hosted text-generation endpoint. Empty means the HuggingFace hub.
	Endpoint      string
	EndpointToken string

	HubBaseURL string
	HubToken   string

	BedrockModelID string

	InferenceTimeout time.Duration
	AllowOrigin      string
	Debug            bool

	ResponseCacheTable string
	ResponseCacheTTL   time.Duration

	ChatLogTable  string
	ChatLogTTL    time.Duration
	ChatLogKeyB64 string

	AlertsTopicARN    string
	AlertsMinInterval time.Duration
}

// Load builds a Config from getenv. Secrets given as NAME_PARAM are resolved
// through SSM Parameter Store; params may be nil when no such variable is set.
func Load(ctx context.Context, getenv func(string) string, params ParameterClient) (Config, error) {
	env := func(k string) string { return strings.TrimSpace(getenv(k)) }
	cfg := Public(getenv)

	switch cfg.Backend {
	case BackendHub:
	case BackendBedrock:
		if cfg.BedrockModelID == "" {
			return Config{}, fmt.Errorf("missing env BEDROCK_MODEL_ID for backend %q", cfg.Backend)
		}
	default:
		return Config{}, fmt.Errorf("unknown INFERENCE_BACKEND %q", cfg.Backend)
	}

	var err error
	if cfg.EndpointToken, err = resolveSecret(ctx, getenv, params, "GEMMA_API_KEY"); err != nil {
		return Config{}, err
	}
	if cfg.HubToken, err = resolveSecret(ctx, getenv, params, "HUGGINGFACE_TOKEN"); err != nil {
		return Config{}, err
	}
	if cfg.HubToken == "" {
		cfg.HubToken = env("HUGGINGFACE_API_KEY")
	}

	return cfg, nil
}

// Public reads everything except secrets, with defaults applied and no
// validation. The health Lambda uses it directly.
func Public(getenv func(string) string) Config {
	env := func(k string) string { return strings.TrimSpace(getenv(k)) }

	cfg := Config{
		Variant:            strings.ToLower(env("CHAT_VARIANT")),
		Backend:            strings.ToLower(env("INFERENCE_BACKEND")),
		Endpoint:           env("GEMMA_ENDPOINT"),
		HubBaseURL:         env("HUGGINGFACE_BASE_URL"),
		BedrockModelID:     env("BEDROCK_MODEL_ID"),
		InferenceTimeout:   seconds(env("INFERENCE_TIMEOUT_SECONDS"), 30),
		AllowOrigin:        env("CORS_ALLOW_ORIGIN"),
		Debug:              env("DEBUG") == "true",
		ResponseCacheTable: env("RESPONSE_CACHE_TABLE"),
		ResponseCacheTTL:   seconds(env("RESPONSE_CACHE_TTL_SECONDS"), 600),
		ChatLogTable:       env("CHAT_LOG_TABLE"),
		ChatLogTTL:         time.Duration(positiveInt(env("CHAT_LOG_TTL_DAYS"), 30)) * 24 * time.Hour,
		ChatLogKeyB64:      env("CHAT_LOG_ENC_KEY_B64"),
		AlertsTopicARN:     env("ALERTS_TOPIC_ARN"),
		AlertsMinInterval:  seconds(env("ALERTS_MIN_INTERVAL_SECONDS"), 300),
	}
	if cfg.Variant == "" {
		cfg.Variant = DefaultVariant
	}
	if cfg.Backend == "" {
		cfg.Backend = BackendHub
	}
	if cfg.HubBaseURL == "" {
		cfg.HubBaseURL = DefaultHubBaseURL
	}
	if !strings.HasSuffix(cfg.HubBaseURL, "/") {
		cfg.HubBaseURL += "/"
	}
	if cfg.AllowOrigin == "" {
		cfg.AllowOrigin = DefaultAllowOrigin
	}
	return cfg
}

// Summary lists which optional features are switched on, for the cold-start log line.
func (c Config) Summary() map[string]bool {
	return map[string]bool{
		"self_hosted_endpoint": c.Endpoint != "",
		"endpoint_token":       c.EndpointToken != "",
		"hub_token":            c.HubToken != "",
		"response_cache":       c.ResponseCacheTable != "",
		"chat_log":             c.ChatLogTable != "",
		"chat_log_encrypted":   c.ChatLogKeyB64 != "",
		"alerts":               c.AlertsTopicARN != "",
		"debug":                c.Debug,
	}
}

func seconds(v string, def int) time.Duration {
	return time.Duration(positiveInt(v, def)) * time.Second
}

func positiveInt(v string, def int) int {
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
