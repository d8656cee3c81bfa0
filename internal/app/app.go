// Package app wires configuration and AWS clients into the chat handler. It is
// shared by the Lambda entry point and the local CLI.
package app

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	bedrockruntime "github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"edumark/internal/alerts"
	"edumark/internal/cache"
	"edumark/internal/chat"
	"edumark/internal/chatlog"
	"edumark/internal/config"
	"edumark/internal/inference"
	"edumark/internal/logger"
	"edumark/internal/metrics"
	"edumark/internal/security"
)

type App struct {
	Config   config.Config
	Variant  chat.Variant
	Handler  *chat.Handler
	// Registry is only scraped by the local dev server's /metrics route; the
	// Lambda runtime keeps the counters in memory and never exports them.
	Registry *prometheus.Registry
	Logger   *zap.Logger
}

// Build runs once per container. console selects the human-readable log format.
func Build(ctx context.Context, getenv func(string) string, console bool) (*App, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	cfg, err := config.Load(ctx, getenv, ssm.NewFromConfig(awsCfg))
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return Wire(cfg, awsCfg, logger.New(cfg.Debug, console))
}

// Wire builds the handler from an already loaded Config.
func Wire(cfg config.Config, awsCfg aws.Config, log *zap.Logger) (*App, error) {
	variant, err := chat.LookupVariant(cfg.Variant)
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())

	gen, params := SelectGenerator(cfg, variant, awsCfg)
	deps := chat.Deps{
		Generator: gen,
		Params:    params,
		Metrics:   metrics.New(reg),
		Logger:    log,
	}

	var ddb *dynamodb.Client
	if cfg.ResponseCacheTable != "" || cfg.ChatLogTable != "" {
		ddb = dynamodb.NewFromConfig(awsCfg)
	}
	if cfg.ResponseCacheTable != "" {
		deps.Cache = cache.New(ddb, cfg.ResponseCacheTable, cfg.ResponseCacheTTL)
	}
	if cfg.ChatLogTable != "" {
		var sealer *security.Sealer
		if cfg.ChatLogKeyB64 != "" {
			if sealer, err = security.NewSealerFromBase64(cfg.ChatLogKeyB64); err != nil {
				return nil, fmt.Errorf("CHAT_LOG_ENC_KEY_B64: %w", err)
			}
		}
		deps.Log = chatlog.New(ddb, cfg.ChatLogTable, cfg.ChatLogTTL, sealer)
	}
	if cfg.AlertsTopicARN != "" {
		deps.Alerts = alerts.NewNotifier(sns.NewFromConfig(awsCfg), cfg.AlertsTopicARN, cfg.AlertsMinInterval)
	}

	log.Info("edumark chat ready",
		zap.String("variant", variant.Name),
		zap.String("backend", cfg.Backend),
		zap.String("generator", gen.Name()),
		zap.Any("features", cfg.Summary()),
	)

	return &App{
		Config:   cfg,
		Variant:  variant,
		Handler:  chat.NewHandler(chat.NewPipeline(variant, deps), cfg.AllowOrigin, cfg.Debug, log),
		Registry: reg,
		Logger:   log,
	}, nil
}

// SelectGenerator picks the backend and the matching parameter set: a
// self-hosted endpoint gets the variant's endpoint parameters, everything
// else its hub parameters.
func SelectGenerator(cfg config.Config, v chat.Variant, awsCfg aws.Config) (inference.Generator, inference.Parameters) {
	switch {
	case cfg.Backend == config.BackendBedrock:
		return inference.NewBedrockGenerator(bedrockruntime.NewFromConfig(awsCfg), cfg.BedrockModelID, cfg.InferenceTimeout), v.HubParams
	case cfg.Endpoint != "":
		return inference.NewHubClient(cfg.Endpoint, cfg.EndpointToken, cfg.InferenceTimeout), v.EndpointParams
	default:
		return inference.NewHubClient(cfg.HubBaseURL+v.HubModel, cfg.HubToken, cfg.InferenceTimeout), v.HubParams
	}
}
