package chat

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"edumark/internal/alerts"
	"edumark/internal/chatlog"
	"edumark/internal/inference"
	"edumark/internal/metrics"
)

type Outcome string

const (
	OutcomeModel       Outcome = "model"
	OutcomeCache       Outcome = "cache"
	OutcomeLoading     Outcome = "loading"
	OutcomeTimeout     Outcome = "timeout"
	OutcomeUnavailable Outcome = "unavailable"
	OutcomeUnusable    Outcome = "unusable"
)

type ResponseCache interface {
	Get(ctx context.Context, variant, message string) (string, bool, error)
	Put(ctx context.Context, variant, message, response string) error
}

type InteractionLog interface {
	Write(ctx context.Context, r chatlog.Record) error
}

type Alerter interface {
	Notify(ctx context.Context, ev alerts.Event) (bool, error)
}

// Deps are built once per container. Only Generator is required.
type Deps struct {
	Generator inference.Generator
	Params    inference.Parameters
	Cache     ResponseCache
	Log       InteractionLog
	Alerts    Alerter
	Metrics   *metrics.Metrics
	Logger    *zap.Logger
}

type Result struct {
	Text          string
	Model         string
	Status        string
	Outcome       Outcome
	FallbackGroup string
	At            time.Time
}

type Pipeline struct {
	variant Variant
	deps    Deps
	now     func() time.Time
}

func NewPipeline(v Variant, d Deps) *Pipeline {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	return &Pipeline{variant: v, deps: d, now: time.Now}
}

func (p *Pipeline) Variant() Variant { return p.variant }

// Run never fails: every inference problem becomes a notice or a canned answer.
func (p *Pipeline) Run(ctx context.Context, requestID string, req ChatRequest) Result {
	start := p.now()
	log := p.deps.Logger.With(
		zap.String("request_id", requestID),
		zap.String("variant", p.variant.Name),
	)
	log.Info("chat request",
		zap.Int("message_chars", len(req.Message)),
		zap.Int("history_turns", len(req.History)),
	)

	cacheable := p.deps.Cache != nil && len(req.History) == 0
	var res Result
	if cacheable {
		text, ok, err := p.deps.Cache.Get(ctx, p.variant.Name, req.Message)
		switch {
		case err != nil:
			p.deps.Metrics.SideStoreError("cache")
			log.Warn("response cache read failed", zap.Error(err))
		case ok:
			res = Result{Text: text, Model: p.variant.Model, Status: StatusSuccess, Outcome: OutcomeCache}
		}
	}

	if res.Outcome == "" {
		res = p.infer(ctx, log, requestID, req)
		if cacheable && res.Outcome == OutcomeModel {
			if err := p.deps.Cache.Put(ctx, p.variant.Name, req.Message, res.Text); err != nil {
				p.deps.Metrics.SideStoreError("cache")
				log.Warn("response cache write failed", zap.Error(err))
			}
		}
	}
	res.At = p.now()

	p.deps.Metrics.ObserveRequest(p.variant.Name, res.Status, string(res.Outcome))
	if res.FallbackGroup != "" {
		p.deps.Metrics.ObserveFallback(p.variant.Name, res.FallbackGroup)
	}
	log.Info("chat response",
		zap.String("status", res.Status),
		zap.String("outcome", string(res.Outcome)),
		zap.String("fallback_group", res.FallbackGroup),
		zap.Int("response_chars", len(res.Text)),
		zap.Duration("elapsed", res.At.Sub(start)),
	)

	if p.deps.Log != nil {
		err := p.deps.Log.Write(ctx, chatlog.Record{
			RequestID:     requestID,
			Variant:       p.variant.Name,
			Model:         res.Model,
			Status:        res.Status,
			Outcome:       string(res.Outcome),
			FallbackGroup: res.FallbackGroup,
			Message:       req.Message,
			Response:      res.Text,
			HistoryTurns:  len(req.History),
			Latency:       res.At.Sub(start),
			At:            res.At,
		})
		if err != nil {
			p.deps.Metrics.SideStoreError("chatlog")
			log.Warn("interaction log write failed", zap.Error(err))
		}
	}
	return res
}

func (p *Pipeline) infer(ctx context.Context, log *zap.Logger, requestID string, req ChatRequest) Result {
	v := p.variant
	prompt := v.Prompt.Compose(req.Message, req.History)

	began := p.now()
	raw, err := p.deps.Generator.Generate(ctx, prompt, p.deps.Params)
	elapsed := p.now().Sub(began)

	var res Result
	switch {
	case err == nil:
		if text, ok := Sanitize(raw, v.Prompt, v.MinLength); ok {
			res = Result{Text: text, Model: v.Model, Status: StatusSuccess, Outcome: OutcomeModel}
		} else {
			log.Info("generated text unusable", zap.Int("raw_chars", len(raw)))
			res = p.fallback(req.Message, OutcomeUnusable, nil)
		}
	case errors.Is(err, inference.ErrModelLoading):
		log.Warn("model loading", zap.Error(err))
		res = p.fallback(req.Message, OutcomeLoading, v.loadingText)
		res.Status = StatusSuccess
		res.Model = v.Model
	case errors.Is(err, inference.ErrTimeout):
		log.Error("inference timed out", zap.Error(err), zap.Duration("elapsed", elapsed))
		res = p.fallback(req.Message, OutcomeTimeout, v.timeoutText)
	default:
		log.Error("inference unavailable", zap.Error(err))
		res = p.fallback(req.Message, OutcomeUnavailable, nil)
	}

	p.deps.Metrics.ObserveInference(v.Name, string(res.Outcome), elapsed)
	if res.Outcome == OutcomeTimeout || res.Outcome == OutcomeUnavailable {
		p.alert(ctx, log, alerts.Event{
			Variant:   v.Name,
			Outcome:   string(res.Outcome),
			Backend:   p.deps.Generator.Name(),
			RequestID: requestID,
			Err:       err,
			At:        p.now(),
		})
	}
	return res
}

func (p *Pipeline) fallback(message string, outcome Outcome, wrap func(string) string) Result {
	group, text := p.variant.Fallback.Match(message)
	if wrap != nil {
		text = wrap(text)
	}
	return Result{
		Text:          text,
		Model:         FallbackModel,
		Status:        StatusFallback,
		Outcome:       outcome,
		FallbackGroup: group,
	}
}

func (p *Pipeline) alert(ctx context.Context, log *zap.Logger, ev alerts.Event) {
	if p.deps.Alerts == nil {
		return
	}
	sent, err := p.deps.Alerts.Notify(ctx, ev)
	if err != nil {
		p.deps.Metrics.SideStoreError("alerts")
		log.Warn("alert publish failed", zap.Error(err))
		return
	}
	if sent {
		log.Info("alert published", zap.String("outcome", ev.Outcome))
	}
}
