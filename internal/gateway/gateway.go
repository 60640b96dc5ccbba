// Package gateway wraps the Gemini completion API behind a single call that
// probes several invocation strategies and, when a model is missing, swaps in
// a discovered one. Every call is bounded by a fixed number of remote calls.
package gateway

import (
	"context"
	"errors"
	"strings"
	"time"

	"supportdesk/internal/logging"
	"supportdesk/internal/metrics"

	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"
)

// DefaultMaxCalls bounds remote calls, model listing included, per Generate.
const DefaultMaxCalls = 4

// DefaultAttemptTimeout bounds a single remote call.
const DefaultAttemptTimeout = 30 * time.Second

const listModelsCall = "list_models"

// Gateway produces completion text or a *Failure.
// It holds no per-call state and is safe for concurrent use.
type Gateway struct {
	strategies     []Strategy
	lister         ModelLister
	model          string
	maxCalls       int
	attemptTimeout time.Duration
	backoff        time.Duration
	keywords       []string
	configured     bool
	logger         *zap.Logger
	recorder       metrics.Recorder
}

// probe is the mutable state of one Generate call.
type probe struct {
	index      int
	model      string
	calls      int
	discovered bool
	listNext   bool
	last       *Failure
}

// Configured reports whether the gateway can reach a provider at all.
func (g *Gateway) Configured() bool {
	return g.configured && len(g.strategies) > 0
}

// Model returns the configured model.
func (g *Gateway) Model() string { return g.model }

// Strategies returns the strategy names in probing order.
func (g *Gateway) Strategies() []string {
	names := make([]string, len(g.strategies))
	for i, s := range g.strategies {
		names[i] = s.Name()
	}
	return names
}

// Complete sends a bare prompt.
func (g *Gateway) Complete(ctx context.Context, prompt string) (string, error) {
	return g.Generate(ctx, Request{Prompt: prompt})
}

// Generate runs req through the strategies in order. It returns trimmed,
// non-empty text, or a *Failure describing the last terminal problem.
func (g *Gateway) Generate(ctx context.Context, req Request) (string, error) {
	if !g.Configured() {
		f := newFailure(KindUnconfigured, "no API key or no usable invocation strategy")
		g.recorder.GatewayFailure(string(f.Kind))
		return "", f
	}

	st := &probe{model: g.model}
	b := retry.WithMaxRetries(uint64(g.maxCalls-1), retry.BackoffFunc(func() (time.Duration, bool) {
		return g.backoff, false
	}))

	text, err := retry.DoValue(ctx, b, func(ctx context.Context) (string, error) {
		return g.step(ctx, st, req)
	})
	if err == nil {
		return text, nil
	}

	f := Classify(err)
	if st.last != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		f = st.last
	}
	f.Attempts = st.calls
	g.recorder.GatewayFailure(string(f.Kind))
	g.logger.Warn("completion failed",
		zap.String("kind", string(f.Kind)),
		zap.String("strategy", f.Strategy),
		zap.String("model", f.Model),
		zap.Int("calls", st.calls),
		zap.String("detail", f.Detail))
	return "", f
}

// step performs exactly one remote call and decides whether to continue.
func (g *Gateway) step(ctx context.Context, st *probe, req Request) (string, error) {
	st.calls++

	if st.listNext {
		st.listNext = false
		return "", g.discover(ctx, st)
	}

	strategy := g.strategies[st.index]
	text, err := g.invoke(ctx, strategy, st.model, req)
	if err == nil {
		g.recorder.GatewayCall(strategy.Name(), "ok")
		logging.GatewayDebug("strategy %s succeeded with model %s after %d calls", strategy.Name(), st.model, st.calls)
		return text, nil
	}

	classified := *Classify(err)
	f := &classified
	f.Strategy = strategy.Name()
	f.Model = st.model
	st.last = f
	g.recorder.GatewayCall(strategy.Name(), string(f.Kind))
	logging.GatewayDebug("strategy %s model %s: %s", strategy.Name(), st.model, f.Kind)

	if !f.Kind.probes() {
		return "", f
	}

	if f.Kind == KindModelUnavailable && !st.discovered && g.lister != nil {
		st.discovered = true
		st.listNext = true
		return "", retry.RetryableError(f)
	}

	st.index++
	if st.index >= len(g.strategies) {
		return "", f
	}
	return "", retry.RetryableError(f)
}

// invoke runs one strategy under the per-attempt timeout.
func (g *Gateway) invoke(ctx context.Context, s Strategy, model string, req Request) (string, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, g.attemptTimeout)
	defer cancel()

	start := time.Now()
	raw, err := s.Invoke(attemptCtx, model, req)
	logging.APIDebug("%s model=%s took %v", s.Name(), model, time.Since(start))
	if err != nil {
		if errors.Is(attemptCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			return "", &Failure{Kind: KindTimeout, Detail: "attempt exceeded " + g.attemptTimeout.String(), Err: err}
		}
		return "", err
	}

	text := strings.TrimSpace(raw)
	if text == "" {
		return "", newFailure(KindEmptyResponse, "no text in response")
	}
	return text, nil
}

// discover lists models and swaps st.model for a compatible one. It keeps
// the current strategy so the next step retries it with the new model.
func (g *Gateway) discover(ctx context.Context, st *probe) error {
	strategy := g.strategies[st.index]

	listCtx, cancel := context.WithTimeout(ctx, g.attemptTimeout)
	defer cancel()
	models, err := g.lister.ListModels(listCtx)
	if err != nil {
		g.recorder.GatewayCall(listModelsCall, string(Classify(err).Kind))
		logging.GatewayWarn("model listing failed: %v", err)
		// The listing problem is secondary; report the missing model.
		return st.last
	}
	g.recorder.GatewayCall(listModelsCall, "ok")

	model, ok := SelectModel(models, strategy.Action(), st.model, g.keywords)
	if !ok {
		logging.GatewayWarn("no listed model supports %s (listed %d)", strategy.Action(), len(models))
		return st.last
	}

	logging.Gateway("model %s unavailable, switching to %s", st.model, model)
	st.model = model
	return retry.RetryableError(st.last)
}

// Models lists the models visible to the configured credential.
func (g *Gateway) Models(ctx context.Context) ([]ModelInfo, error) {
	if !g.Configured() || g.lister == nil {
		return nil, newFailure(KindUnconfigured, "model listing is not available")
	}
	ctx, cancel := context.WithTimeout(ctx, g.attemptTimeout)
	defer cancel()
	models, err := g.lister.ListModels(ctx)
	if err != nil {
		return nil, Classify(err)
	}
	for i := range models {
		models[i].Name = trimModelPrefix(models[i].Name)
	}
	return models, nil
}
