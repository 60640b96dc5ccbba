package gateway

import (
	"context"
	"net/http"
	"net/url"
	"path"
	"strings"

	"supportdesk/internal/config"
	"supportdesk/internal/logging"
	"supportdesk/internal/metrics"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// Option customizes a Gateway built by New.
type Option func(*options)

type options struct {
	strategies []Strategy
	lister     ModelLister
	httpClient *http.Client
	logger     *zap.Logger
	recorder   metrics.Recorder
}

// WithStrategies replaces the configured strategies.
func WithStrategies(s ...Strategy) Option {
	return func(o *options) { o.strategies = s }
}

// WithModelLister replaces the model lister used for discovery.
func WithModelLister(l ModelLister) Option {
	return func(o *options) { o.lister = l }
}

// WithHTTPClient sets the HTTP client for REST strategies and the SDK.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

// WithLogger overrides the gateway category logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(o *options) { o.recorder = r }
}

// New builds a Gateway from cfg. A missing API key yields a gateway whose
// every call fails with KindUnconfigured. Strategies that cannot be built are
// skipped and logged; when none remain the gateway is unconfigured too.
func New(ctx context.Context, cfg config.LLMConfig, opts ...Option) *Gateway {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = logging.Get(logging.CategoryGateway)
	}
	if o.recorder == nil {
		o.recorder = metrics.Nop{}
	}
	if o.httpClient == nil {
		o.httpClient = &http.Client{}
	}

	def := config.DefaultLLMConfig()
	g := &Gateway{
		model:          trimModelPrefix(cfg.Model),
		maxCalls:       cfg.MaxCalls,
		attemptTimeout: cfg.GetAttemptTimeout(),
		backoff:        cfg.GetStrategyBackoff(),
		keywords:       cfg.PreferredModelKeywords,
		logger:         o.logger,
		recorder:       o.recorder,
	}
	if g.model == "" {
		g.model = def.Model
	}
	if g.maxCalls < 1 {
		g.maxCalls = DefaultMaxCalls
	}
	if g.keywords == nil {
		g.keywords = DefaultPreferredModelKeywords
	}

	if o.strategies != nil {
		g.strategies = o.strategies
		g.lister = o.lister
		g.configured = true
		return g
	}

	if !cfg.Configured() {
		logging.GatewayWarn("no API key configured; AI answers are disabled")
		return g
	}
	g.configured = true

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = def.BaseURL
	}
	rest := &restClient{
		baseURL:         baseURL,
		apiKey:          cfg.APIKey,
		httpClient:      o.httpClient,
		maxOutputTokens: cfg.MaxOutputTokens,
		temperature:     cfg.Temperature,
	}

	var sdk *sdkClient
	names := cfg.Strategies
	if len(names) == 0 {
		names = config.KnownStrategies
	}
	for _, name := range names {
		switch name {
		case config.StrategySDKGenerateContent, config.StrategySDKChat:
			if sdk == nil {
				client, err := newSDKClient(ctx, cfg.APIKey, baseURL, o.httpClient)
				if err != nil {
					logging.GatewayWarn("skipping %s: %v", name, err)
					continue
				}
				sdk = &sdkClient{
					client:          client,
					maxOutputTokens: int32(cfg.MaxOutputTokens),
					temperature:     cfg.Temperature,
				}
			}
			if name == config.StrategySDKGenerateContent {
				g.strategies = append(g.strategies, &sdkGenerateContent{sdk: sdk})
			} else {
				g.strategies = append(g.strategies, &sdkChat{sdk: sdk})
			}
		case config.StrategyRESTGenerateContent:
			g.strategies = append(g.strategies, &restGenerateContent{client: rest})
		case config.StrategyRESTGenerateText:
			g.strategies = append(g.strategies, &restGenerateText{client: rest})
		default:
			logging.GatewayWarn("unknown strategy %q ignored", name)
		}
	}

	switch {
	case o.lister != nil:
		g.lister = o.lister
	case sdk != nil:
		g.lister = &sdkLister{sdk: sdk}
	default:
		g.lister = &restLister{client: rest}
	}

	logging.Gateway("gateway ready: model=%s strategies=%v max_calls=%d", g.model, g.Strategies(), g.maxCalls)
	return g
}

func newSDKClient(ctx context.Context, apiKey, baseURL string, httpClient *http.Client) (*genai.Client, error) {
	cc := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if baseURL != config.DefaultLLMConfig().BaseURL {
		cc.HTTPOptions = sdkHTTPOptions(baseURL)
	}
	return genai.NewClient(ctx, cc)
}

// sdkHTTPOptions splits ".../v1beta" style base URLs into the SDK's
// host and API version.
func sdkHTTPOptions(baseURL string) genai.HTTPOptions {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || u.Host == "" {
		return genai.HTTPOptions{BaseURL: baseURL}
	}
	version := path.Base(u.Path)
	if !strings.HasPrefix(version, "v") {
		return genai.HTTPOptions{BaseURL: u.String() + "/"}
	}
	u.Path = strings.TrimSuffix(path.Dir(u.Path), "/")
	return genai.HTTPOptions{BaseURL: u.String() + "/", APIVersion: version}
}
