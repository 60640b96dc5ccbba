// Package logging provides config-driven categorized logging for supportdesk.
// Every category is a named child of one zap root logger; categories can be
// switched off individually in the logging section of supportdesk.yaml.
package logging

import (
	"fmt"
	"strings"
	"sync"

	"supportdesk/internal/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category represents a log category/system
type Category string

const (
	CategoryBoot         Category = "boot"         // Startup, config resolution
	CategoryKnowledge    Category = "knowledge"    // FAQ loading and browsing
	CategoryMatcher      Category = "matcher"      // FAQ similarity scoring
	CategoryEscalation   Category = "escalation"   // Escalation verdicts
	CategoryGateway      Category = "gateway"      // Strategy probing, model discovery
	CategoryAPI          Category = "api"          // Raw provider calls
	CategoryOrchestrator Category = "orchestrator" // Per-message routing decisions
	CategoryMetrics      Category = "metrics"      // Metrics endpoint
)

var (
	root    = zap.NewNop()
	current config.LoggingConfig
	mu      sync.RWMutex
)

// Initialize builds the root logger from config.
// Format "json" uses the zap production encoder, anything else the console encoder.
func Initialize(cfg config.LoggingConfig) error {
	logger, err := Build(cfg)
	if err != nil {
		return err
	}
	SetLogger(logger, cfg)
	Get(CategoryBoot).Debug("logging initialized",
		zap.String("level", cfg.Level),
		zap.String("format", cfg.Format))
	return nil
}

// Build constructs a zap logger for cfg without installing it.
func Build(cfg config.LoggingConfig) (*zap.Logger, error) {
	var zc zap.Config
	if strings.EqualFold(cfg.Format, "json") {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}
	zc.Sampling = nil
	zc.OutputPaths = []string{"stderr"}
	if cfg.Quiet {
		zc.OutputPaths = nil
	}
	if cfg.File != "" {
		zc.OutputPaths = append(zc.OutputPaths, cfg.File)
	}
	if len(zc.OutputPaths) == 0 {
		return zap.NewNop(), nil
	}

	level := cfg.Level
	if level == "" {
		level = "info"
	}
	atomic, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	zc.Level = atomic

	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger, nil
}

// SetLogger installs logger as the root and applies the category filter from cfg.
func SetLogger(logger *zap.Logger, cfg config.LoggingConfig) {
	if logger == nil {
		logger = zap.NewNop()
	}
	mu.Lock()
	defer mu.Unlock()
	root = logger
	current = cfg
}

// Reset restores the no-op root logger.
func Reset() {
	SetLogger(nil, config.LoggingConfig{})
}

// IsCategoryEnabled returns whether a specific category is enabled
func IsCategoryEnabled(category Category) bool {
	mu.RLock()
	defer mu.RUnlock()
	return current.IsCategoryEnabled(string(category))
}

// Get returns the logger for the given category.
// Returns a no-op logger if the category is disabled.
func Get(category Category) *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	if !current.IsCategoryEnabled(string(category)) {
		return zap.NewNop()
	}
	return root.Named(string(category))
}

// Sync flushes the root logger.
func Sync() error {
	mu.RLock()
	defer mu.RUnlock()
	return root.Sync()
}

// =============================================================================
// CONVENIENCE FUNCTIONS
// =============================================================================

func Boot(format string, args ...interface{}) {
	Get(CategoryBoot).Sugar().Infof(format, args...)
}

func BootWarn(format string, args ...interface{}) {
	Get(CategoryBoot).Sugar().Warnf(format, args...)
}

func Knowledge(format string, args ...interface{}) {
	Get(CategoryKnowledge).Sugar().Infof(format, args...)
}

func KnowledgeWarn(format string, args ...interface{}) {
	Get(CategoryKnowledge).Sugar().Warnf(format, args...)
}

func Gateway(format string, args ...interface{}) {
	Get(CategoryGateway).Sugar().Infof(format, args...)
}

func GatewayDebug(format string, args ...interface{}) {
	Get(CategoryGateway).Sugar().Debugf(format, args...)
}

func GatewayWarn(format string, args ...interface{}) {
	Get(CategoryGateway).Sugar().Warnf(format, args...)
}

func APIDebug(format string, args ...interface{}) {
	Get(CategoryAPI).Sugar().Debugf(format, args...)
}

func Orchestrator(format string, args ...interface{}) {
	Get(CategoryOrchestrator).Sugar().Infof(format, args...)
}

func OrchestratorDebug(format string, args ...interface{}) {
	Get(CategoryOrchestrator).Sugar().Debugf(format, args...)
}
