package llmprovider

import (
	"context"
	"fmt"
	"time"

	"mail-calendar-automation/pkg/log"
)

// Manager tries providers in priority order, retrying each before falling back to the next.
type Manager struct {
	providers []Provider
	config    Config
	logger    log.Logger
}

// Config defines configuration for the Provider Manager
type Config struct {
	FallbackEnabled bool
	RetryAttempts   int
	RetryDelay      time.Duration
	MaxTotalTimeout time.Duration // bounds the whole fallback chain
}

// NewManager creates a new Provider Manager with the given providers, config, and logger
func NewManager(providers []Provider, config Config, logger log.Logger) *Manager {
	if config.RetryAttempts <= 0 {
		config.RetryAttempts = 1
	}
	if logger == nil {
		logger = log.NewNop()
	}
	return &Manager{
		providers: providers,
		config:    config,
		logger:    logger,
	}
}

// Providers returns the chain in the order it is tried.
func (m *Manager) Providers() []Provider {
	return m.providers
}

// Model reports the primary provider's model.
func (m *Manager) Model() string {
	if len(m.providers) == 0 {
		return ""
	}
	return m.providers[0].Model()
}

// GenerateText iterates through providers in priority order with fallback logic
func (m *Manager) GenerateText(ctx context.Context, systemInstruction, prompt string, jsonOutput bool) (string, error) {
	if len(m.providers) == 0 {
		return "", ErrNoProvidersConfigured
	}

	if m.config.MaxTotalTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.config.MaxTotalTimeout)
		defer cancel()
	}

	var lastErr error
	for i, provider := range m.providers {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("global timeout exceeded after trying %d provider(s): %w", i, err)
		}

		start := time.Now()
		text, err := m.generateWithRetry(ctx, provider, systemInstruction, prompt, jsonOutput)
		if err == nil {
			m.logger.Infof(ctx, "LLM generation successful: provider=%s model=%s took=%s", provider.Name(), provider.Model(), time.Since(start).Round(time.Millisecond))
			return text, nil
		}

		m.logger.Warnf(ctx, "LLM generation failed: provider=%s model=%s err=%v", provider.Name(), provider.Model(), err)
		lastErr = err

		if !m.config.FallbackEnabled {
			break
		}
	}

	return "", fmt.Errorf("%w: %w", ErrAllProvidersFailed, lastErr)
}

// generateWithRetry waits attempt*RetryDelay between attempts.
func (m *Manager) generateWithRetry(ctx context.Context, provider Provider, systemInstruction, prompt string, jsonOutput bool) (string, error) {
	var lastErr error

	for attempt := 0; attempt < m.config.RetryAttempts; attempt++ {
		if attempt > 0 {
			delay := time.Duration(attempt) * m.config.RetryDelay
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}

		text, err := provider.GenerateText(ctx, systemInstruction, prompt, jsonOutput)
		if err == nil {
			return text, nil
		}
		lastErr = err
	}

	return "", lastErr
}
