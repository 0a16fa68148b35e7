package llmprovider

import (
	"errors"
	"fmt"
	"sort"

	"mail-calendar-automation/config"
	"mail-calendar-automation/pkg/deepseek"
	"mail-calendar-automation/pkg/gemini"
)

const (
	NameGemini   = "gemini"
	NameDeepSeek = "deepseek"
	NameQwen     = "qwen"
)

// InitializeProviders builds the chain from cfg: the gemini section first when it has a key,
// then every enabled llm.providers entry by ascending priority.
// Providers that fail to build are skipped and reported in the returned error; the
// slice still holds every provider that could be built.
func InitializeProviders(cfg *config.Config) ([]Provider, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	var providers []Provider
	var initErrs []error

	if cfg.Gemini.APIKey != "" {
		p, err := createProvider(config.ProviderConfig{
			Name:    NameGemini,
			APIKey:  cfg.Gemini.APIKey,
			Model:   cfg.Gemini.Model,
			BaseURL: cfg.Gemini.APIURL,
			Timeout: cfg.Gemini.Timeout,
		})
		if err != nil {
			initErrs = append(initErrs, err)
		} else {
			providers = append(providers, p)
		}
	}

	var enabled []config.ProviderConfig
	for _, p := range cfg.LLM.Providers {
		if p.Enabled {
			enabled = append(enabled, p)
		}
	}
	sort.SliceStable(enabled, func(i, j int) bool {
		return enabled[i].Priority < enabled[j].Priority
	})

	for _, pc := range enabled {
		p, err := createProvider(pc)
		if err != nil {
			initErrs = append(initErrs, fmt.Errorf("failed to initialize provider %s (priority %d): %w", pc.Name, pc.Priority, err))
			continue
		}
		providers = append(providers, p)
	}

	if len(providers) == 0 && len(initErrs) == 0 {
		return nil, ErrNoProvidersConfigured
	}
	return providers, errors.Join(initErrs...)
}

func createProvider(pc config.ProviderConfig) (Provider, error) {
	switch pc.Name {
	case NameGemini:
		client, err := gemini.New(gemini.Config{
			APIKey:  pc.APIKey,
			Model:   pc.Model,
			APIURL:  pc.BaseURL,
			Timeout: pc.Timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create gemini client: %w", err)
		}
		return NewProvider(NameGemini, client), nil

	case NameDeepSeek:
		client, err := deepseek.New(deepseek.Config{
			APIKey:  pc.APIKey,
			Model:   pc.Model,
			BaseURL: pc.BaseURL,
			Timeout: pc.Timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create deepseek client: %w", err)
		}
		return NewProvider(NameDeepSeek, client), nil

	case NameQwen, "alibaba":
		cfg := deepseek.Config{
			APIKey:  pc.APIKey,
			Model:   pc.Model,
			BaseURL: pc.BaseURL,
			Timeout: pc.Timeout,
		}
		if cfg.Model == "" {
			cfg.Model = deepseek.QwenModel
		}
		if cfg.BaseURL == "" {
			cfg.BaseURL = deepseek.QwenBaseURL
		}
		client, err := deepseek.New(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create qwen client: %w", err)
		}
		return NewProvider(NameQwen, client), nil

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, pc.Name)
	}
}
