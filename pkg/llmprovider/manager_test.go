package llmprovider

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mail-calendar-automation/config"
	"mail-calendar-automation/pkg/log"
)

// mockProvider fails its first failTimes calls.
type mockProvider struct {
	name      string
	failTimes int
	reply     string
	callCount int
}

func (m *mockProvider) GenerateText(ctx context.Context, systemInstruction, prompt string, jsonOutput bool) (string, error) {
	m.callCount++
	if m.callCount <= m.failTimes {
		return "", errors.New("mock provider error")
	}
	return m.reply, nil
}

func (m *mockProvider) Name() string  { return m.name }
func (m *mockProvider) Model() string { return m.name + "-model" }

const always = 1 << 30

func TestGenerateText_PrimarySucceeds(t *testing.T) {
	primary := &mockProvider{name: "primary", reply: "from primary"}
	secondary := &mockProvider{name: "secondary", reply: "from secondary"}
	m := NewManager([]Provider{primary, secondary}, Config{FallbackEnabled: true, RetryAttempts: 3}, log.NewNop())

	text, err := m.GenerateText(context.Background(), "sys", "prompt", true)
	require.NoError(t, err)
	assert.Equal(t, "from primary", text)
	assert.Equal(t, 1, primary.callCount)
	assert.Equal(t, 0, secondary.callCount)
	assert.Equal(t, "primary-model", m.Model())
}

func TestGenerateText_RetriesThenFallsBack(t *testing.T) {
	primary := &mockProvider{name: "primary", failTimes: always}
	secondary := &mockProvider{name: "secondary", failTimes: 1, reply: "from secondary"}
	m := NewManager([]Provider{primary, secondary}, Config{FallbackEnabled: true, RetryAttempts: 2, RetryDelay: time.Millisecond}, nil)

	text, err := m.GenerateText(context.Background(), "", "prompt", false)
	require.NoError(t, err)
	assert.Equal(t, "from secondary", text)
	assert.Equal(t, 2, primary.callCount)
	assert.Equal(t, 2, secondary.callCount)
}

func TestGenerateText_FallbackDisabled(t *testing.T) {
	primary := &mockProvider{name: "primary", failTimes: always}
	secondary := &mockProvider{name: "secondary", reply: "unused"}
	m := NewManager([]Provider{primary, secondary}, Config{RetryAttempts: 1}, nil)

	_, err := m.GenerateText(context.Background(), "", "prompt", false)
	assert.ErrorIs(t, err, ErrAllProvidersFailed)
	assert.Equal(t, 0, secondary.callCount)
}

func TestGenerateText_AllFail(t *testing.T) {
	m := NewManager([]Provider{
		NewProvider("a", &mockClient{err: errors.New("boom")}),
		NewProvider("b", &mockClient{err: errors.New("quota")}),
	}, Config{FallbackEnabled: true}, nil)

	_, err := m.GenerateText(context.Background(), "", "prompt", false)
	require.ErrorIs(t, err, ErrAllProvidersFailed)

	var perr *ProviderError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "b", perr.Provider)
}

func TestGenerateText_NoProviders(t *testing.T) {
	m := NewManager(nil, Config{}, nil)
	_, err := m.GenerateText(context.Background(), "", "prompt", false)
	assert.ErrorIs(t, err, ErrNoProvidersConfigured)
}

func TestGenerateText_GlobalTimeout(t *testing.T) {
	primary := &mockProvider{name: "primary", failTimes: always}
	secondary := &mockProvider{name: "secondary", reply: "late"}
	m := NewManager([]Provider{primary, secondary}, Config{
		FallbackEnabled: true,
		RetryAttempts:   5,
		RetryDelay:      50 * time.Millisecond,
		MaxTotalTimeout: 20 * time.Millisecond,
	}, nil)

	_, err := m.GenerateText(context.Background(), "", "prompt", false)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 0, secondary.callCount)
}

type mockClient struct {
	err error
}

func (c *mockClient) GenerateText(ctx context.Context, systemInstruction, prompt string, jsonOutput bool) (string, error) {
	return "", c.err
}

func (c *mockClient) Model() string { return "mock" }

func TestInitializeProviders(t *testing.T) {
	cfg := &config.Config{}
	cfg.Gemini.APIKey = "g-key"
	cfg.LLM.Providers = []config.ProviderConfig{
		{Name: NameQwen, Enabled: true, Priority: 2, APIKey: "q-key"},
		{Name: NameDeepSeek, Enabled: true, Priority: 1, APIKey: "d-key"},
		{Name: "claude", Enabled: false, Priority: 0, APIKey: "x"},
	}

	providers, err := InitializeProviders(cfg)
	require.NoError(t, err)
	require.Len(t, providers, 3)
	assert.Equal(t, NameGemini, providers[0].Name())
	assert.Equal(t, NameDeepSeek, providers[1].Name())
	assert.Equal(t, NameQwen, providers[2].Name())
	assert.Equal(t, "qwen-plus", providers[2].Model())
}

func TestInitializeProviders_SkipsBroken(t *testing.T) {
	cfg := &config.Config{}
	cfg.LLM.Providers = []config.ProviderConfig{
		{Name: "mystery", Enabled: true, APIKey: "k"},
		{Name: NameDeepSeek, Enabled: true, APIKey: "d-key"},
	}

	providers, err := InitializeProviders(cfg)
	assert.ErrorIs(t, err, ErrUnknownProvider)
	require.Len(t, providers, 1)
	assert.Equal(t, NameDeepSeek, providers[0].Name())
}

func TestInitializeProviders_None(t *testing.T) {
	_, err := InitializeProviders(&config.Config{})
	assert.ErrorIs(t, err, ErrNoProvidersConfigured)
}
