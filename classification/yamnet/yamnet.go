// Package yamnet implements classification.Provider against a YAMNet HTTP
// sidecar that exposes POST /classify and GET /health.
package yamnet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/kbukum/soundguard/audio"
	"github.com/kbukum/soundguard/classification"
	"github.com/kbukum/soundguard/provider"
)

const (
	// ProviderName is the registered name for the YAMNet provider.
	ProviderName = "yamnet"

	defaultURL     = "http://localhost:8390"
	defaultTimeout = 30 * time.Second
	maxErrorBody   = 4 << 10
)

// Config holds configuration for the YAMNet sidecar.
type Config struct {
	URL     string        `json:"url" yaml:"url"`
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// Provider calls the YAMNet sidecar.
type Provider struct {
	cfg    Config
	client *http.Client
}

var (
	_ classification.Provider = (*Provider)(nil)
	_ provider.Closeable      = (*Provider)(nil)
	_ provider.Initializable  = (*Provider)(nil)
)

// NewProvider creates a YAMNet provider.
func NewProvider(cfg Config) *Provider {
	if cfg.URL == "" {
		cfg.URL = defaultURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Provider{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// Factory builds Providers from a generic config map.
func Factory() provider.Factory[classification.Provider] {
	return func(cfg map[string]any) (classification.Provider, error) {
		yc := Config{}
		if v, ok := cfg["url"].(string); ok {
			yc.URL = v
		}
		if v, ok := cfg["timeout"].(time.Duration); ok {
			yc.Timeout = v
		}
		return NewProvider(yc), nil
	}
}

func (p *Provider) Name() string { return ProviderName }

// IsAvailable checks the sidecar health endpoint.
func (p *Provider) IsAvailable(ctx context.Context) bool {
	return p.Init(ctx) == nil
}

// Close drops pooled sidecar connections.
func (p *Provider) Close(_ context.Context) error {
	p.client.CloseIdleConnections()
	return nil
}

// Init fails unless GET /health answers 200.
func (p *Provider) Init(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.cfg.URL+"/health", nil)
	if err != nil {
		return fmt.Errorf("create health request: %w", err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("yamnet health: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("yamnet health: status %d: %w", resp.StatusCode, provider.ErrUnavailable)
	}
	return nil
}

// Execute sends the waveform and returns the frame × class score matrix.
func (p *Provider) Execute(ctx context.Context, a audio.CanonicalAudio) (classification.ScoreMatrix, error) {
	body, err := json.Marshal(classifyRequest{SampleRate: a.SampleRate, Waveform: a.Samples})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.URL+"/classify", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yamnet request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusServiceUnavailable {
		return nil, fmt.Errorf("yamnet: %w", provider.ErrUnavailable)
	}
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("yamnet error (status %d): %s", resp.StatusCode, bytes.TrimSpace(msg))
	}

	var result classifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode yamnet response: %w", err)
	}
	if result.Error != "" {
		return nil, fmt.Errorf("yamnet error: %s", result.Error)
	}
	return result.Scores, nil
}

// --- sidecar wire types ---

type classifyRequest struct {
	SampleRate int       `json:"sample_rate"`
	Waveform   []float32 `json:"waveform"`
}

type classifyResponse struct {
	Scores classification.ScoreMatrix `json:"scores"`
	Error  string                     `json:"error,omitempty"`
}
