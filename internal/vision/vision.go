package vision

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
)

// Analyzer sends one prepared image to a vision model and returns its raw
// text answer.
type Analyzer interface {
	Provider() string
	Model() string
	Analyze(ctx context.Context, image []byte, mimeType string) (string, error)
}

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
	ProviderStub   = "stub"
)

// Config selects and parameterizes the vision provider.
type Config struct {
	Provider    string
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

var (
	ErrDisabled      = errors.New("vision analyzer disabled: no api key configured")
	ErrQuotaExceeded = errors.New("vision provider quota exceeded")
)

// UpstreamError wraps a failed provider call. StatusCode is zero when the
// request never produced an HTTP response.
type UpstreamError struct {
	Provider   string
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s upstream status %d: %v", e.Provider, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s upstream: %v", e.Provider, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Is lets callers match rate limiting with errors.Is(err, ErrQuotaExceeded).
func (e *UpstreamError) Is(target error) bool {
	return target == ErrQuotaExceeded && e.StatusCode == http.StatusTooManyRequests
}

// New builds the analyzer named by cfg.Provider. An empty provider means openai.
func New(ctx context.Context, cfg Config) (Analyzer, error) {
	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	if provider == "" {
		provider = ProviderOpenAI
	}
	switch provider {
	case ProviderOpenAI:
		return NewOpenAI(cfg)
	case ProviderGemini:
		return NewGemini(ctx, cfg)
	case ProviderStub:
		return NewStub(), nil
	default:
		return nil, fmt.Errorf("unknown vision provider %q", cfg.Provider)
	}
}

// DetectMIME sniffs the image type sent upstream. Anything that is not an
// image is reported as JPEG.
func DetectMIME(data []byte) string {
	mt := mimetype.Detect(data)
	if strings.HasPrefix(mt.String(), "image/") {
		return mt.String()
	}
	return "image/jpeg"
}

func upstreamTimeout(d time.Duration) time.Duration {
	if d <= 0 {
		return 60 * time.Second
	}
	return d
}
