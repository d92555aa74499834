package vision

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const defaultGeminiModel = "gemini-1.5-flash"

// Gemini implements Analyzer with the Google generative AI SDK.
type Gemini struct {
	client    *genai.Client
	model     *genai.GenerativeModel
	modelName string
	timeout   time.Duration
}

// NewGemini dials the Gemini API. Close releases the underlying connection.
func NewGemini(ctx context.Context, cfg Config) (*Gemini, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, ErrDisabled
	}
	name := strings.TrimSpace(cfg.Model)
	if name == "" {
		name = defaultGeminiModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	temp := cfg.Temperature
	if temp <= 0 {
		temp = defaultOpenAITemperature
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultOpenAIMaxTokens
	}

	model := client.GenerativeModel(name)
	model.SetTemperature(float32(temp))
	model.SetMaxOutputTokens(int32(maxTokens))
	model.ResponseMIMEType = "application/json"
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(SystemPrompt)}}

	return &Gemini{
		client:    client,
		model:     model,
		modelName: name,
		timeout:   upstreamTimeout(cfg.Timeout),
	}, nil
}

func (g *Gemini) Provider() string { return ProviderGemini }

func (g *Gemini) Model() string { return g.modelName }

func (g *Gemini) Close() error {
	return g.client.Close()
}

// Analyze sends the image as an inline blob and concatenates the text parts
// of the first candidate.
func (g *Gemini) Analyze(ctx context.Context, image []byte, mimeType string) (string, error) {
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	blob := genai.Blob{MIMEType: mimeType, Data: image}
	resp, err := g.model.GenerateContent(ctx, blob, genai.Text(UserPrompt))
	if err != nil {
		return "", classifyGeminiError(err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", &UpstreamError{Provider: ProviderGemini, Err: errors.New("empty candidates")}
	}

	var out strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			out.WriteString(string(text))
		}
	}
	return out.String(), nil
}

func classifyGeminiError(err error) error {
	upstream := &UpstreamError{Provider: ProviderGemini, Err: err}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		upstream.StatusCode = apiErr.Code
		return upstream
	}
	if st, ok := status.FromError(err); ok && st.Code() == codes.ResourceExhausted {
		upstream.StatusCode = http.StatusTooManyRequests
	}
	return upstream
}
