package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
)

// maxGeminiResponseLogBytes is the max length of a Gemini response body to log in full (to avoid huge logs).
const maxGeminiResponseLogBytes = 8192

// Generation settings shared by every text prompt.
const (
	defaultTemperature = 0.7
	defaultTopK        = 32
	defaultTopP        = 0.8
	defaultMaxTokens   = 1000
)

// httpClientForEndpoint returns an http.Client that rewrites request URLs to the given base endpoint.
func httpClientForEndpoint(baseEndpoint string) *http.Client {
	base, err := url.Parse(baseEndpoint)
	if err != nil || base.Host == "" {
		log.Warn().Err(err).Str("endpoint", baseEndpoint).Msg("Invalid GEMINI_API_ENDPOINT, using default")
		return nil
	}
	base.Path = strings.TrimSuffix(base.Path, "/")
	return &http.Client{
		Transport: &endpointRoundTripper{base: base, next: http.DefaultTransport},
	}
}

// endpointRoundTripper rewrites request URLs to a custom base (scheme, host, path prefix).
type endpointRoundTripper struct {
	base *url.URL
	next http.RoundTripper
}

func (e *endpointRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	req2 := req.Clone(req.Context())
	req2.URL.Scheme = e.base.Scheme
	req2.URL.Host = e.base.Host
	req2.URL.Path = path.Join(e.base.Path, strings.TrimPrefix(req.URL.Path, "/"))
	if req.URL.RawQuery != "" {
		req2.URL.RawQuery = req.URL.RawQuery
	}
	return e.next.RoundTrip(req2)
}

// logGeminiResponse logs Gemini response text, truncating if over maxGeminiResponseLogBytes.
func logGeminiResponse(caller, raw string) {
	if len(raw) <= maxGeminiResponseLogBytes {
		log.Debug().Str("caller", caller).Str("gemini_response", raw).Msg("Gemini response")
		return
	}
	log.Debug().
		Str("caller", caller).
		Str("gemini_response", raw[:maxGeminiResponseLogBytes]+"... [truncated]").
		Int("gemini_response_len", len(raw)).
		Msg("Gemini response")
}

// NewModel creates the Gemini text model used for story text and visual descriptions.
// apiEndpoint is optional; when set, all calls are sent to that base URL.
func NewModel(ctx context.Context, apiKey, model, apiEndpoint string) (llms.Model, error) {
	opts := []googleai.Option{
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultModel(model),
		googleai.WithHarmThreshold(googleai.HarmBlockMediumAndAbove),
	}
	if apiEndpoint != "" {
		if hc := httpClientForEndpoint(apiEndpoint); hc != nil {
			opts = append(opts, googleai.WithHTTPClient(hc))
		}
	}

	m, err := googleai.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize gemini model %s: %w", model, err)
	}

	log.Info().
		Str("model", model).
		Str("api_endpoint", apiEndpoint).
		Msg("LLM client initialized")

	return m, nil
}

// generate sends a single prompt with the shared generation settings.
func generate(ctx context.Context, model llms.Model, caller, prompt string) (string, error) {
	response, err := llms.GenerateFromSinglePrompt(ctx, model, prompt,
		llms.WithTemperature(defaultTemperature),
		llms.WithTopK(defaultTopK),
		llms.WithTopP(defaultTopP),
		llms.WithMaxTokens(defaultMaxTokens),
	)
	if err != nil {
		return "", err
	}
	logGeminiResponse(caller, response)
	return response, nil
}
