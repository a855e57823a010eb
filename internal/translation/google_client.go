package translation

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const translateBaseURL = "https://translate.googleapis.com/translate_a/single"

// GoogleClient translates text via the public Google Translate endpoint
// (client=gtx), one fragment per request.
type GoogleClient struct {
	sourceLang string
	targetLang string
	httpClient *http.Client
}

// NewGoogleClient creates a client for a fixed source/target pair.
func NewGoogleClient(sourceLang, targetLang string) *GoogleClient {
	return &GoogleClient{
		sourceLang: sourceLang,
		targetLang: targetLang,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Translate sends one fragment and returns the raw translated text.
func (gc *GoogleClient) Translate(ctx context.Context, text string) (string, error) {
	params := url.Values{}
	params.Set("client", "gtx")
	params.Set("sl", gc.sourceLang)
	params.Set("tl", gc.targetLang)
	params.Set("dt", "t")
	params.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, translateBaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	resp, err := gc.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("API call: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return "", fmt.Errorf("retryable error (status %d)", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	return parseTranslateResponse(body)
}

// parseTranslateResponse walks the nested array response of the gtx
// endpoint: the first element is a list of sentences whose first field
// is the translated text.
func parseTranslateResponse(body []byte) (string, error) {
	var root []interface{}
	if err := json.Unmarshal(body, &root); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}

	if len(root) == 0 {
		return "", fmt.Errorf("empty response")
	}

	sentences, ok := root[0].([]interface{})
	if !ok {
		return "", fmt.Errorf("unexpected response shape")
	}

	var b strings.Builder
	for _, s := range sentences {
		fields, ok := s.([]interface{})
		if !ok || len(fields) == 0 {
			continue
		}
		if translated, ok := fields[0].(string); ok {
			b.WriteString(translated)
		}
	}

	return b.String(), nil
}
