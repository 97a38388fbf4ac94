package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// GeminiHTTPClient is a lightweight alternative to the SDK client. It talks
// to the generateContent REST endpoint directly and retries transient
// failures with exponential backoff.
type GeminiHTTPClient struct {
	APIKey  string
	Model   string
	BaseURL string        // defaults to the public API
	Timeout time.Duration // per-attempt HTTP timeout
}

func (c *GeminiHTTPClient) Name() string { return "gemini-http:" + c.Model }

func (c *GeminiHTTPClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	base := c.BaseURL
	if base == "" {
		base = "https://generativelanguage.googleapis.com/v1beta"
	}
	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		strings.TrimRight(base, "/"), url.PathEscape(c.Model), url.QueryEscape(c.APIKey))

	body := map[string]any{
		"contents": []map[string]any{{
			"role":  "user",
			"parts": []map[string]string{{"text": prompt}},
		}},
	}
	b, _ := json.Marshal(body)

	timeout := c.Timeout
	if timeout == 0 {
		timeout = 45 * time.Second
	}
	httpClient := &http.Client{Timeout: timeout}

	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(b))
		if err != nil {
			return "", err
		}
		req.Header.Set("content-type", "application/json")

		res, err := httpClient.Do(req)
		if err != nil {
			lastErr = err
			if isTimeout(err) {
				time.Sleep(backoff(attempt))
				continue
			}
			return "", err
		}
		txt, err := decodeGenerateContent(res)
		res.Body.Close()
		if err == nil {
			return txt, nil
		}
		lastErr = err
		if !retryableStatus(res.StatusCode) {
			return "", lastErr
		}
		time.Sleep(backoff(attempt))
	}
	return "", lastErr
}

func decodeGenerateContent(res *http.Response) (string, error) {
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		var eresp map[string]any
		_ = json.NewDecoder(res.Body).Decode(&eresp)
		return "", fmt.Errorf("gemini status %d: %v", res.StatusCode, eresp)
	}
	var out struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return "", err
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("no candidates")
	}
	return out.Candidates[0].Content.Parts[0].Text, nil
}

func retryableStatus(code int) bool {
	return code == 408 || code == 429 || (code >= 500 && code <= 599)
}

func isTimeout(err error) bool {
	type timeout interface{ Timeout() bool }
	var te timeout
	if errors.As(err, &te) {
		return te.Timeout()
	}
	return false
}

func backoff(i int) time.Duration {
	return time.Duration(500*(1<<i)) * time.Millisecond
}
