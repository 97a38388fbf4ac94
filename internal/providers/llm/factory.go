package llm

import (
	"time"
)

// Transport selects how Gemini is reached.
const (
	TransportSDK  = "sdk"
	TransportHTTP = "http"
)

// NewChainClients returns the ordered backend list for the invocation
// chain: the primary model first, then the named fallback. An unrecognized
// transport falls back to the SDK client.
func NewChainClients(apiKey, primary, fallback, transport string, timeout time.Duration) []Client {
	build := func(model string) Client {
		if transport == TransportHTTP {
			return &GeminiHTTPClient{APIKey: apiKey, Model: model, Timeout: timeout}
		}
		return &GeminiClient{APIKey: apiKey, Model: model}
	}
	return []Client{build(primary), build(fallback)}
}
