// Package embedding provides the image embedding extractor as an HTTP client
// to a CLIP inference server. The model lives in the server process; this
// client is a stateless, shared handle. Initialization is fail-fast: Ping is
// called once at startup and a failure is fatal to the process.
package embedding

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"time"

	"github.com/codeGROOVE-dev/retry"

	"github.com/pawtrail/petmatch-backend/internal/config"
	"github.com/pawtrail/petmatch-backend/internal/domain"
	"github.com/pawtrail/petmatch-backend/internal/imaging"
)

// Client embeds images via an inference server speaking an
// ollama-compatible embeddings API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	model      string
	dimensions int
}

// New creates an embedding client from config. It does not touch the network;
// call Ping before first use.
func New(cfg config.EmbeddingConfig) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    cfg.BaseURL,
		model:      cfg.Model,
		dimensions: cfg.Dimensions,
	}
}

// ModelName returns the configured model identifier.
func (c *Client) ModelName() string { return c.model }

// Dimensions returns the expected embedding vector size.
func (c *Client) Dimensions() int { return c.dimensions }

type embedRequest struct {
	Model string `json:"model"`
	Image string `json:"image"`
}

type embedResponse struct {
	Embedding []float32 `json:"embedding"`
}

// httpError carries a non-2xx status for retry classification.
type httpError struct {
	status int
	body   string
}

func (e *httpError) Error() string {
	return fmt.Sprintf("embedding server status %d: %s", e.status, e.body)
}

// Embed converts an RGB-normalized image into a fixed-length vector.
// The image is re-encoded as baseline JPEG and sent base64. Transient server
// and network errors get one bounded retry; a response of the wrong
// dimensionality is an error, never silently truncated.
func (c *Client) Embed(ctx context.Context, img image.Image) ([]float32, error) {
	data, err := imaging.EncodeJPEG(img)
	if err != nil {
		return nil, err
	}

	reqBody, err := json.Marshal(embedRequest{
		Model: c.model,
		Image: base64.StdEncoding.EncodeToString(data),
	})
	if err != nil {
		return nil, fmt.Errorf("marshal embed request: %w", err)
	}

	body, err := retry.DoWithData(
		func() ([]byte, error) {
			return c.post(ctx, "/api/embeddings", reqBody)
		},
		retry.Context(ctx),
		retry.Attempts(2),
		retry.Delay(200*time.Millisecond),
		retry.MaxJitter(100*time.Millisecond),
		retry.RetryIf(isRetryableError),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("embed image: %w", err)
	}

	var resp embedResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode embed response: %w", err)
	}

	if len(resp.Embedding) != c.dimensions {
		return nil, fmt.Errorf("embedding dimension %d, want %d", len(resp.Embedding), c.dimensions)
	}

	return resp.Embedding, nil
}

// Ping verifies the inference server is reachable and serves the configured
// model. Called once at startup; a failure maps to domain.ErrModelUnavailable
// and the caller is expected to treat it as fatal.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", http.NoBody)
	if err != nil {
		return fmt.Errorf("create ping request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ping %s: %v: %w", c.baseURL, err, domain.ErrModelUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ping %s: status %d: %w", c.baseURL, resp.StatusCode, domain.ErrModelUnavailable)
	}

	return nil
}

func (c *Client) post(ctx context.Context, path string, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &httpError{status: resp.StatusCode, body: string(respBody)}
	}

	return respBody, nil
}

// isRetryableError returns true for transient errors worth one more attempt.
func isRetryableError(err error) bool {
	var he *httpError
	if errors.As(err, &he) {
		switch he.status {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		default:
			return false
		}
	}
	// Network errors and timeouts are retryable.
	return true
}
