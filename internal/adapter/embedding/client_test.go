package embedding

import (
	"context"
	"encoding/json"
	"errors"
	"image"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pawtrail/petmatch-backend/internal/config"
	"github.com/pawtrail/petmatch-backend/internal/domain"
)

func testConfig(baseURL string, dims int) config.EmbeddingConfig {
	return config.EmbeddingConfig{
		BaseURL:    baseURL,
		Model:      "clip-vit-b-32",
		Timeout:    5 * time.Second,
		Dimensions: dims,
	}
}

func testImage() image.Image {
	return image.NewRGBA(image.Rect(0, 0, 4, 4))
}

func TestClient_Embed(t *testing.T) {
	t.Parallel()

	want := []float32{0.1, 0.2, 0.3}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/embeddings" {
			t.Errorf("path = %s, want /api/embeddings", r.URL.Path)
		}

		var req embedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Model != "clip-vit-b-32" {
			t.Errorf("model = %q", req.Model)
		}
		if req.Image == "" {
			t.Error("image payload is empty")
		}

		_ = json.NewEncoder(w).Encode(embedResponse{Embedding: want})
	}))
	defer srv.Close()

	c := New(testConfig(srv.URL, 3))

	got, err := c.Embed(context.Background(), testImage())
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(got) != 3 || got[0] != 0.1 || got[2] != 0.3 {
		t.Errorf("embedding = %v, want %v", got, want)
	}
}

func TestClient_Embed_DimensionMismatch(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(embedResponse{Embedding: []float32{1, 2}})
	}))
	defer srv.Close()

	c := New(testConfig(srv.URL, 512))

	if _, err := c.Embed(context.Background(), testImage()); err == nil {
		t.Fatal("Embed accepted wrong dimensionality")
	}
}

func TestClient_Embed_RetriesTransient(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_ = json.NewEncoder(w).Encode(embedResponse{Embedding: []float32{1}})
	}))
	defer srv.Close()

	c := New(testConfig(srv.URL, 1))

	if _, err := c.Embed(context.Background(), testImage()); err != nil {
		t.Fatalf("Embed after transient failure: %v", err)
	}
	if calls.Load() != 2 {
		t.Errorf("server calls = %d, want 2", calls.Load())
	}
}

func TestClient_Embed_NoRetryOnBadRequest(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	c := New(testConfig(srv.URL, 1))

	if _, err := c.Embed(context.Background(), testImage()); err == nil {
		t.Fatal("Embed succeeded on 400")
	}
	if calls.Load() != 1 {
		t.Errorf("server calls = %d, want 1 (4xx is permanent)", calls.Load())
	}
}

func TestClient_Ping(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			t.Errorf("path = %s, want /api/tags", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := New(testConfig(srv.URL, 512))
	if err := c.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
}

func TestClient_Ping_Unavailable(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(testConfig(srv.URL, 512))

	err := c.Ping(context.Background())
	if !errors.Is(err, domain.ErrModelUnavailable) {
		t.Fatalf("Ping err = %v, want ErrModelUnavailable", err)
	}
}

func TestClient_Ping_NoServer(t *testing.T) {
	t.Parallel()

	c := New(testConfig("http://127.0.0.1:1", 512))

	err := c.Ping(context.Background())
	if !errors.Is(err, domain.ErrModelUnavailable) {
		t.Fatalf("Ping err = %v, want ErrModelUnavailable", err)
	}
}
