package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestEmbed(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/embed" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("expected bearer token, got %q", got)
		}
		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
			return
		}
		if body["model"] != "all-minilm" || body["input"] != "a cat on a mat" {
			t.Errorf("unexpected payload %v", body)
		}
		w.Write([]byte(`{"embeddings":[[0.1,0.2,0.3]]}`))
	})

	c := NewClient(Endpoint{BaseURL: srv.URL, Model: "all-minilm", Token: "secret"}, nil)
	vec, err := c.Embed(context.Background(), "a cat on a mat")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vec) != 3 || vec[1] != 0.2 {
		t.Errorf("unexpected vector %v", vec)
	}
}

func TestEmbed_NoTokenHeader(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "" {
			t.Errorf("expected no auth header, got %q", got)
		}
		w.Write([]byte(`{"embeddings":[[1]]}`))
	})
	c := NewClient(Endpoint{BaseURL: srv.URL, Model: "m"}, nil)
	if _, err := c.Embed(context.Background(), "x"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEmbed_Errors(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"status": func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "model not found", http.StatusNotFound)
		},
		"empty": func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte(`{"embeddings":[]}`))
		},
		"garbage": func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte(`not json`))
		},
	}
	for name, h := range cases {
		t.Run(name, func(t *testing.T) {
			srv := newTestServer(t, h)
			c := NewClient(Endpoint{BaseURL: srv.URL, Model: "m"}, nil)
			if _, err := c.Embed(context.Background(), "x"); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestChat(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var body struct {
			Model    string              `json:"model"`
			Messages []map[string]string `json:"messages"`
			Stream   bool                `json:"stream"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
			return
		}
		if body.Stream || len(body.Messages) != 2 || body.Messages[1]["content"] != "draw a fox" {
			t.Errorf("unexpected payload %+v", body)
		}
		w.Write([]byte(`{"message":{"role":"assistant","content":"a detailed fox"}}`))
	})
	c := NewClient(Endpoint{BaseURL: srv.URL, Model: "llama3.2"}, nil)
	out, err := c.Chat(context.Background(), "rewrite", "draw a fox")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "fox") {
		t.Errorf("unexpected reply %q", out)
	}
}
