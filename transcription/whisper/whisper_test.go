package whisper

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/soundguard/audio"
	"github.com/kbukum/soundguard/provider"
	"github.com/kbukum/soundguard/transcription"
)

func newSidecar(t *testing.T, cfg Config, handler http.HandlerFunc) *Provider {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/transcribe", handler)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	cfg.URL = srv.URL
	cfg.Timeout = 2 * time.Second
	return NewProvider(cfg)
}

func TestExecute(t *testing.T) {
	var gotModel, gotLang string
	var gotAudio []byte
	p := newSidecar(t, Config{Model: "small", Language: "ko"}, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse form: %v", err)
			return
		}
		gotModel = r.FormValue("model")
		gotLang = r.FormValue("language")
		f, _, err := r.FormFile("audio")
		if err != nil {
			t.Errorf("audio field: %v", err)
			return
		}
		defer f.Close()
		gotAudio, _ = io.ReadAll(f)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"text":     " 도와줘 살려줘",
			"language": "ko",
			"segments": []map[string]any{{"text": " 도와줘 살려줘", "start": 0.0, "end": 1.5}},
		})
	})

	in := transcription.Request{Audio: audio.CanonicalAudio{Samples: make([]float32, 160), SampleRate: audio.SampleRate}}
	resp, err := p.Execute(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text != " 도와줘 살려줘" || resp.Language != "ko" {
		t.Errorf("unexpected response %+v", resp)
	}
	if resp.Duration != 1.5 || len(resp.Segments) != 1 {
		t.Errorf("expected one segment ending at 1.5, got %+v", resp.Segments)
	}
	if gotModel != "small" || gotLang != "ko" {
		t.Errorf("unexpected form fields model=%q language=%q", gotModel, gotLang)
	}
	// 44-byte header plus 160 PCM16 samples.
	if len(gotAudio) != 44+320 || string(gotAudio[:4]) != "RIFF" {
		t.Errorf("unexpected WAV upload of %d bytes", len(gotAudio))
	}
}

func TestExecuteRequestOverrides(t *testing.T) {
	var gotModel string
	langSent := true
	p := newSidecar(t, Config{}, func(w http.ResponseWriter, r *http.Request) {
		gotModel = r.FormValue("model")
		_, langSent = r.MultipartForm.Value["language"]
		_, _ = w.Write([]byte(`{"text":""}`))
	})
	_, err := p.Execute(context.Background(), transcription.Request{
		Audio: audio.CanonicalAudio{Samples: []float32{0}, SampleRate: audio.SampleRate},
		Model: "large-v3",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotModel != "large-v3" {
		t.Errorf("expected request model to win, got %q", gotModel)
	}
	if langSent {
		t.Error("language must be left to the model when unset")
	}
}

func TestExecuteErrors(t *testing.T) {
	tests := []struct {
		name            string
		status          int
		body            string
		wantUnavailable bool
		wantMsg         string
	}{
		{"server error", http.StatusInternalServerError, "cuda oom", false, "status 500"},
		{"sidecar loading", http.StatusServiceUnavailable, "", true, "unavailable"},
		{"error field", http.StatusOK, `{"error":"decode failed"}`, false, "decode failed"},
		{"bad json", http.StatusOK, `<html>`, false, "decode whisper response"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := newSidecar(t, Config{}, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			})
			_, err := p.Execute(context.Background(), transcription.Request{
				Audio: audio.CanonicalAudio{Samples: []float32{0}, SampleRate: audio.SampleRate},
			})
			if err == nil || !strings.Contains(err.Error(), tc.wantMsg) {
				t.Fatalf("expected error containing %q, got %v", tc.wantMsg, err)
			}
			if provider.IsUnavailable(err) != tc.wantUnavailable {
				t.Errorf("IsUnavailable = %v, want %v", !tc.wantUnavailable, tc.wantUnavailable)
			}
		})
	}
}

func TestInit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	p := NewProvider(Config{URL: srv.URL})
	err := p.Init(context.Background())
	if !provider.IsUnavailable(err) {
		t.Errorf("expected unavailable error, got %v", err)
	}
	if p.IsAvailable(context.Background()) {
		t.Error("expected IsAvailable false")
	}
}

func TestFactory(t *testing.T) {
	p, err := Factory()(map[string]any{"url": "http://whisper:9000", "model": "tiny", "timeout": 5 * time.Second})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wp := p.(*Provider)
	if wp.cfg.URL != "http://whisper:9000" || wp.cfg.Model != "tiny" || wp.client.Timeout != 5*time.Second {
		t.Errorf("unexpected config %+v", wp.cfg)
	}
	if p.Name() != ProviderName {
		t.Errorf("unexpected name %q", p.Name())
	}
}
