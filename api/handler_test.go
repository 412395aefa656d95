package api

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/soundguard/analysis"
	"github.com/kbukum/soundguard/audio"
	"github.com/kbukum/soundguard/classification"
	"github.com/kbukum/soundguard/logger"
	"github.com/kbukum/soundguard/process"
	"github.com/kbukum/soundguard/provider"
	"github.com/kbukum/soundguard/server/middleware"
	"github.com/kbukum/soundguard/storage/local"
	"github.com/kbukum/soundguard/transcription"
)

func init() { gin.SetMode(gin.TestMode) }

const classMapCSV = "index,mid,display_name\n0,/m/09x0r,Speech\n1,/m/0838f,Water\n"

func newRouter(t *testing.T, transcript string, mw ...gin.HandlerFunc) *gin.Engine {
	t.Helper()
	log := logger.NewNop()

	classMap := filepath.Join(t.TempDir(), "class_map.csv")
	if err := os.WriteFile(classMap, []byte(classMapCSV), 0o600); err != nil {
		t.Fatal(err)
	}
	cls := &provider.Func[audio.CanonicalAudio, classification.ScoreMatrix]{
		ProviderName: "yamnet", Available: true,
		Fn: func(context.Context, audio.CanonicalAudio) (classification.ScoreMatrix, error) {
			return classification.ScoreMatrix{{0.2, 0.8}}, nil
		},
	}
	tr := &provider.Func[transcription.Request, *transcription.Response]{
		ProviderName: "whisper", Available: true,
		Fn: func(context.Context, transcription.Request) (*transcription.Response, error) {
			return &transcription.Response{Text: transcript}, nil
		},
	}
	ffmpeg := &provider.Func[process.Command, *process.Result]{
		ProviderName: "ffmpeg", Available: true,
		Fn: func(context.Context, process.Command) (*process.Result, error) {
			return &process.Result{ExitCode: 1}, nil
		},
	}

	rt := analysis.NewRuntime(
		classification.NewClassifier(cls, classification.Config{ClassMapPath: classMap}, log),
		transcription.NewTranscriber(tr, transcription.Config{}, transcription.NewKeywordSet(transcription.DefaultKeywords...), log),
		audio.NewTranscoder(ffmpeg, "ffmpeg", log),
		audio.NewDecoder(ffmpeg, "ffmpeg", log),
		log,
	)
	if err := rt.Init(context.Background()); err != nil {
		t.Fatal(err)
	}
	store, err := local.NewStorage(t.TempDir(), 1<<20)
	if err != nil {
		t.Fatal(err)
	}

	r := gin.New()
	r.Use(mw...)
	NewHandler(analysis.NewPipeline(rt, store, analysis.Config{}, log), log).Register(r)
	return r
}

func multipartBody(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if field != "" {
		fw, err := w.CreateFormFile(field, filename)
		if err != nil {
			t.Fatal(err)
		}
		_, _ = fw.Write(content)
	} else {
		_ = w.WriteField("note", "no file here")
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return &buf, w.FormDataContentType()
}

func wavBytes(t *testing.T) []byte {
	t.Helper()
	samples := make([]float32, 8000)
	for i := range samples {
		samples[i] = 0.1
	}
	var buf bytes.Buffer
	if err := audio.EncodeWAV(&buf, audio.CanonicalAudio{Samples: samples, SampleRate: audio.SampleRate}); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestUpload(t *testing.T) {
	wav := wavBytes(t)
	tests := []struct {
		name        string
		field       string
		filename    string
		content     []byte
		contentType string
		wantStatus  int
		check       func(t *testing.T, body map[string]any)
	}{
		{
			name: "wav succeeds", field: FileField, filename: "clip.wav", content: wav,
			wantStatus: http.StatusOK,
			check: func(t *testing.T, body map[string]any) {
				if body["sound_class"] != "Water" || body["transcription"] != "위험해 도와줘" {
					t.Errorf("unexpected body %v", body)
				}
				kw, _ := body["detected_keywords"].([]any)
				if len(kw) != 2 || kw[0] != "도와줘" || kw[1] != "위험해" {
					t.Errorf("unexpected keywords %v", body["detected_keywords"])
				}
			},
		},
		{
			name: "unsupported extension", field: FileField, filename: "notes.txt", content: []byte("hi"),
			wantStatus: http.StatusBadRequest,
			check:      wantCode("UNSUPPORTED_FORMAT"),
		},
		{
			name: "webm with failing ffmpeg", field: FileField, filename: "rec.webm", content: []byte{0x1a, 0x45, 0xdf, 0xa3},
			wantStatus: http.StatusUnprocessableEntity,
			check:      wantCode("TRANSCODE_FAILED"),
		},
		{
			name: "missing file field", field: "", wantStatus: http.StatusBadRequest,
			check: wantCode("MISSING_FIELD"),
		},
		{
			name: "not multipart", contentType: "application/json", wantStatus: http.StatusBadRequest,
			check: wantCode("MISSING_FIELD"),
		},
	}

	r := newRouter(t, " 위험해 도와줘 ")
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var body *bytes.Buffer
			ct := tc.contentType
			if ct == "" {
				body, ct = multipartBody(t, tc.field, tc.filename, tc.content)
			} else {
				body = bytes.NewBufferString(`{"file":"x"}`)
			}
			req := httptest.NewRequest(http.MethodPost, UploadPath, body)
			req.Header.Set("Content-Type", ct)
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, req)

			if rr.Code != tc.wantStatus {
				t.Fatalf("expected %d, got %d (%s)", tc.wantStatus, rr.Code, rr.Body.String())
			}
			var got map[string]any
			if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
				t.Fatalf("invalid JSON: %v", err)
			}
			tc.check(t, got)
		})
	}
}

func wantCode(code string) func(*testing.T, map[string]any) {
	return func(t *testing.T, body map[string]any) {
		t.Helper()
		if body["code"] != code {
			t.Errorf("expected code %s, got %v", code, body)
		}
		if msg, _ := body["error"].(string); msg == "" {
			t.Errorf("expected error message, got %v", body)
		}
	}
}

func TestUploadTooLarge(t *testing.T) {
	r := newRouter(t, "", middleware.BodySizeLimit("1KB"))
	body, ct := multipartBody(t, FileField, "big.wav", []byte(strings.Repeat("a", 4096)))
	req := httptest.NewRequest(http.MethodPost, UploadPath, body)
	req.Header.Set("Content-Type", ct)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", rr.Code)
	}
}

func TestUploadStreamedTooLarge(t *testing.T) {
	r := newRouter(t, "", middleware.BodySizeLimit("1KB"))
	body, ct := multipartBody(t, FileField, "big.wav", []byte(strings.Repeat("a", 4096)))
	req := httptest.NewRequest(http.MethodPost, UploadPath, body)
	req.Header.Set("Content-Type", ct)
	req.ContentLength = -1
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413 for chunked body, got %d (%s)", rr.Code, rr.Body.String())
	}
}
