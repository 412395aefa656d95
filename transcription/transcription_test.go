package transcription

import (
	"context"
	stderrors "errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/kbukum/soundguard/audio"
	"github.com/kbukum/soundguard/errors"
	"github.com/kbukum/soundguard/logger"
	"github.com/kbukum/soundguard/provider"
)

var speech = audio.CanonicalAudio{Samples: []float32{0.1, -0.1, 0.2}, SampleRate: audio.SampleRate}

func scripted(available bool, text string, err error) *provider.Func[Request, *Response] {
	return &provider.Func[Request, *Response]{
		ProviderName: "whisper",
		Available:    available,
		Fn: func(ctx context.Context, _ Request) (*Response, error) {
			if err != nil {
				return nil, err
			}
			return &Response{Text: text, Language: "ko"}, nil
		},
	}
}

func TestKeywordSetMatch(t *testing.T) {
	ks := NewKeywordSet(DefaultKeywords...)
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"repeated and mixed", "도와줘 도와줘 살려줘", []string{"도와줘", "살려줘"}},
		{"set order wins", "살려줘 위험해", []string{"위험해", "살려줘"}},
		{"substring inside sentence", "여기 너무 위험해요", []string{"위험해"}},
		{"no hit", "안녕하세요", []string{}},
		{"empty transcript", "", []string{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ks.Match(tc.text)
			if got == nil {
				t.Fatal("Match must never return nil")
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("Match(%q) = %v, want %v", tc.text, got, tc.want)
			}
		})
	}
}

func TestNewKeywordSetDedup(t *testing.T) {
	ks := NewKeywordSet("help", " help ", "", "fire", "help")
	if !reflect.DeepEqual(ks.Words(), []string{"help", "fire"}) {
		t.Errorf("unexpected words %v", ks.Words())
	}
	words := ks.Words()
	words[0] = "mutated"
	if ks.Words()[0] != "help" {
		t.Error("Words must return a copy")
	}
}

func TestTranscribe(t *testing.T) {
	tests := []struct {
		name      string
		backend   *provider.Func[Request, *Response]
		input     audio.CanonicalAudio
		wantCode  errors.ErrorCode
		wantText  string
		wantWords []string
	}{
		{
			name:      "keywords detected",
			backend:   scripted(true, " 도와줘 살려줘", nil),
			input:     speech,
			wantText:  "도와줘 살려줘",
			wantWords: []string{"도와줘", "살려줘"},
		},
		{
			name:      "silence is not an error",
			backend:   scripted(true, "", nil),
			input:     speech,
			wantText:  "",
			wantWords: []string{},
		},
		{
			name:     "not initialized",
			backend:  scripted(false, "x", nil),
			input:    speech,
			wantCode: errors.ErrCodeModelUnavailable,
		},
		{
			name:     "empty audio",
			backend:  scripted(true, "x", nil),
			input:    audio.CanonicalAudio{SampleRate: audio.SampleRate},
			wantCode: errors.ErrCodeEmptyAudio,
		},
		{
			name:     "backend failure",
			backend:  scripted(true, "", stderrors.New("status 500")),
			input:    speech,
			wantCode: errors.ErrCodeInferenceFailed,
		},
		{
			name:     "backend overloaded",
			backend:  scripted(true, "", fmt.Errorf("whisper: %w", provider.ErrRejected)),
			input:    speech,
			wantCode: errors.ErrCodeModelUnavailable,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tr := NewTranscriber(tc.backend, Config{}, NewKeywordSet(DefaultKeywords...), logger.NewNop())
			_ = tr.Init(context.Background())

			res, err := tr.Transcribe(context.Background(), tc.input)
			if tc.wantCode != "" {
				if !errors.HasCode(err, tc.wantCode) {
					t.Fatalf("expected %s, got %v", tc.wantCode, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res.Text != tc.wantText {
				t.Errorf("expected text %q, got %q", tc.wantText, res.Text)
			}
			if !reflect.DeepEqual(res.Keywords, tc.wantWords) {
				t.Errorf("expected keywords %v, got %v", tc.wantWords, res.Keywords)
			}
		})
	}
}

func TestTranscribeTimeout(t *testing.T) {
	backend := &provider.Func[Request, *Response]{
		ProviderName: "whisper",
		Available:    true,
		Fn: func(ctx context.Context, _ Request) (*Response, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}
	tr := NewTranscriber(backend, Config{Timeout: 20 * time.Millisecond}, NewKeywordSet(), logger.NewNop())
	if err := tr.Init(context.Background()); err != nil {
		t.Fatal(err)
	}
	_, err := tr.Transcribe(context.Background(), speech)
	if !errors.HasCode(err, errors.ErrCodeModelUnavailable) {
		t.Errorf("expected MODEL_UNAVAILABLE on timeout, got %v", err)
	}
}

func TestTranscriberHealth(t *testing.T) {
	tr := NewTranscriber(scripted(false, "", nil), Config{}, NewKeywordSet(), logger.NewNop())
	if tr.Health(context.Background()).Status != provider.StatusUnavailable {
		t.Error("expected unavailable before Init")
	}
	tr = NewTranscriber(scripted(true, "", nil), Config{}, NewKeywordSet(), logger.NewNop())
	_ = tr.Init(context.Background())
	if tr.Health(context.Background()).Status != provider.StatusHealthy {
		t.Error("expected healthy after Init")
	}
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if cfg.Backend != "whisper" || cfg.Timeout != 120*time.Second || cfg.Model == "" {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if cfg.FactoryConfig()["url"] != cfg.URL {
		t.Error("factory config should carry url")
	}
}
