package local

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kbukum/soundguard/logger"
	"github.com/kbukum/soundguard/storage"
)

func newStore(t *testing.T, maxSize int64) *Storage {
	t.Helper()
	s, err := NewStorage(t.TempDir(), maxSize)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestUploadAndList(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, 0)

	n, err := s.Upload(ctx, "req-1/req-1.wav", strings.NewReader("RIFF"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if n != 4 {
		t.Errorf("expected 4 bytes, got %d", n)
	}
	if _, err := s.Upload(ctx, "req-2/req-2.webm", strings.NewReader("webm")); err != nil {
		t.Fatal(err)
	}

	files, err := s.List(ctx, "req-1/")
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 || files[0].Path != "req-1/req-1.wav" || files[0].Size != 4 {
		t.Errorf("unexpected listing %+v", files)
	}
	all, _ := s.List(ctx, "")
	if len(all) != 2 {
		t.Errorf("expected 2 files, got %d", len(all))
	}
}

func TestUploadTooLarge(t *testing.T) {
	s := newStore(t, 3)
	_, err := s.Upload(context.Background(), "a/a.wav", strings.NewReader("abcd"))
	if !stderrors.Is(err, storage.ErrTooLarge) {
		t.Errorf("expected ErrTooLarge, got %v", err)
	}
	var tooLarge *storage.TooLargeError
	if !stderrors.As(err, &tooLarge) || tooLarge.Limit != 3 {
		t.Errorf("expected the limit to be reported, got %v", err)
	}
	if _, err := s.Upload(context.Background(), "b/b.wav", strings.NewReader("abc")); err != nil {
		t.Errorf("upload at the limit should succeed: %v", err)
	}
}

func TestDeleteDirectory(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, 0)
	_, _ = s.Upload(ctx, "run/in.webm", strings.NewReader("x"))
	_, _ = s.Upload(ctx, "run/in.wav", strings.NewReader("y"))

	if err := s.Delete(ctx, "run"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	ok, err := s.Exists(ctx, "run")
	if err != nil || ok {
		t.Errorf("expected directory gone, exists=%v err=%v", ok, err)
	}
	if err := s.Delete(ctx, "run"); err != nil {
		t.Errorf("deleting a missing key should succeed: %v", err)
	}
}

func TestDeleteRefusesBase(t *testing.T) {
	s := newStore(t, 0)
	for _, key := range []string{"", ".", "/"} {
		if err := s.Delete(context.Background(), key); !stderrors.Is(err, storage.ErrInvalidPath) {
			t.Errorf("Delete(%q) = %v, want ErrInvalidPath", key, err)
		}
	}
	if _, err := os.Stat(s.BasePath()); err != nil {
		t.Errorf("base directory must survive: %v", err)
	}
}

func TestLocalPathStaysInBase(t *testing.T) {
	s := newStore(t, 0)
	tests := []struct {
		key  string
		want string
	}{
		{"a/b.wav", filepath.Join(s.BasePath(), "a", "b.wav")},
		{"../../etc/passwd", filepath.Join(s.BasePath(), "etc", "passwd")},
		{"/abs/x", filepath.Join(s.BasePath(), "abs", "x")},
	}
	for _, tc := range tests {
		got, err := s.LocalPath(tc.key)
		if err != nil {
			t.Errorf("LocalPath(%q): %v", tc.key, err)
			continue
		}
		if got != tc.want {
			t.Errorf("LocalPath(%q) = %q, want %q", tc.key, got, tc.want)
		}
	}
}

func TestFactoryRegistered(t *testing.T) {
	s, err := storage.New(storage.Config{BasePath: t.TempDir()}, logger.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, ok := s.(*Storage); !ok {
		t.Errorf("expected *local.Storage, got %T", s)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     storage.Config
		wantErr bool
	}{
		{"local", storage.Config{Provider: "local", BasePath: "/tmp/x"}, false},
		{"root base", storage.Config{Provider: "local", BasePath: "/"}, true},
		{"unknown", storage.Config{Provider: "s3", BasePath: "/tmp/x"}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.cfg.Validate(); (err != nil) != tc.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}
