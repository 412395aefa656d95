package analysis

import (
	"context"
	stderrors "errors"
	"io"
	"path"

	"github.com/google/uuid"

	"github.com/kbukum/soundguard/errors"
	"github.com/kbukum/soundguard/storage"
)

// Workspace is one run's private scratch directory, <id>/ under the
// store. Files are named after the run id, never after the client's
// filename, so concurrent runs cannot collide.
type Workspace struct {
	store storage.Storage
	id    string
}

// NewWorkspace reserves a fresh workspace. Nothing touches disk until Save.
func NewWorkspace(store storage.Storage) *Workspace {
	return &Workspace{store: store, id: uuid.NewString()}
}

// ID returns the run id.
func (w *Workspace) ID() string { return w.id }

// Save writes body as <id>/<id>.<ext> and returns its filesystem path.
func (w *Workspace) Save(ctx context.Context, ext string, body io.Reader) (string, error) {
	key := path.Join(w.id, w.id+"."+ext)
	if _, err := w.store.Upload(ctx, key, body); err != nil {
		var tooLarge *storage.TooLargeError
		if stderrors.As(err, &tooLarge) {
			return "", errors.PayloadTooLarge(tooLarge.Limit).WithCause(err)
		}
		return "", errors.Internal(err)
	}
	p, err := w.store.LocalPath(key)
	if err != nil {
		return "", errors.Internal(err)
	}
	return p, nil
}

// Release removes the workspace and everything in it.
func (w *Workspace) Release(ctx context.Context) error {
	return w.store.Delete(ctx, w.id)
}
