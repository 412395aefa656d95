package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kbukum/soundguard/component"
	"github.com/kbukum/soundguard/logger"
)

// DefaultStaleAfter is how old a leftover run directory must be before
// Start purges it.
const DefaultStaleAfter = time.Hour

// Component puts a Storage under lifecycle management. Start removes run
// directories a crashed process left behind and Health reports usage.
type Component struct {
	storage    Storage
	staleAfter time.Duration
	now        func() time.Time
	log        *logger.Logger
}

var _ component.Component = (*Component)(nil)

// NewComponent wraps s.
func NewComponent(s Storage, log *logger.Logger) *Component {
	return &Component{
		storage:    s,
		staleAfter: DefaultStaleAfter,
		now:        time.Now,
		log:        log.WithComponent("storage"),
	}
}

// Storage returns the wrapped backend.
func (c *Component) Storage() Storage { return c.storage }

func (c *Component) Name() string { return "scratch" }

// Start purges stale run directories. Only the top-level directory of
// each stale file is removed, so a live run is never touched unless it
// has been idle longer than staleAfter.
func (c *Component) Start(ctx context.Context) error {
	files, err := c.storage.List(ctx, "")
	if err != nil {
		return fmt.Errorf("scratch: list: %w", err)
	}
	cutoff := c.now().Add(-c.staleAfter)
	stale := make(map[string]bool)
	for _, f := range files {
		top, _, _ := strings.Cut(f.Path, "/")
		if f.LastModified.Before(cutoff) {
			stale[top] = true
		}
	}
	for dir := range stale {
		if err := c.storage.Delete(ctx, dir); err != nil {
			return fmt.Errorf("scratch: purge %s: %w", dir, err)
		}
	}
	if len(stale) > 0 {
		c.log.Warn("purged stale scratch directories", logger.Fields("count", len(stale)))
	}
	return nil
}

func (c *Component) Stop(context.Context) error { return nil }

// Health reports how many files are in the scratch area. A steadily
// growing count points at a leak.
func (c *Component) Health(ctx context.Context) component.Health {
	files, err := c.storage.List(ctx, "")
	if err != nil {
		return component.Health{Name: c.Name(), Status: component.StatusUnhealthy, Message: fmt.Sprintf("list failed: %v", err)}
	}
	return component.Health{
		Name:    c.Name(),
		Status:  component.StatusHealthy,
		Message: fmt.Sprintf("%d files in use", len(files)),
	}
}
