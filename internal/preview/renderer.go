// Package preview renders the document into isolated preview surfaces.
//
// A render first resets the surface to an empty document and then writes the
// new one, so scripts and styles from an earlier render never leak into the
// next. Reset and write are two phases joined by a Token: a write carrying a
// token that a newer reset has superseded is dropped.
package preview

import (
	"errors"
	"sync"

	"codepad/internal/feedback"
)

var (
	// ErrStale is returned by CommitWrite when a newer reset superseded the token.
	ErrStale = errors.New("preview token superseded")
	// ErrNotReady is returned by a surface that cannot accept content yet.
	ErrNotReady = errors.New("preview surface not ready")
)

// Surface is a rendering target whose content is replaced as a whole.
type Surface interface {
	Reset() error
	Write(doc string) error
}

// Token identifies one render generation.
type Token uint64

// Renderer drives a Surface. All methods are safe for concurrent use.
type Renderer struct {
	mu      sync.Mutex
	surface Surface
	gen     uint64
	status  feedback.StatusSink
	logf    func(string, ...any)
}

// NewRenderer returns a renderer for s. status and logf may be nil.
func NewRenderer(s Surface, status feedback.StatusSink, logf func(string, ...any)) *Renderer {
	if status == nil {
		status = feedback.Discard
	}
	if logf == nil {
		logf = func(string, ...any) {}
	}
	return &Renderer{surface: s, status: status, logf: logf}
}

// BeginReset clears the surface and returns the token for the following
// write. Every call invalidates all earlier tokens, even when the reset
// itself fails.
func (r *Renderer) BeginReset() (Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gen++
	return Token(r.gen), r.surface.Reset()
}

// CommitWrite writes text if tok is still current.
func (r *Renderer) CommitWrite(tok Token, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if uint64(tok) != r.gen {
		return ErrStale
	}
	return r.surface.Write(text)
}

// writeDirect writes without a reset. It supersedes any outstanding token.
func (r *Renderer) writeDirect(text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gen++
	return r.surface.Write(text)
}

// Render replaces the preview with sourceText. It never fails: when the
// reset-then-write path fails the renderer retries once with a direct write,
// and if that fails too it reports a status and gives up.
func (r *Renderer) Render(sourceText string) {
	r.status.SetStatus("Updating preview...", feedback.Busy)

	tok, err := r.BeginReset()
	if err == nil {
		err = r.CommitWrite(tok, sourceText)
		if errors.Is(err, ErrStale) {
			// A newer render owns the surface now.
			return
		}
	}
	if err != nil {
		r.logf("preview update: %v", err)
		if ferr := r.writeDirect(sourceText); ferr != nil {
			r.logf("fallback preview update failed: %v", ferr)
			r.status.SetStatus("Preview update failed", feedback.Failed)
			return
		}
	}
	r.status.SetStatus("Preview updated", feedback.Done)
}

// Fanout forwards to several surfaces. Members that are not ready are
// skipped; the call fails with ErrNotReady only when no member was ready.
type Fanout []Surface

func (f Fanout) Reset() error {
	return f.each(func(s Surface) error { return s.Reset() })
}

func (f Fanout) Write(doc string) error {
	return f.each(func(s Surface) error { return s.Write(doc) })
}

func (f Fanout) each(fn func(Surface) error) error {
	var errs []error
	ready := 0
	for _, s := range f {
		err := fn(s)
		if errors.Is(err, ErrNotReady) {
			continue
		}
		ready++
		if err != nil {
			errs = append(errs, err)
		}
	}
	if ready == 0 && len(f) > 0 {
		return ErrNotReady
	}
	return errors.Join(errs...)
}
