// Package progress renders a decorative progress bar with an ETA while a
// sequential loop runs. Display failures never affect the wrapped work.
package progress

import (
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
)

// Option configures ForEach.
type Option[T any] func(*settings[T])

type settings[T any] struct {
	describe func(T) string
}

// WithDescribe sets a per-item description shown next to the bar.
func WithDescribe[T any](describe func(T) string) Option[T] {
	return func(s *settings[T]) { s.describe = describe }
}

// ForEach invokes fn for each item in order, drawing a progress bar with a
// linear ETA on stderr. The first error from fn stops the loop and is
// returned; bar rendering errors are ignored.
func ForEach[T any](items []T, fn func(T) error, opts ...Option[T]) error {
	var s settings[T]
	for _, opt := range opts {
		opt(&s)
	}
	bar := progressbar.NewOptions(len(items),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
	)
	for _, item := range items {
		if s.describe != nil {
			bar.Describe(s.describe(item))
		}
		if err := fn(item); err != nil {
			return err
		}
		_ = bar.Add(1)
	}
	_ = bar.Finish()
	return nil
}
