package pipe

import (
	"sync"

	"go.uber.org/zap"
)

// Warnings collects the reasons behind absorbed faults. It replaces a
// process-wide warning stream with an injectable collector: every combinator
// built with WithWarnings reports through the same instance, and chains can
// inspect what was suppressed after the fact.
type Warnings struct {
	mu      sync.Mutex
	logger  *zap.Logger
	reasons []error
}

// NewWarnings builds a collector logging through logger; nil means no
// logging, only collection.
func NewWarnings(logger *zap.Logger) *Warnings {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Warnings{logger: logger}
}

// Warn records one absorbed fault and logs it at warn level.
func (w *Warnings) Warn(err error) {
	if err == nil {
		return
	}
	w.mu.Lock()
	w.reasons = append(w.reasons, err)
	w.mu.Unlock()
	w.logger.Warn("returning no value instead of fault", zap.Error(err))
}

// Count returns the number of absorbed faults so far.
func (w *Warnings) Count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.reasons)
}

// Reasons returns a snapshot of the absorbed fault reasons.
func (w *Warnings) Reasons() []error {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]error, len(w.reasons))
	copy(out, w.reasons)
	return out
}

// Reset clears the collected reasons.
func (w *Warnings) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.reasons = nil
}
