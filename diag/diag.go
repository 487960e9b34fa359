package diag

import (
	"log/slog"
	"sync"
)

// Sink routes validation diagnostics to a structured logger. A Sink can be
// silenced for the duration of a probe; silencing nests, so concurrent or
// reentrant probes each balance their own restore.
type Sink struct {
	mu     sync.Mutex
	logger *slog.Logger
	muted  int
}

// New returns a Sink writing through logger. A nil logger falls back to
// slog.Default at emit time.
func New(logger *slog.Logger) *Sink {
	return &Sink{logger: logger}
}

// defaultSink is the process-wide sink used by package-level validation
// helpers and by namespaces built without their own logger.
var defaultSink = New(nil)

// Default returns the process-wide sink.
func Default() *Sink {
	return defaultSink
}

// Warn emits one warning record unless the sink is silenced.
func (s *Sink) Warn(msg string, args ...any) {
	s.mu.Lock()
	muted := s.muted > 0
	logger := s.logger
	s.mu.Unlock()

	if muted {
		return
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger.Warn(msg, args...)
}

// Silence suspends the sink and returns a restore function. The restore
// function is idempotent and must be called, typically via defer, so the sink
// is re-enabled even when the silenced check panics.
func (s *Sink) Silence() func() {
	s.mu.Lock()
	s.muted++
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			if s.muted > 0 {
				s.muted--
			}
			s.mu.Unlock()
		})
	}
}

// Silenced reports whether the sink is currently suspended.
func (s *Sink) Silenced() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.muted > 0
}

// SetLogger replaces the sink's logger. Passing nil reverts to slog.Default.
func (s *Sink) SetLogger(logger *slog.Logger) {
	s.mu.Lock()
	s.logger = logger
	s.mu.Unlock()
}
