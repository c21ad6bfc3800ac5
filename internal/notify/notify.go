// Package notify delivers short (title, message) reports to the user.
// Delivery is fire-and-forget: sinks never return errors and a failing sink
// cannot interrupt the caller.
package notify

import (
	"log/slog"
)

// Sink reports a titled message to the user.
type Sink interface {
	Notify(title, message string)
}

// Func adapts a function to the Sink interface.
type Func func(title, message string)

// Notify calls f.
func (f Func) Notify(title, message string) { f(title, message) }

// Nop discards every notification.
type Nop struct{}

// Notify does nothing.
func (Nop) Notify(string, string) {}

// Multi fans a notification out to several sinks in order. A panic in one
// sink is recovered and logged; the remaining sinks still run.
type Multi struct {
	sinks  []Sink
	logger *slog.Logger
}

// NewMulti creates a Multi over sinks. Nil sinks are skipped.
func NewMulti(logger *slog.Logger, sinks ...Sink) *Multi {
	if logger == nil {
		logger = slog.Default()
	}

	m := &Multi{logger: logger}

	for _, s := range sinks {
		if s != nil {
			m.sinks = append(m.sinks, s)
		}
	}

	return m
}

// Notify delivers to every sink.
func (m *Multi) Notify(title, message string) {
	for _, s := range m.sinks {
		m.deliver(s, title, message)
	}
}

func (m *Multi) deliver(s Sink, title, message string) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("notification sink panicked",
				slog.String("title", title),
				slog.Any("error", r),
			)
		}
	}()

	s.Notify(title, message)
}
