// Package report collects the data-quality warnings raised while compiling a
// level. Warnings never abort a compile; they are shown to the user at the end.
package report

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Warning is one recorded diagnostic.
type Warning struct {
	Message string
	Fields  []zap.Field
}

// String renders the warning with its fields.
func (w Warning) String() string {
	if len(w.Fields) == 0 {
		return w.Message
	}
	s := w.Message
	for _, f := range w.Fields {
		s += fmt.Sprintf(" %s=%v", f.Key, fieldValue(f))
	}
	return s
}

func fieldValue(f zap.Field) any {
	switch {
	case f.String != "":
		return f.String
	case f.Interface != nil:
		return f.Interface
	default:
		return f.Integer
	}
}

// Reporter logs warnings and keeps them for the end-of-compile summary.
// It is safe for concurrent use.
type Reporter struct {
	log      *zap.Logger
	mu       sync.Mutex
	warnings []Warning
}

// New creates a reporter that logs through log. A nil logger discards output.
func New(log *zap.Logger) *Reporter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Reporter{log: log}
}

// Warn records a warning.
func (r *Reporter) Warn(msg string, fields ...zap.Field) {
	r.log.Warn(msg, fields...)

	r.mu.Lock()
	r.warnings = append(r.warnings, Warning{Message: msg, Fields: fields})
	r.mu.Unlock()
}

// Count returns the number of recorded warnings.
func (r *Reporter) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.warnings)
}

// Warnings returns a copy of the recorded warnings in order.
func (r *Reporter) Warnings() []Warning {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Warning, len(r.warnings))
	copy(out, r.warnings)
	return out
}

// Err combines all warnings into one error, or returns nil when there are none.
func (r *Reporter) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var err error
	for _, w := range r.warnings {
		err = multierr.Append(err, errors.New(w.String()))
	}
	return err
}
