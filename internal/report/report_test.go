package report

import (
	"strings"
	"sync"
	"testing"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestReporterCollectsWarnings(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	r := New(zap.New(core))

	if r.Err() != nil {
		t.Error("expected nil error with no warnings")
	}

	r.Warn("unplaceable texture", zap.Int("parent", 3))
	r.Warn("bump image size mismatch", zap.String("texture", "wall.png"))

	if r.Count() != 2 {
		t.Errorf("expected 2 warnings, got %d", r.Count())
	}
	if logs.Len() != 2 {
		t.Errorf("expected 2 logged entries, got %d", logs.Len())
	}

	warnings := r.Warnings()
	if warnings[0].Message != "unplaceable texture" {
		t.Errorf("expected first warning message, got %q", warnings[0].Message)
	}
	if got := warnings[1].String(); got != "bump image size mismatch texture=wall.png" {
		t.Errorf("unexpected rendering %q", got)
	}
	if !strings.Contains(warnings[0].String(), "parent=3") {
		t.Errorf("expected integer field in %q", warnings[0].String())
	}

	errs := multierr.Errors(r.Err())
	if len(errs) != 2 {
		t.Errorf("expected 2 combined errors, got %d", len(errs))
	}
}

func TestReporterConcurrentWarn(t *testing.T) {
	r := New(nil)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				r.Warn("degenerate uv")
			}
		}()
	}
	wg.Wait()

	if r.Count() != 800 {
		t.Errorf("expected 800 warnings, got %d", r.Count())
	}
}
