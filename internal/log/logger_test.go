package log

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestLoggerStampsComponent(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Output: &buf, Level: slog.LevelInfo, Component: ComponentDataset})
	l.Info("loaded", FieldRows, 3)

	out := buf.String()
	if !strings.Contains(out, "component=dataset") {
		t.Fatalf("missing component in %q", out)
	}
	if !strings.Contains(out, "rows=3") {
		t.Fatalf("missing rows in %q", out)
	}

	buf.Reset()
	l.WithComponent(ComponentHTTP).Warn("slow")
	out = buf.String()
	if strings.Count(out, "component=") != 1 || !strings.Contains(out, "component=http") {
		t.Fatalf("unexpected component attrs in %q", out)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestFieldsBuilder(t *testing.T) {
	f := NewFields().WithError(nil).WithOperation(OpLoad)
	if _, ok := f[FieldError]; ok {
		t.Fatalf("nil error should not be recorded")
	}
	f.WithError(errors.New("boom"))
	if f[FieldError] != "boom" {
		t.Fatalf("error = %v", f[FieldError])
	}
	if len(f.ToSlice()) != 2*len(f) {
		t.Fatalf("slice length mismatch")
	}
}

func TestFromContext(t *testing.T) {
	l := Discard().WithComponent(ComponentCharts)
	ctx := NewContext(context.Background(), l)
	if got := FromContext(ctx); got.Component() != ComponentCharts {
		t.Fatalf("component = %q", got.Component())
	}
	if got := FromContext(context.Background()); got.Component() != "unknown" {
		t.Fatalf("fallback component = %q", got.Component())
	}
}
