package log

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf)
	ctx := logger.WithContext(context.Background())

	ctx = WithComponent(ctx, "history")
	FromCtx(ctx).Info().Msg("recorded")

	out := buf.String()
	if !strings.Contains(out, "recorded") {
		t.Errorf("expected message in output, got %q", out)
	}
	if !strings.Contains(out, "history") {
		t.Errorf("expected component in output, got %q", out)
	}
}

func TestFromCtx_WithoutLogger(t *testing.T) {
	l := FromCtx(context.Background())
	if l == nil {
		t.Fatal("expected a logger, got nil")
	}
	// Must not panic on a context without a logger.
	l.Info().Msg("dropped")
}
