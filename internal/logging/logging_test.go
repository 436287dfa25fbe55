package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultLoggerSilent(t *testing.T) {
	l := Logger()
	for _, level := range []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError} {
		assert.False(t, l.Enabled(context.Background(), level), "level %v", level)
	}
}

func TestSetAndRestore(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { Set(orig) })

	var buf bytes.Buffer
	custom := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	Set(custom)
	assert.Same(t, custom, Logger())

	Logger().Debug("filter failed", "rule", "roads")
	assert.Contains(t, buf.String(), "filter failed")

	Set(nil)
	assert.False(t, Logger().Enabled(context.Background(), slog.LevelError))
}
