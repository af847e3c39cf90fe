package helper

import (
	"bytes"
	"context"
	"log/slog"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPrettyHandler(t *testing.T) {
	t.Run("Create PrettyHandler with default options", func(t *testing.T) {
		var buf bytes.Buffer
		handler := NewPrettyHandler(&buf, PrettyHandlerOptions{})

		require.NotNil(t, handler, "Expected NewPrettyHandler to return a non-nil handler")
		assert.NotNil(t, handler.Handler, "Expected handler to have a non-nil Handler field")
		assert.NotNil(t, handler.l, "Expected handler to have a non-nil logger field")
	})

	t.Run("Level option filters records", func(t *testing.T) {
		var buf bytes.Buffer
		handler := NewPrettyHandler(&buf, PrettyHandlerOptions{
			SlogOpts: slog.HandlerOptions{Level: slog.LevelWarn},
		})

		assert.False(t, handler.Enabled(context.Background(), slog.LevelInfo), "Expected info to be disabled")
		assert.True(t, handler.Enabled(context.Background(), slog.LevelError), "Expected error to be enabled")
	})
}

func TestPrettyHandlerHandle(t *testing.T) {
	ctx := context.Background()

	levels := []struct {
		level  slog.Level
		prefix string
	}{
		{slog.LevelDebug, "DEBUG:"},
		{slog.LevelInfo, "INFO:"},
		{slog.LevelWarn, "WARN:"},
		{slog.LevelError, "ERROR:"},
	}

	for _, l := range levels {
		t.Run("Handle "+l.prefix+" level log", func(t *testing.T) {
			var buf bytes.Buffer
			handler := NewPrettyHandler(&buf, PrettyHandlerOptions{
				SlogOpts: slog.HandlerOptions{Level: slog.LevelDebug},
			})

			record := slog.NewRecord(time.Now(), l.level, "resolved combination", 0)
			record.AddAttrs(slog.String("word", "Steam"), slog.Int("count", 42))

			err := handler.Handle(ctx, record)
			assert.NoError(t, err, "Expected Handle to not return an error")

			output := buf.String()
			assert.Contains(t, output, l.prefix, "Expected output to contain the level")
			assert.Contains(t, output, "resolved combination", "Expected output to contain the message")
			assert.Contains(t, output, "Steam", "Expected output to contain attribute value")
			assert.Contains(t, output, "42", "Expected output to contain attribute value")
		})
	}

	t.Run("Handle log with no attributes", func(t *testing.T) {
		var buf bytes.Buffer
		handler := NewPrettyHandler(&buf, PrettyHandlerOptions{})

		record := slog.NewRecord(time.Now(), slog.LevelInfo, "simple message", 0)

		err := handler.Handle(ctx, record)
		assert.NoError(t, err)
		assert.Contains(t, buf.String(), "{}", "Expected output to contain empty JSON object for attributes")
	})

	t.Run("Handle log formats timestamp correctly", func(t *testing.T) {
		var buf bytes.Buffer
		handler := NewPrettyHandler(&buf, PrettyHandlerOptions{})

		record := slog.NewRecord(time.Date(2024, 1, 1, 13, 4, 5, 6_000_000, time.UTC), slog.LevelInfo, "time test", 0)

		err := handler.Handle(ctx, record)
		assert.NoError(t, err)
		assert.Regexp(t, regexp.MustCompile(`\[13:04:05\.006\]`), buf.String(), "Expected [HH:MM:SS.mmm] timestamp")
	})

	t.Run("WithAttrs keeps attributes on every record", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(NewPrettyHandler(&buf, PrettyHandlerOptions{})).With(slog.String("component", "ledger"))

		logger.Info("recorded occurrence", slog.String("label", "Mud"))

		output := buf.String()
		assert.Contains(t, output, "component")
		assert.Contains(t, output, "ledger")
		assert.Contains(t, output, "Mud")
		assert.NotContains(t, output, `"level"`, "Expected pretty output instead of the json handler")
	})
}
