package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSlogAdapter_WithNil(t *testing.T) {
	adapter := NewSlogAdapter(nil)
	require.NotNil(t, adapter)
	assert.NotNil(t, adapter.Logger())
}

func TestSlogAdapter_With(t *testing.T) {
	var buf bytes.Buffer
	adapter := NewSlogAdapter(slog.New(slog.NewTextHandler(&buf, nil)))

	adapter.With(KeyBoard, "School").Info("resolved")
	assert.Contains(t, buf.String(), "board=School")
	assert.Contains(t, buf.String(), "resolved")
}

func TestDiscard(t *testing.T) {
	// Should not panic
	d := Discard()
	d.Debug("x")
	d.Info("x")
	d.Warn("x")
	d.Error("x")
}

func TestOrDiscard(t *testing.T) {
	assert.NotNil(t, OrDiscard(nil))

	a := NewSlogAdapter(slog.Default())
	assert.Same(t, a, OrDiscard(a))
}

func TestLoggerInterface(t *testing.T) {
	var _ Logger = (*SlogAdapter)(nil)
}
