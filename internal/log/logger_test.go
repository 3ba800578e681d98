package log

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	return rec
}

func TestLogger_TagsComponent(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelInfo, Component: ComponentSession, JSON: true, Output: &buf})

	l.Info("expense added", FieldIndex, 3)

	rec := decode(t, &buf)
	assert.Equal(t, "expense added", rec["msg"])
	assert.Equal(t, ComponentSession, rec[FieldComponent])
	assert.Equal(t, float64(3), rec[FieldIndex])
}

func TestLogger_WithComponentAndOperation(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Component: ComponentApp, JSON: true, Output: &buf}).
		WithComponent(ComponentStorage).
		WithOperation(OpSave)

	l.Warn("slow write")

	rec := decode(t, &buf)
	assert.Equal(t, ComponentStorage, rec[FieldComponent])
	assert.Equal(t, OpSave, rec[FieldOperation])
	assert.Equal(t, ComponentStorage, l.Component())
}

func TestLogger_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelWarn, Component: ComponentApp, Output: &buf})

	l.Info("hidden")
	l.Debug("hidden")
	assert.Zero(t, buf.Len())

	l.Error("shown")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "component=app")
}

func TestDiscard(t *testing.T) {
	assert.NotPanics(t, func() { Discard().Error("nothing") })
}

func TestLogFields(t *testing.T) {
	fields := NewFields().
		WithOperation(OpAdd).
		WithSlot(2, "Rent").
		WithResult(50000, 35667.18).
		WithError(errors.New("boom")).
		WithError(nil)

	assert.Equal(t, OpAdd, fields[FieldOperation])
	assert.Equal(t, 2, fields[FieldIndex])
	assert.Equal(t, "Rent", fields[FieldLabel])
	assert.Equal(t, 50000.0, fields[FieldSalary])
	assert.Equal(t, "boom", fields[FieldError])
	assert.Len(t, fields.ToSlice(), len(fields)*2)
}
