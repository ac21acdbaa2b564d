package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestInitWriter(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(Config{Level: "warn"}, &buf)
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.TraceLevel) })

	Info().Msg("hidden")
	Warn().Str("k", "v").Msg("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"k":"v"`)
	assert.Contains(t, out, `"level":"warn"`)
}

func TestCtxFallsBack(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(Config{Level: "info"}, &buf)

	Ctx(context.Background()).Info().Msg("global")
	assert.Contains(t, buf.String(), "global")

	var scoped bytes.Buffer
	ctx := WithContext(context.Background(), zerolog.New(&scoped))
	Ctx(ctx).Info().Msg("scoped")
	assert.Contains(t, scoped.String(), "scoped")
}
