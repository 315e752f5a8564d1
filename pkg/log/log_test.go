package log

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"WARN", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{" error ", zerolog.ErrorLevel},
		{"fatal", zerolog.FatalLevel},
		{"", zerolog.InfoLevel},
		{"nonsense", zerolog.InfoLevel},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, parseLevel(tc.in), "level %q", tc.in)
	}
}

func TestNew_IncludesServiceName(t *testing.T) {
	req := require.New(t)

	var buf bytes.Buffer
	logger := New(Config{Level: "info", ServiceName: "meet-relay"}).Output(&buf)
	logger.Info().Msg("hello")

	var entry map[string]interface{}
	req.NoError(json.Unmarshal(buf.Bytes(), &entry))
	req.Equal("meet-relay", entry[FieldService])
	req.Equal("hello", entry["message"])
}

func TestNew_FiltersBelowConfiguredLevel(t *testing.T) {
	req := require.New(t)

	var buf bytes.Buffer
	logger := New(Config{Level: "warn"}).Output(&buf)
	logger.Info().Msg("dropped")
	logger.Warn().Msg("kept")

	req.NotContains(buf.String(), "dropped")
	req.Contains(buf.String(), "kept")
}

func TestGlobalLoggerChainsDirectly(t *testing.T) {
	req := require.New(t)

	// Level methods have pointer receivers, so both accessors must hand
	// back a pointer that call sites can chain off in one expression.
	req.NotPanics(func() { L().Debug().Str("k", "v").Msg("chained") })
	req.NotPanics(func() { Ctx(context.Background()).Debug().Msg("chained") })
	req.Same(L(), Ctx(context.Background()))
}

func TestCtx_RoundTripsAndFallsBack(t *testing.T) {
	req := require.New(t)

	var buf bytes.Buffer
	logger := New(Config{Level: "debug"}).Output(&buf)

	ctx := WithLogger(context.Background(), logger)
	Ctx(ctx).Info().Msg("from context")
	req.Contains(buf.String(), "from context")

	// Without a stored logger the global one comes back.
	req.NotPanics(func() { Ctx(context.Background()).Debug().Msg("global") })
}
