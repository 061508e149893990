package log_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/N3ro47/lockfree/std/log"
	"github.com/stretchr/testify/require"
)

type tag struct{}

func (tag) String() string { return "unit" }

func TestParseLevel(t *testing.T) {
	level, err := log.ParseLevel("debug")
	require.NoError(t, err)
	require.Equal(t, log.LevelDebug, level)
	require.Equal(t, "DEBUG", level.String())

	_, err = log.ParseLevel("LOUD")
	require.Error(t, err)
	require.Equal(t, "UNKNOWN", log.Level(3).String())
}

func TestJsonLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := log.NewJson(buf)

	logger.Debug(tag{}, "hidden")
	require.Zero(t, buf.Len())

	logger.Warn(tag{}, "visible", "count", 3)
	entry := map[string]any{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "WARN", entry["level"])
	require.Equal(t, "visible", entry["msg"])
	require.Equal(t, "unit", entry["tag"])
	require.Equal(t, float64(3), entry["count"])

	prev := logger.SetLevel(log.LevelTrace)
	require.Equal(t, log.LevelInfo, prev)
	require.True(t, logger.Enabled(log.LevelTrace))
}

func TestDefaultLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	prev := log.Default()
	defer log.SetDefault(prev)

	log.SetDefault(log.NewText(buf))
	log.Info(nil, "hello", "k", "v")
	require.Contains(t, buf.String(), "level=INFO")
	require.Contains(t, buf.String(), "msg=hello")
	require.Contains(t, buf.String(), "k=v")
	require.False(t, log.HasTrace())
}
