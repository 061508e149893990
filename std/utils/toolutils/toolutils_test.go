package toolutils_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/N3ro47/lockfree/std/utils/toolutils"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Core struct {
		LogLevel string `json:"log_level"`
	} `json:"core"`
	Count int `json:"count"`
}

func TestReadYaml(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "good.yml")
	require.NoError(t, os.WriteFile(good, []byte("core:\n  log_level: DEBUG\ncount: 3\n"), 0o644))
	var s sample
	require.NoError(t, toolutils.ReadYaml(&s, good))
	require.Equal(t, "DEBUG", s.Core.LogLevel)
	require.Equal(t, 3, s.Count)

	unknown := filepath.Join(dir, "unknown.yml")
	require.NoError(t, os.WriteFile(unknown, []byte("colour: red\n"), 0o644))
	require.Error(t, toolutils.ReadYaml(&s, unknown))

	require.Error(t, toolutils.ReadYaml(&s, filepath.Join(dir, "missing.yml")))
}

func TestStatusPrinter(t *testing.T) {
	var buf bytes.Buffer
	p := toolutils.StatusPrinter{File: &buf, Padding: 6}
	p.Print("impl", "twolock")
	p.Print("toolongkey", 1)
	require.Equal(t, "  impl=twolock\ntoolongkey=1\n", buf.String())
}
