package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVersion(t *testing.T) {
	var out bytes.Buffer
	CmdLfq.SetOut(&out)
	CmdLfq.SetArgs([]string{"version"})
	require.NoError(t, CmdLfq.Execute())
	require.Equal(t, "lfq unknown\n", out.String())
}

func TestStressNeedsConfig(t *testing.T) {
	CmdLfq.SetOut(&bytes.Buffer{})
	CmdLfq.SetErr(&bytes.Buffer{})
	CmdLfq.SetArgs([]string{"stress"})
	require.Error(t, CmdLfq.Execute())
}
