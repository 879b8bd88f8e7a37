package commands

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCommand_PrintsVersion(t *testing.T) {
	for _, version := range []string{"0.1.0", "1.2.3", "dev"} {
		t.Run(version, func(t *testing.T) {
			var out bytes.Buffer
			cmd := NewVersionCommand(version)
			cmd.SetOut(&out)
			cmd.SetArgs([]string{})

			require.NoError(t, cmd.Execute())
			assert.Equal(t,
				"tablemgr v"+version+"\nPaginated table editor for the terminal and the browser\n",
				out.String())
		})
	}
}

func TestVersionCommand_WritesNothingToStderr(t *testing.T) {
	var out, errOut bytes.Buffer
	cmd := NewVersionCommand("0.1.0")
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs([]string{})

	require.NoError(t, cmd.Execute())
	assert.Empty(t, errOut.String())
	assert.Equal(t, "version", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
}
