// Package commands_test provides tests for CLI command creation.
package commands

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
)

func TestCommandMetadata(t *testing.T) {
	tests := []struct {
		cmd   *cobra.Command
		use   string
		flags []string
	}{
		{cmd: NewEditCommand(), use: "edit [file]", flags: []string{"export"}},
		{cmd: NewShellCommand(), use: "shell [file]"},
		{cmd: NewServeCommand(), use: "serve [file]", flags: []string{"addr", "watch"}},
		{cmd: NewShowCommand(), use: "show <file>", flags: []string{"search", "page", "hide"}},
		{cmd: NewConvertCommand(), use: "convert <in> <out>"},
		{cmd: NewThemeCommand(), use: "theme [light|dark|toggle]"},
	}

	for _, tt := range tests {
		t.Run(tt.use, func(t *testing.T) {
			assert.Equal(t, tt.use, tt.cmd.Use)
			assert.NotEmpty(t, tt.cmd.Short, "Short should not be empty")
			assert.NotEmpty(t, tt.cmd.Long, "Long should not be empty")
			assert.NotEmpty(t, tt.cmd.Example, "Example should not be empty")
			for _, flag := range tt.flags {
				assert.NotNil(t, tt.cmd.Flags().Lookup(flag), "flag %q should exist", flag)
			}
		})
	}
}

func TestShowCommandArgs(t *testing.T) {
	cmd := NewShowCommand()

	assert.Error(t, cmd.Args(cmd, nil), "show needs a file")
	assert.NoError(t, cmd.Args(cmd, []string{"people.csv"}))
	assert.Error(t, cmd.Args(cmd, []string{"a.csv", "b.csv"}))
}

func TestThemeCommandArgs(t *testing.T) {
	cmd := NewThemeCommand()

	assert.NoError(t, cmd.Args(cmd, nil))
	assert.NoError(t, cmd.Args(cmd, []string{"dark"}))
	assert.NoError(t, cmd.Args(cmd, []string{"toggle"}))
	assert.Error(t, cmd.Args(cmd, []string{"purple"}))
}

func TestOptionalArg(t *testing.T) {
	assert.Equal(t, "", optionalArg(nil))
	assert.Equal(t, "a.csv", optionalArg([]string{"a.csv"}))
}
