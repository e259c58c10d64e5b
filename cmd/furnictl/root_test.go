package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/furnistore/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCommand(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})

	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "Build version: ")
}

func TestShellHelp(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"shell", "-h"})

	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "-a string")
}

func TestShell_RunsUntilEOF(t *testing.T) {
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetIn(bytes.NewBufferString("help\nexit\n"))
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs([]string{"shell", "-a", "http://127.0.0.1:1", "-s", filepath.Join(t.TempDir(), "s.db")})

	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "Available commands:")
	assert.Contains(t, out.String(), "Bye!")
}

func TestLoadConfig_DefaultBackend(t *testing.T) {
	t.Setenv("FURNI_LOG_BACKEND", "")

	_, log, err := loadConfig(nil, logging.BackendZap, &bytes.Buffer{})
	require.NoError(t, err)
	assert.IsType(t, &logging.ZapLogger{}, log)

	_, _, err = loadConfig([]string{"-i", "zero"}, logging.BackendSlog, &bytes.Buffer{})
	require.Error(t, err)
}
