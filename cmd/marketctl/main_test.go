// AngelaMos | 2026
// main_test.go

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeysGenerate(t *testing.T) {
	dir := t.TempDir()
	priv := filepath.Join(dir, "nested", "private.pem")
	pub := filepath.Join(dir, "nested", "public.pem")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"keys", "generate", "--private", priv, "--public", pub})
	require.NoError(t, rootCmd.Execute())

	assert.Contains(t, out.String(), "wrote")

	info, err := os.Stat(priv)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	body, err := os.ReadFile(pub)
	require.NoError(t, err)
	assert.Contains(t, string(body), "PUBLIC KEY")
}

func TestCreateAdminValidatesBeforeConnecting(t *testing.T) {
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"create-admin", "--username", "root", "--password", "short"})

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "password must be at least 8 characters")
}

func TestApproveNeedsArguments(t *testing.T) {
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"approve"})

	assert.Error(t, rootCmd.Execute())
}
