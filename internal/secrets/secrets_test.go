// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "harvest-token"), []byte("tok-123\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other-key"), []byte("  value  "), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".hidden"), []byte("ignored"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "empty"), nil, 0o600))

	secrets, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "tok-123", secrets["harvest-token"])
	assert.Equal(t, "value", secrets["other-key"])
	assert.NotContains(t, secrets, ".hidden")
	assert.NotContains(t, secrets, "empty")
}

func TestLoadMissingDirectory(t *testing.T) {
	secrets, err := Load(filepath.Join(t.TempDir(), "no-such-dir"))
	require.NoError(t, err)
	assert.Empty(t, secrets)
}

func TestToken(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "harvest-token"), []byte("tok-456"), 0o600))

	token, err := Token(dir)
	require.NoError(t, err)
	assert.Equal(t, "tok-456", token)
}

func TestTokenNotConfigured(t *testing.T) {
	token, err := Token(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, token)
}
