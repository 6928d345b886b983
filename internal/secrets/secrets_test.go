// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSecret(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T) string
		want  Secrets
	}{
		{
			name: "trims values",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeSecret(t, dir, SearchToken, "  abc123 \n")
				return dir
			},
			want: Secrets{SearchToken: "abc123"},
		},
		{
			name: "missing directory is empty",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "absent")
			},
			want: Secrets{},
		},
		{
			name: "skips blank files, dotfiles and directories",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeSecret(t, dir, SearchToken, "tok")
				writeSecret(t, dir, "blank", " \n\t")
				writeSecret(t, dir, ".gitkeep", "x")
				require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o755))
				return dir
			},
			want: Secrets{SearchToken: "tok"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load(tt.setup(t), nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoad_NotADirectory(t *testing.T) {
	dir := t.TempDir()
	writeSecret(t, dir, "file", "x")

	_, err := Load(filepath.Join(dir, "file"), nil)
	assert.ErrorContains(t, err, "reading secrets directory")
}

func TestLoad_UnreadableFileWarns(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root can read any file")
	}
	dir := t.TempDir()
	writeSecret(t, dir, SearchToken, "tok")
	writeSecret(t, dir, "locked", "x")
	require.NoError(t, os.Chmod(filepath.Join(dir, "locked"), 0o000))

	var warn bytes.Buffer
	got, err := Load(dir, &warn)
	require.NoError(t, err)
	assert.Equal(t, Secrets{SearchToken: "tok"}, got)
	assert.Contains(t, warn.String(), "could not read secret locked")
}

func TestResolve(t *testing.T) {
	s := Secrets{SearchToken: "from-file"}

	assert.Equal(t, "from-env", s.Resolve(SearchToken, "from-env"))
	assert.Equal(t, "from-file", s.Resolve(SearchToken, ""))
	assert.Equal(t, "from-file", s.Resolve(SearchToken, "  "))
	assert.Equal(t, "", s.Resolve("other", ""))

	v, ok := s.Lookup(SearchToken)
	assert.True(t, ok)
	assert.Equal(t, "from-file", v)
}
