package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/big"
)

// bigtool runs the CLI with an empty config file so the user's own config
// never leaks into tests.
func bigtool(t *testing.T, args ...string) (string, string, int) {
	t.Helper()
	cfg := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("{}\n"), 0o644))
	var stdout, stderr bytes.Buffer
	code := run(append([]string{"-config", cfg}, args...), &stdout, &stderr)
	return stdout.String(), stderr.String(), code
}

func packFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for rel, content := range map[string]string{
		"data/ini/object.ini": "Object Tank\nEnd\n",
		"readme.txt":          "hello",
	} {
		p := filepath.Join(dir, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	archive := filepath.Join(t.TempDir(), "fixture.big")
	_, stderr, code := bigtool(t, "pack", dir, archive)
	require.Equal(t, 0, code, stderr)
	return archive
}

func TestPackAndInspect(t *testing.T) {
	t.Parallel()

	archive := packFixture(t)

	out, _, code := bigtool(t, "dump", archive)
	require.Equal(t, 0, code)
	assert.Equal(t, "data\\ini\\object.ini\nreadme.txt\n", out)

	out, _, code = bigtool(t, "info", archive)
	require.Equal(t, 0, code)
	assert.Contains(t, out, "magic:       BIGF")
	assert.Contains(t, out, "entries:     2")

	out, _, code = bigtool(t, "cat", archive, "readme.txt")
	require.Equal(t, 0, code)
	assert.Equal(t, "hello", out)

	out, _, code = bigtool(t, "list", "-digest", archive)
	require.Equal(t, 0, code)
	assert.Contains(t, out, "sha256:2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824  readme.txt")

	out, _, code = bigtool(t, "search", archive, "Tank")
	require.Equal(t, 0, code)
	assert.Equal(t, "data\\ini\\object.ini\n1 matches in 1 files\n", out)

	out, _, code = bigtool(t, "dump", archive, "*.ini")
	require.Equal(t, 0, code)
	assert.Equal(t, "data\\ini\\object.ini\n", out)
}

func TestEditCommands(t *testing.T) {
	t.Parallel()

	for _, large := range []bool{false, true} {
		name := "memory"
		if large {
			name = "backed"
		}
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			archive := packFixture(t)
			var global []string
			if large {
				global = []string{"-large"}
			}
			cmd := func(args ...string) {
				t.Helper()
				_, stderr, code := bigtool(t, append(global, args...)...)
				require.Equal(t, 0, code, stderr)
			}

			src := filepath.Join(t.TempDir(), "weapon.ini")
			require.NoError(t, os.WriteFile(src, []byte("Weapon Gun"), 0o644))

			cmd("add", archive, "data/ini/weapon.ini", src)
			cmd("mv", archive, "readme.txt", `docs\readme.txt`)
			cmd("rm", archive, `data\ini\object.ini`)

			a, err := big.Open(archive, big.ModeMemory)
			require.NoError(t, err)
			assert.Equal(t, []string{`docs\readme.txt`, `data\ini\weapon.ini`}, a.Names())
			got, err := a.ReadFile(`data\ini\weapon.ini`)
			require.NoError(t, err)
			assert.Equal(t, "Weapon Gun", string(got))
		})
	}
}

func TestExtractCommand(t *testing.T) {
	t.Parallel()

	archive := packFixture(t)
	dir := t.TempDir()
	out, stderr, code := bigtool(t, "extract", "-workers", "1", archive, dir)
	require.Equal(t, 0, code, stderr)
	assert.True(t, strings.HasPrefix(out, "extracted 2 files"))

	got, err := os.ReadFile(filepath.Join(dir, "data", "ini", "object.ini"))
	require.NoError(t, err)
	assert.Equal(t, "Object Tank\nEnd\n", string(got))
}

func TestUsageErrors(t *testing.T) {
	t.Parallel()

	_, _, code := bigtool(t)
	assert.Equal(t, 2, code)

	_, stderr, code := bigtool(t, "frobnicate")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, `unknown command "frobnicate"`)

	_, _, code = bigtool(t, "cat", "only-archive.big")
	assert.Equal(t, 2, code)

	_, stderr, code = bigtool(t, "cat", filepath.Join(t.TempDir(), "missing.big"), "x")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "bigtool cat:")
}

func TestDumpFilters(t *testing.T) {
	t.Parallel()

	archive := packFixture(t)
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"glob ignore case", []string{"-i", archive, "*.TXT"}, "readme.txt\n"},
		{"glob invert", []string{"-invert", archive, "*.ini"}, "readme.txt\n"},
		{"regex", []string{"-regex", archive, `ini\\obj`}, "data\\ini\\object.ini\n"},
		{"regex invert ignore case", []string{"-regex", "-i", "-invert", archive, "^DATA"}, "readme.txt\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			out, stderr, code := bigtool(t, append([]string{"dump"}, tt.args...)...)
			require.Equal(t, 0, code, stderr)
			assert.Equal(t, tt.want, out)
		})
	}

	_, _, code := bigtool(t, "dump", "-regex", archive, "(")
	assert.NotEqual(t, 0, code)
}

func TestConfigMagicReachesPack(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("hello"), 0o644))
	cfg := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("magic: BIG4\n"), 0o644))
	archive := filepath.Join(t.TempDir(), "big4.big")

	var stdout, stderr bytes.Buffer
	code := run([]string{"-config", cfg, "pack", dir, archive}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	out, _, code := bigtool(t, "info", archive)
	require.Equal(t, 0, code)
	assert.Contains(t, out, "magic:       BIG4")
}
