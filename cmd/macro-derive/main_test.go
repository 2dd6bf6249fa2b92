package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"macro-derive/internal/config"
)

const source = `#[macro_derive(Debug)]
struct S<T> {
    f: Wrap![T],
}
`

const expanded = `#[doc(hidden)]
type __TypeMacroAlias1<T> = Wrap![T];
#[derive(Debug)]
struct S<T> {
    f: __TypeMacroAlias1<T>,
}
`

// run executes the CLI in a fresh working directory.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cli := &CLI{Globals: Globals{Stdout: &stdout, Stderr: &stderr}}

	parser, err := newParser(cli)
	require.NoError(t, err)

	ctx, err := parser.Parse(args)
	if err != nil {
		return "", err
	}

	err = ctx.Run()

	return stdout.String(), err
}

func writeSource(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func TestVersion(t *testing.T) {
	chdir(t, t.TempDir())

	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "0.3.0")
}

func TestVersionInfo(t *testing.T) {
	tests := []struct {
		name   string
		info   versionInfo
		str    string
		semver string
	}{
		{"tagged install", versionInfo{base: "0.3.0", module: "v0.3.1"}, "v0.3.1", "v0.3.1"},
		{"checkout", versionInfo{base: "0.3.0", revision: "abc1234"}, "devel-0.3.0+abc1234", "0.3.0"},
		{"dirty checkout", versionInfo{base: "0.3.0", revision: "abc1234", dirty: true}, "devel-0.3.0+abc1234.dirty", "0.3.0"},
		{"no build info", versionInfo{base: "0.3.0"}, "devel-0.3.0", "0.3.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.str, tt.info.String())
			assert.Equal(t, tt.semver, tt.info.Semver())
		})
	}
}

func TestExpand_Stdout(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	a := writeSource(t, dir, "a.rs", source)
	b := writeSource(t, dir, "b.rs", "fn main() {}\n")

	out, err := run(t, "expand", "--stable-names", a, b)
	require.NoError(t, err)
	assert.Equal(t, expanded+"fn main() {}\n", out)
}

func TestExpand_InPlace(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	path := writeSource(t, dir, "lib.rs", source)

	out, err := run(t, "expand", "--stable-names", "--in-place", path)
	require.NoError(t, err)
	assert.Empty(t, out)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, expanded, string(got))
}

func TestExpand_OutDir(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	path := writeSource(t, dir, "lib.rs", source)
	outDir := filepath.Join(dir, "gen")

	_, err := run(t, "expand", "--stable-names", "-o", outDir, path)
	require.NoError(t, err)

	got, err := os.ReadFile(filepath.Join(outDir, "lib.rs"))
	require.NoError(t, err)
	assert.Equal(t, expanded, string(got))

	orig, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, source, string(orig))
}

func TestExpand_OutAndInPlaceConflict(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	path := writeSource(t, dir, "lib.rs", source)

	_, err := run(t, "expand", "--in-place", "-o", dir, path)
	require.Error(t, err)
}

func TestExpand_WatchInPlaceRefusedBeforeWriting(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	path := writeSource(t, dir, "lib.rs", source)

	_, err := run(t, "expand", "--stable-names", "--in-place", "--watch", path)
	require.EqualError(t, err, "--watch cannot be combined with --in-place")

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, source, string(got))
}

func TestExpand_FailureWritesNothing(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	good := writeSource(t, dir, "good.rs", source)
	bad := writeSource(t, dir, "bad.rs", "#[macro_derive]\nstruct {\n")

	_, err := run(t, "expand", "--in-place", good, bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.rs")

	got, err := os.ReadFile(good)
	require.NoError(t, err)
	assert.Equal(t, source, string(got))
}

func TestExpand_UsesConfig(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	hidden := false
	cfg := config.Default()
	cfg.Attribute = "flatten"
	cfg.Alias.Prefix = "Gen"
	cfg.Alias.Hidden = &hidden
	require.NoError(t, config.WriteFile(cfg, config.DefaultFileName))

	path := writeSource(t, dir, "lib.rs", "#[flatten]\nstruct S(M![u8]);\n")

	out, err := run(t, "expand", "--stable-names", path)
	require.NoError(t, err)
	assert.Equal(t, "type Gen1 = M![u8];\nstruct S(Gen1);\n", out)
}

func TestExpand_IncompatibleConfig(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	cfgPath := filepath.Join(dir, "custom.yaml")
	cfg := config.Default()
	cfg.Requires = ">= 99.0.0"
	require.NoError(t, config.WriteFile(cfg, cfgPath))

	path := writeSource(t, dir, "lib.rs", source)

	_, err := run(t, "--config", cfgPath, "expand", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), ">= 99.0.0")
}

func TestInspect(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	path := writeSource(t, dir, "lib.rs", source)

	out, err := run(t, "inspect", "--stable-names", path)
	require.NoError(t, err)
	assert.Contains(t, out, `"name": "__TypeMacroAlias1"`)
	assert.Contains(t, out, `"target": "Wrap![T]"`)
	assert.Contains(t, out, `"used_by": [`)
}

func TestInit(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	_, err := run(t, "init")
	require.NoError(t, err)

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)

	_, err = run(t, "init")
	require.Error(t, err)

	_, err = run(t, "init", "--force")
	require.NoError(t, err)
}

// chdir changes the working directory for the duration of the test.
func chdir(t *testing.T, dir string) {
	t.Helper()

	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		require.NoError(t, os.Chdir(prev))
	})
}
