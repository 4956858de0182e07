package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeImage(t *testing.T, dir, name string, origin uint16, words ...uint16) string {
	t.Helper()
	b := []byte{byte(origin >> 8), byte(origin)}
	for _, w := range words {
		b = append(b, byte(w>>8), byte(w))
	}
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, b, 0644))
	return path
}

func openInput(t *testing.T, dir, input string) *os.File {
	t.Helper()
	path := filepath.Join(dir, "stdin")
	require.NoError(t, os.WriteFile(path, []byte(input), 0644))
	f, err := os.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func TestRunUsage(t *testing.T) {
	dir := t.TempDir()
	var stdout, stderr bytes.Buffer

	code := run(nil, openInput(t, dir, ""), &stdout, &stderr)

	assert.Equal(t, exitUsage, code)
	assert.Contains(t, stderr.String(), "lc3 [flags] [image-file1]")
}

func TestRunLoadFailure(t *testing.T) {
	dir := t.TempDir()
	good := writeImage(t, dir, "good.obj", 0x3000, 0xF025)
	short := filepath.Join(dir, "short.obj")
	require.NoError(t, os.WriteFile(short, []byte{0x30}, 0644))
	var stdout, stderr bytes.Buffer

	code := run([]string{good, filepath.Join(dir, "missing.obj"), short}, openInput(t, dir, ""), &stdout, &stderr)

	assert.Equal(t, exitLoadFailure, code)
	assert.Equal(t, 1, strings.Count(stderr.String(), "missing.obj"), stderr.String())
	assert.Equal(t, 1, strings.Count(stderr.String(), "short.obj"), stderr.String())
	assert.Empty(t, stdout.String(), "nothing may run after a failed load")
}

func TestRunHalts(t *testing.T) {
	dir := t.TempDir()
	img := writeImage(t, dir, "echo.obj", 0x3000,
		0xF020, // GETC
		0xF021, // OUT
		0xF025, // HALT
	)
	var stdout, stderr bytes.Buffer

	code := run([]string{img}, openInput(t, dir, "x"), &stdout, &stderr)

	assert.Equal(t, exitOK, code)
	assert.Equal(t, "xHALT\n", stdout.String())
}

func TestRunMultipleImages(t *testing.T) {
	dir := t.TempDir()
	code := writeImage(t, dir, "code.obj", 0x3000,
		0xE0FF, // LEA R0, #255
		0xF022, // PUTS
		0xF025, // HALT
	)
	data := writeImage(t, dir, "data.obj", 0x3100, 'o', 'k', 0)
	var stdout, stderr bytes.Buffer

	assert.Equal(t, exitOK, run([]string{code, data}, openInput(t, dir, ""), &stdout, &stderr))
	assert.Equal(t, "okHALT\n", stdout.String())
}

func TestRunConfigAndFlags(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, "lc3.log")
	cfg := filepath.Join(dir, "lc3.toml")
	require.NoError(t, os.WriteFile(cfg, []byte("log_level = \"error\"\nraw_terminal = false\n"), 0644))
	img := writeImage(t, dir, "and.obj", 0x3000,
		0x1261, // ADD R1, R1, #1
		0x5260, // AND R1, R1, #0
		0x0401, // BRz #1
		0xF025, // HALT
		0x2002, // LD R0, #2
		0xF021, // OUT
		0xF025, // HALT
		'Z',
	)
	var stdout, stderr bytes.Buffer

	// BRz is only taken when AND updates the flags.
	args := []string{"-config", cfg, "-log-level", "debug", "-log-file", logFile, "-and-flags", img}
	code := run(args, openInput(t, dir, ""), &stdout, &stderr)

	assert.Equal(t, exitOK, code)
	assert.Equal(t, "ZHALT\n", stdout.String())

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "image loaded")
}

func TestRunBadConfig(t *testing.T) {
	dir := t.TempDir()
	img := writeImage(t, dir, "halt.obj", 0x3000, 0xF025)
	var stdout, stderr bytes.Buffer

	code := run([]string{"-log-level", "chatty", img}, openInput(t, dir, ""), &stdout, &stderr)
	assert.Equal(t, exitUsage, code)

	code = run([]string{"-config", filepath.Join(dir, "nope.toml"), img}, openInput(t, dir, ""), &stdout, &stderr)
	assert.Equal(t, exitUsage, code)
}

func TestRunInputExhausted(t *testing.T) {
	dir := t.TempDir()
	img := writeImage(t, dir, "getc.obj", 0x3000, 0xF020, 0xF025)
	var stdout, stderr bytes.Buffer

	code := run([]string{img}, openInput(t, dir, ""), &stdout, &stderr)

	assert.Equal(t, exitRuntime, code)
	assert.Equal(t, 1, strings.Count(stderr.String(), "GETC"), stderr.String())
}

func TestRunLoadFailureLogged(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, "lc3.log")
	var stdout, stderr bytes.Buffer

	code := run([]string{"-log-file", logFile, filepath.Join(dir, "missing.obj")}, openInput(t, dir, ""), &stdout, &stderr)

	assert.Equal(t, exitLoadFailure, code)
	assert.Equal(t, 1, strings.Count(stderr.String(), "missing.obj"))
	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "missing.obj")
}
