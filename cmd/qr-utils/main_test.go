package main

import (
	"bytes"
	"context"
	"image"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_URL(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	out := filepath.Join(dir, "qr_url.png")

	// Act
	code, stdout, stderr := execute(t, "--config-dir", dir, "url", "--url", "https://example.com", "-o", out)

	// Assert
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "QR code generated successfully!")
	assert.Contains(t, stdout, "Output: "+out)
	assert.Contains(t, stdout, "kind=url")
	assert.FileExists(t, out)
	assert.FileExists(t, filepath.Join(dir, "config.json"))
}

func readLogs(t *testing.T, dir string) string {
	t.Helper()
	files, err := filepath.Glob(filepath.Join(dir, "logs", "*.log"))
	require.NoError(t, err)
	var all string
	for _, f := range files {
		data, err := os.ReadFile(f)
		require.NoError(t, err)
		all += string(data)
	}
	return all
}

func TestRun_LogsDefaultConfigOnce(t *testing.T) {
	dir := t.TempDir()

	code, _, stderr := execute(t, "--config-dir", dir, "text", "--text", "one", "-o", filepath.Join(dir, "one.png"))
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, readLogs(t, dir), "Default configuration written")

	code, _, stderr = execute(t, "--config-dir", dir, "text", "--text", "two", "-o", filepath.Join(dir, "two.png"))
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, 1, strings.Count(readLogs(t, dir), "Default configuration written"))
}

func TestRun_DefaultOutputPath(t *testing.T) {
	dir := t.TempDir()

	code, _, stderr := execute(t, "--config-dir", dir, "wifi", "--ssid", "Cafe", "--security", "nopass", "--border", "0")

	require.Equal(t, 0, code, stderr)
	matches, err := filepath.Glob(filepath.Join(dir, "output", "qr_wifi_*.png"))
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestRun_EveryKind(t *testing.T) {
	tests := map[string][]string{
		"vcard":    {"vcard", "--first-name", "Ada", "--last-name", "Lovelace", "--city", "London"},
		"sms":      {"sms", "--phone", "555-1234", "--message", "hi"},
		"email":    {"email", "--email", "a@b.co", "--subject", "Hello there"},
		"phone":    {"phone", "--phone", "+1 (555) 123-4567"},
		"text":     {"text", "--text", "hello"},
		"location": {"location", "--latitude", "40.7128", "--longitude", "-74.006"},
		"event":    {"event", "--title", "Standup", "--start", "2024-03-01 09:00", "--end", "2024-03-01 09:15"},
		"whatsapp": {"whatsapp", "--phone", "+44 7911 123456", "--message", "hi"},
		"payment":  {"payment", "--type", "paypal", "--recipient", "jdoe", "--amount", "10.50", "--currency", "eur"},
	}

	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			out := filepath.Join(dir, name+".bmp")

			code, _, stderr := execute(t, append([]string{"--config-dir", dir, "-o", out}, args...)...)

			require.Equal(t, 0, code, stderr)
			assert.FileExists(t, out)
		})
	}
}

func TestRun_ValidationError(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "never.png")

	code, _, stderr := execute(t, "--config-dir", dir, "event", "--title", "x",
		"--start", "2024-03-01 10:00", "--end", "2024-03-01 09:00", "-o", out)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "Error:")
	assert.NoFileExists(t, out)
}

func TestRun_BadEventTime(t *testing.T) {
	code, _, stderr := execute(t, "--config-dir", t.TempDir(), "event", "--title", "x", "--start", "tomorrow", "--end", "later")

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "--start")
}

func TestRun_MissingRequiredFlag(t *testing.T) {
	code, _, stderr := execute(t, "--config-dir", t.TempDir(), "url")

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "url")
}

func TestRun_MissingLogo(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "qr.png")

	code, _, stderr := execute(t, "--config-dir", dir, "text", "--text", "hi", "-l", filepath.Join(dir, "nope.png"), "-o", out)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "nope.png")
	assert.NoFileExists(t, out)
}

func TestRun_InvalidOverride(t *testing.T) {
	code, _, stderr := execute(t, "--config-dir", t.TempDir(), "text", "--text", "hi", "--error-correction", "Z")

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "Z")
}

func TestRun_ConfigSetGet(t *testing.T) {
	dir := t.TempDir()

	code, _, stderr := execute(t, "--config-dir", dir, "config", "set", "qr_settings.box_size", "3")
	require.Equal(t, 0, code, stderr)

	code, stdout, _ := execute(t, "--config-dir", dir, "config", "get", "qr_settings.box_size")
	require.Equal(t, 0, code)
	assert.Equal(t, "3\n", stdout)

	code, _, stderr = execute(t, "--config-dir", dir, "config", "set", "bogus", "1")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "unknown config key")
}

func TestRun_ConfigAffectsRendering(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "small.png")
	require.Equal(t, 0, run([]string{"--config-dir", dir, "config", "set", "qr_settings.box_size", "2"}, &bytes.Buffer{}, &bytes.Buffer{}))
	require.Equal(t, 0, run([]string{"--config-dir", dir, "config", "set", "qr_settings.error_correction", "L"}, &bytes.Buffer{}, &bytes.Buffer{}))

	code, _, stderr := execute(t, "--config-dir", dir, "text", "--text", "hi", "-o", out, "--border", "0")
	require.Equal(t, 0, code, stderr)

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	require.NoError(t, err)
	// Version 1 is 21 modules wide
	assert.Equal(t, 42, cfg.Width)
}

func TestRun_History(t *testing.T) {
	dir := t.TempDir()
	code, _, stderr := execute(t, "--config-dir", dir, "text", "--text", "remember me")
	require.Equal(t, 0, code, stderr)

	code, stdout, stderr := execute(t, "--config-dir", dir, "history", "--limit", "5")

	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "remember me")
	assert.Contains(t, stdout, "text")
}

func TestRun_HistoryEmpty(t *testing.T) {
	code, stdout, _ := execute(t, "--config-dir", t.TempDir(), "history")

	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "No QR codes generated yet.")
}

func TestParseLogoSize(t *testing.T) {
	p, err := parseLogoSize("")
	require.NoError(t, err)
	assert.Nil(t, p)

	p, err = parseLogoSize("40")
	require.NoError(t, err)
	assert.Equal(t, &image.Point{X: 40, Y: 40}, p)

	p, err = parseLogoSize("60x30")
	require.NoError(t, err)
	assert.Equal(t, &image.Point{X: 60, Y: 30}, p)

	for _, bad := range []string{"x", "0", "10x", "-5", "axb"} {
		_, err := parseLogoSize(bad)
		assert.Error(t, err, bad)
	}
}

func TestServe_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	server := &http.Server{Addr: "127.0.0.1:0", Handler: http.NotFoundHandler()}

	cancel()
	err := serve(ctx, server)

	assert.NoError(t, err)
}
