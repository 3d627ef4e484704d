package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points every lookup location at fresh temp directories and
// returns the fake executable directory.
func isolate(t *testing.T) string {
	t.Helper()

	exeDir := t.TempDir()
	orig := executable
	executable = func() (string, error) { return filepath.Join(exeDir, "nest"), nil }
	t.Cleanup(func() { executable = orig })

	t.Setenv(PathEnvVar, "")
	t.Setenv(BaseURLEnvVar, "")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("LOCALAPPDATA", t.TempDir())
	return exeDir
}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o700))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestGetConfigDir(t *testing.T) {
	isolate(t)

	dir, err := GetConfigDir()
	require.NoError(t, err)
	assert.Equal(t, appName, filepath.Base(dir))

	if runtime.GOOS == "linux" {
		assert.Equal(t, filepath.Join(os.Getenv("XDG_CONFIG_HOME"), appName), dir)

		t.Setenv("XDG_CONFIG_HOME", "")
		dir, err = GetConfigDir()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(os.Getenv("HOME"), ".config", appName), dir)
	}
}

func TestLoad_JSON(t *testing.T) {
	path := writeFile(t, filepath.Join(t.TempDir(), "config.json"),
		`{"device": " dev1 ", "token": "c.secret", "extra": true}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, &Config{Device: "dev1", Token: "c.secret"}, cfg)
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, filepath.Join(t.TempDir(), "nest.yml"),
		"device: dev1\ntoken: c.secret\nbase_url: http://127.0.0.1:9000\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "dev1", cfg.Device)
	assert.Equal(t, "c.secret", cfg.Token)
	assert.Equal(t, "http://127.0.0.1:9000", cfg.BaseURL)
}

func TestLoad_Failures(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name       string
		path       string
		content    string
		wantReason string
	}{
		{name: "missing file", path: "absent.json", wantReason: "does not exist"},
		{name: "malformed json", path: "bad.json", content: `{"device":`, wantReason: "cannot parse"},
		{name: "malformed yaml", path: "bad.yaml", content: "device: [", wantReason: "cannot parse"},
		{name: "empty device", path: "nodevice.json", content: `{"token":"t"}`, wantReason: "device is empty"},
		{name: "blank token", path: "notoken.json", content: `{"device":"d","token":"  "}`, wantReason: "token is empty"},
		{name: "relative base url", path: "base.json", content: `{"device":"d","token":"t","base_url":"/api"}`, wantReason: "absolute http(s) URL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.path)
			if tt.content != "" {
				writeFile(t, path, tt.content)
			}

			cfg, err := Load(path)
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.True(t, IsConfigError(err))
			assert.Contains(t, err.Error(), MissingMessage)

			var cerr *Error
			require.ErrorAs(t, err, &cerr)
			assert.Equal(t, path, cerr.Path)
			assert.Contains(t, cerr.Reason, tt.wantReason)
		})
	}
}

func TestFind_Order(t *testing.T) {
	exeDir := isolate(t)

	_, err := Find("")
	require.Error(t, err)
	assert.True(t, IsConfigError(err))
	assert.Equal(t, MissingMessage+" (no config file found)", err.Error())

	xdgPath := writeFile(t, filepath.Join(os.Getenv("XDG_CONFIG_HOME"), appName, configFile), "{}")
	if runtime.GOOS == "linux" {
		path, err := Find("")
		require.NoError(t, err)
		assert.Equal(t, xdgPath, path)
	}

	exePath := writeFile(t, filepath.Join(exeDir, configFile), "{}")
	path, err := Find("")
	require.NoError(t, err)
	assert.Equal(t, exePath, path, "executable directory wins over the OS config dir")

	t.Setenv(PathEnvVar, "/from/env.json")
	path, err = Find("")
	require.NoError(t, err)
	assert.Equal(t, "/from/env.json", path)

	path, err = Find("/from/flag.json")
	require.NoError(t, err)
	assert.Equal(t, "/from/flag.json", path)
}

func TestCandidates(t *testing.T) {
	exeDir := isolate(t)
	t.Setenv(PathEnvVar, "env.json")

	got := Candidates("flag.json")
	require.GreaterOrEqual(t, len(got), 3)
	assert.Equal(t, "flag.json", got[0])
	assert.Equal(t, "env.json", got[1])
	assert.Equal(t, filepath.Join(exeDir, configFile), got[2])
}

func TestResolve_AppliesBaseURLOverride(t *testing.T) {
	exeDir := isolate(t)
	writeFile(t, filepath.Join(exeDir, configFile),
		`{"device":"dev1","token":"tok","base_url":"https://staging.example.com"}`)

	cfg, path, err := Resolve("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(exeDir, configFile), path)
	assert.Equal(t, "https://staging.example.com", cfg.BaseURL)

	t.Setenv(BaseURLEnvVar, "http://127.0.0.1:8080")
	cfg, _, err = Resolve("")
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:8080", cfg.BaseURL)

	t.Setenv(BaseURLEnvVar, "not a url")
	_, _, err = Resolve("")
	assert.True(t, IsConfigError(err))
}

func TestLoadEnvFiles(t *testing.T) {
	exeDir := isolate(t)
	writeFile(t, filepath.Join(exeDir, envFile), "NEST_CONFIG=/opt/nest/config.json\nNEST_LOG_LEVEL=debug\n")
	t.Setenv("NEST_LOG_LEVEL", "warn")

	// godotenv treats a set-but-empty variable as present, so clear it;
	// t.Setenv in isolate restores it afterwards.
	require.NoError(t, os.Unsetenv(PathEnvVar))
	t.Chdir(t.TempDir())
	require.NoError(t, LoadEnvFiles())

	assert.Equal(t, "/opt/nest/config.json", os.Getenv(PathEnvVar))
	assert.Equal(t, "warn", os.Getenv("NEST_LOG_LEVEL"), "existing variables are not overridden")
}

func TestLoadEnvFiles_MalformedFile(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, envFile), "BAD'KEY=1\n")
	t.Chdir(dir)

	err := LoadEnvFiles()
	assert.Error(t, err)
}
