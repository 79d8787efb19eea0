package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"calselect/internal/config"
)

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	color.NoColor = true

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestConfigInitShowPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calselect", "config.toml")

	out, err := runCmd(t, "config", "path", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)
	assert.Contains(t, out, "missing")

	out, err = runCmd(t, "config", "init", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "wrote "+path)

	cfg, err := config.NewConfigService(path).LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig(), cfg)

	out, err = runCmd(t, "config", "path", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "exists")

	out, err = runCmd(t, "config", "show", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "day_start")
	assert.Contains(t, out, "06:00")
	assert.Contains(t, out, "[grid]")
	assert.Contains(t, out, "[logging]")
}

func TestConfigInitRefusesToOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[grid]\nslot_minutes = 60\n"), 0644))

	_, err := runCmd(t, "config", "init", "--config", path)
	assert.ErrorContains(t, err, "already exists")

	_, err = runCmd(t, "config", "init", "--force", "--config", path)
	require.NoError(t, err)

	cfg, err := config.NewConfigService(path).LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.Grid.SlotMinutes)
}

func TestConfigShowRejectsInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[grid]\ndisplay_days = 0\n"), 0644))

	_, err := runCmd(t, "config", "show", "--config", path)
	assert.ErrorContains(t, err, "display days")
}

func TestRootRejectsArgs(t *testing.T) {
	_, err := runCmd(t, "extra")
	assert.Error(t, err)
}

func TestParseDate(t *testing.T) {
	now := time.Date(2024, time.March, 6, 15, 0, 0, 0, time.UTC)

	d, err := parseDate("", now)
	require.NoError(t, err)
	assert.Equal(t, now, d)

	d, err = parseDate("2024-12-25", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.December, 25, 0, 0, 0, 0, time.UTC), d)

	_, err = parseDate("25/12/2024", now)
	assert.ErrorContains(t, err, "invalid --date")
}
