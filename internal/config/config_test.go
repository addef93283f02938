package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelepuginivan/trayitem"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "traypub.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "traypub", cfg.ID)
	assert.Equal(t, "ApplicationStatus", cfg.Category)
	assert.Equal(t, trayitem.DefaultRegisterTimeout, cfg.RegisterTimeout)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Empty(t, cfg.Metrics.Listen)
	assert.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	t.Setenv("TRAYPUB_TEST_TITLE", "Mail")

	path := writeConfig(t, `
service_name: org.example.Mail.StatusNotifierItem
id: mail
title: ${TRAYPUB_TEST_TITLE}
category: Communications
register_timeout: 5s
menu:
  - id: 1
    label: Open
  - id: 2
    label: Hidden
    visible: false
    enabled: false
  - id: 3
    separator: true
  - id: 4
    label: Quit
    action: quit
logging:
  level: debug
  format: json
metrics:
  listen: 127.0.0.1:9464
`)

	cfg, err := LoadAndValidate(path)
	require.NoError(t, err)

	assert.Equal(t, "org.example.Mail.StatusNotifierItem", cfg.ServiceName)
	assert.Equal(t, "mail", cfg.ID)
	assert.Equal(t, "Mail", cfg.Title)
	assert.Equal(t, "Communications", cfg.Category)
	assert.Equal(t, 5*time.Second, cfg.RegisterTimeout)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "127.0.0.1:9464", cfg.Metrics.Listen)
	assert.Equal(t, "/metrics", cfg.Metrics.Path, "unset fields keep their defaults")

	assert.Equal(t, []trayitem.MenuItem{
		{ID: 1, Label: "Open", Enabled: true, Visible: true},
		{ID: 2, Label: "Hidden"},
		{ID: 3, Enabled: true, Visible: true, IsSeparator: true},
		{ID: 4, Label: "Quit", Enabled: true, Visible: true},
	}, cfg.MenuItems())

	assert.Equal(t, map[int32]string{
		1: ActionNone,
		2: ActionNone,
		3: ActionNone,
		4: ActionQuit,
	}, cfg.Actions())
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read config file")

	_, err = Load(writeConfig(t, "menu: [\n"))
	assert.ErrorContains(t, err, "failed to parse config file")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		want   string
	}{
		{
			name:   "missing id",
			modify: func(c *Config) { c.ID = "" },
			want:   "id is required",
		},
		{
			name:   "unknown category",
			modify: func(c *Config) { c.Category = "Games" },
			want:   "Games",
		},
		{
			name:   "negative timeout",
			modify: func(c *Config) { c.RegisterTimeout = -time.Second },
			want:   "register_timeout",
		},
		{
			name:   "missing icon",
			modify: func(c *Config) { c.Icon = "/nonexistent/icon.png" },
			want:   "icon",
		},
		{
			name:   "metrics without path",
			modify: func(c *Config) { c.Metrics = MetricsConfig{Listen: ":9464"} },
			want:   "metrics.path",
		},
		{
			name:   "unknown log level",
			modify: func(c *Config) { c.Logging.Level = "verbose" },
			want:   "unknown log level",
		},
		{
			name:   "unknown action",
			modify: func(c *Config) { c.Menu[0].Action = "reboot" },
			want:   "unknown action",
		},
		{
			name:   "separator with action",
			modify: func(c *Config) { c.Menu[1].Action = ActionQuit },
			want:   "separator cannot have an action",
		},
		{
			name:   "duplicate id",
			modify: func(c *Config) { c.Menu[2].ID = c.Menu[0].ID },
			want:   "duplicate id",
		},
		{
			name:   "reserved id",
			modify: func(c *Config) { c.Menu[0].ID = 0 },
			want:   "reserved id 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidate_ReservedIDIsInvalidMenu(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Menu[0].ID = 0

	assert.ErrorIs(t, cfg.Validate(), trayitem.ErrInvalidMenu)
}

func TestOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ServiceName = "org.example.Options.StatusNotifierItem"
	cfg.Title = "Options"

	tray := trayitem.NewTray(nil, cfg.Options()...)

	assert.Equal(t, "org.example.Options.StatusNotifierItem", tray.ServiceName())
	assert.Equal(t, "Options", tray.Title())
}
