// Package config provides configuration loading and validation for traypub.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/shelepuginivan/trayitem"
	"github.com/shelepuginivan/trayitem/internal/logging"
)

// Menu entry actions.
const (
	ActionNone  = "none"
	ActionQuit  = "quit"
	ActionCount = "count"
)

// Config is the traypub configuration.
type Config struct {
	ServiceName     string         `yaml:"service_name"`
	ID              string         `yaml:"id"`
	Title           string         `yaml:"title"`
	Category        string         `yaml:"category"`
	Icon            string         `yaml:"icon"` // PNG path, empty for the built-in icon
	RegisterTimeout time.Duration  `yaml:"register_timeout"`
	Menu            []MenuEntry    `yaml:"menu"`
	Logging         logging.Config `yaml:"logging"`
	Metrics         MetricsConfig  `yaml:"metrics"`
}

// MenuEntry is a single context menu entry.
type MenuEntry struct {
	ID        int32  `yaml:"id"`
	Label     string `yaml:"label"`
	Enabled   *bool  `yaml:"enabled"`
	Visible   *bool  `yaml:"visible"`
	Separator bool   `yaml:"separator"`
	Action    string `yaml:"action"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	Listen string `yaml:"listen"` // empty disables the endpoint
	Path   string `yaml:"path"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		ID:              "traypub",
		Title:           "traypub",
		Category:        string(trayitem.ItemCategoryApplicationStatus),
		RegisterTimeout: trayitem.DefaultRegisterTimeout,
		Menu: []MenuEntry{
			{ID: 1, Label: "Clicked", Action: ActionCount},
			{ID: 2, Separator: true},
			{ID: 3, Label: "Quit", Action: ActionQuit},
		},
		Logging: logging.DefaultConfig(),
		Metrics: MetricsConfig{
			Path: "/metrics",
		},
	}
}

// Load reads and parses a configuration file on top of [DefaultConfig].
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables
	data = []byte(os.ExpandEnv(string(data)))

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// LoadAndValidate loads and validates a configuration file.
func LoadAndValidate(path string) (Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// Validate reports every problem found in the configuration.
func (c Config) Validate() error {
	var errs []error

	if c.ID == "" {
		errs = append(errs, errors.New("id is required"))
	}
	if _, err := trayitem.ParseItemCategory(c.Category); err != nil {
		errs = append(errs, err)
	}
	if c.RegisterTimeout < 0 {
		errs = append(errs, fmt.Errorf("register_timeout must not be negative: %s", c.RegisterTimeout))
	}
	if c.Icon != "" {
		if _, err := os.Stat(c.Icon); err != nil {
			errs = append(errs, fmt.Errorf("icon: %w", err))
		}
	}
	if c.Metrics.Listen != "" && c.Metrics.Path == "" {
		errs = append(errs, errors.New("metrics.path is required when metrics.listen is set"))
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, err)
	}

	for i, entry := range c.Menu {
		switch entry.Action {
		case "", ActionNone, ActionQuit, ActionCount:
		default:
			errs = append(errs, fmt.Errorf("menu[%d]: unknown action %q", i, entry.Action))
		}
		if entry.Separator && entry.Action != "" && entry.Action != ActionNone {
			errs = append(errs, fmt.Errorf("menu[%d]: separator cannot have an action", i))
		}
	}

	if err := trayitem.ValidateMenu(c.MenuItems()); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// MenuItems converts the menu entries into tray menu items.
func (c Config) MenuItems() []trayitem.MenuItem {
	items := make([]trayitem.MenuItem, 0, len(c.Menu))

	for _, entry := range c.Menu {
		items = append(items, trayitem.MenuItem{
			ID:          entry.ID,
			Label:       entry.Label,
			Enabled:     boolOr(entry.Enabled, true),
			Visible:     boolOr(entry.Visible, true),
			IsSeparator: entry.Separator,
		})
	}

	return items
}

// Actions maps menu item ids to their configured actions.
func (c Config) Actions() map[int32]string {
	actions := make(map[int32]string, len(c.Menu))

	for _, entry := range c.Menu {
		action := entry.Action
		if action == "" {
			action = ActionNone
		}
		actions[entry.ID] = action
	}

	return actions
}

// Options returns the tray options described by the configuration.
func (c Config) Options() []trayitem.Option {
	opts := []trayitem.Option{
		trayitem.WithID(c.ID),
		trayitem.WithTitle(c.Title),
		trayitem.WithRegisterTimeout(c.RegisterTimeout),
	}

	if c.ServiceName != "" {
		opts = append(opts, trayitem.WithServiceName(c.ServiceName))
	}
	if category, err := trayitem.ParseItemCategory(c.Category); err == nil {
		opts = append(opts, trayitem.WithCategory(category))
	}

	return opts
}

func boolOr(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}
