package main

import (
	"fmt"
	"image/color"
	"log/slog"
	"sync"

	"github.com/shelepuginivan/trayitem"
	"github.com/shelepuginivan/trayitem/internal/config"
	"github.com/shelepuginivan/trayitem/internal/icon"
	"github.com/shelepuginivan/trayitem/internal/metrics"
)

var defaultIconColor = color.NRGBA{R: 0x3d, G: 0x8b, B: 0xe0, A: 0xff}

// publisher drives a tray from the configuration and reacts to its events.
type publisher struct {
	tray    *trayitem.Tray
	cfg     config.Config
	metrics *metrics.Metrics
	logger  *slog.Logger

	actions map[int32]string
	labels  map[int32]string

	mu     sync.Mutex
	counts map[int32]int

	quit     chan struct{}
	quitOnce sync.Once
}

func newPublisher(tray *trayitem.Tray, cfg config.Config, m *metrics.Metrics, logger *slog.Logger) *publisher {
	labels := make(map[int32]string, len(cfg.Menu))
	for _, entry := range cfg.Menu {
		labels[entry.ID] = entry.Label
	}

	p := &publisher{
		tray:    tray,
		cfg:     cfg,
		metrics: m,
		logger:  logger,
		actions: cfg.Actions(),
		labels:  labels,
		counts:  make(map[int32]int),
		quit:    make(chan struct{}),
	}

	tray.OnActivate(p.handleActivate)
	tray.OnMenuItemClicked(p.handleClick)

	return p
}

// start publishes the tray and its initial state.
func (p *publisher) start() error {
	if err := p.tray.Listen(); err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	if err := p.tray.SetMenu(p.cfg.MenuItems()); err != nil {
		return fmt.Errorf("set menu: %w", err)
	}

	// A missing watcher is not fatal, registration is retried on reload.
	if err := p.reloadIcon(); err != nil {
		p.logger.Warn("Tray item is not registered", "error", err)
	}

	p.logger.Info("Tray item published",
		"service", p.tray.ServiceName(),
		"revision", p.tray.Revision(),
		"registered", p.tray.Registered(),
	)

	return nil
}

// reloadIcon loads the configured icon and publishes it.
func (p *publisher) reloadIcon() error {
	pixmap := icon.Default(icon.Size, defaultIconColor)

	if p.cfg.Icon != "" {
		var err error
		if pixmap, err = icon.Load(p.cfg.Icon, icon.Size); err != nil {
			return err
		}
	}

	return p.tray.SetIconPixmap(pixmap)
}

// done is closed when a quit entry is clicked.
func (p *publisher) done() <-chan struct{} {
	return p.quit
}

func (p *publisher) handleActivate() {
	p.logger.Info("Tray item activated")
}

func (p *publisher) handleClick(id int32) {
	action, ok := p.actions[id]
	if !ok {
		p.logger.Warn("Click on unknown menu item", "id", id)
		return
	}

	p.metrics.RecordClick(action)
	p.logger.Info("Menu item clicked", "id", id, "action", action)

	switch action {
	case config.ActionQuit:
		p.quitOnce.Do(func() { close(p.quit) })
	case config.ActionCount:
		p.mu.Lock()
		p.counts[id]++
		n := p.counts[id]
		p.mu.Unlock()

		label := fmt.Sprintf("%s: %d", p.labels[id], n)
		if err := p.tray.UpdateItemLabel(id, label); err != nil {
			p.logger.Warn("Failed to update menu item label", "id", id, "error", err)
		}
	}
}
