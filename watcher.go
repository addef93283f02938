package trayitem

import (
	"context"
	"fmt"

	"github.com/godbus/dbus/v5"
)

const (
	StatusNotifierWatcherInterface = "org.kde.StatusNotifierWatcher"
	StatusNotifierWatcherPath      = dbus.ObjectPath("/StatusNotifierWatcher")
)

// registerWithWatcher registers the service name with the
// StatusNotifierWatcher and announces the Active status.
//
// The watcher is a separate process that may be absent; a failed call leaves
// the item unregistered so that the next icon update tries again. The call is
// made without t.mu held, since watchers may read item properties before
// replying.
func (t *Tray) registerWithWatcher(ctx context.Context) error {
	t.registerMu.Lock()
	defer t.registerMu.Unlock()

	if t.Registered() {
		return nil
	}

	call := t.conn.Object(
		StatusNotifierWatcherInterface,
		StatusNotifierWatcherPath,
	).CallWithContext(ctx, StatusNotifierWatcherInterface+".RegisterStatusNotifierItem", 0, t.opts.serviceName)

	err := call.Err
	t.observer.WatcherRegistration(err)

	if err != nil {
		t.logger.Warn("failed to register with watcher", "error", err)
		return fmt.Errorf("failed to register with watcher: %w", err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	// Close may have run while the call was in flight.
	if t.closed {
		return ErrNotListening
	}

	t.registered = true
	t.logger.Info("registered with watcher")

	return t.emit(t.opts.itemPath, StatusNotifierItemInterface, "NewStatus", string(t.status))
}
