package trayitem

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/godbus/dbus/v5"
)

const propertiesInterface = "org.freedesktop.DBus.Properties"

// Tray publishes a StatusNotifierItem and its dbusmenu on the session bus.
//
// Methods of Tray are safe for concurrent use. Callbacks registered with
// [Tray.OnActivate] and [Tray.OnMenuItemClicked] run on the D-Bus dispatch
// goroutine and may call mutators of the same Tray.
type Tray struct {
	conn     Conn
	ownsConn bool
	opts     options
	logger   *slog.Logger
	observer Observer

	mu           sync.Mutex
	listening    bool
	closed       bool
	menuExported bool
	registered   bool
	title        string
	status       ItemStatus
	pixmap       []byte
	store        *menuStore
	onActivate   func()
	onClick      func(id int32)

	// registerMu serializes calls to the watcher, which are made without mu
	// held.
	registerMu sync.Mutex
}

// NewTray returns a new [Tray] using conn. The connection is owned by the
// caller and is not closed by [Tray.Close].
//
// A nil conn is allowed: the returned tray is inert and every mutator returns
// [ErrNoBus].
func NewTray(conn Conn, opts ...Option) *Tray {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if o.title == "" {
		o.title = o.id
	}

	return &Tray{
		conn:       conn,
		opts:       o,
		logger:     o.logger.With("service", o.serviceName),
		observer:   o.observer,
		title:      o.title,
		status:     ItemStatusActive,
		store:      newMenuStore(),
		onActivate: func() {},
		onClick:    func(int32) {},
	}
}

// Connect connects to the session bus and returns a new [Tray] that owns the
// connection.
//
// If the session bus is not reachable, Connect returns an inert tray together
// with an error wrapping [ErrNoBus]. The tray can still be used; its mutators
// fail without side effects.
func Connect(opts ...Option) (*Tray, error) {
	conn, err := connectSessionBus()
	if err != nil {
		t := NewTray(nil, opts...)
		t.logger.Warn("session bus is not available, tray disabled", "error", err)

		return t, fmt.Errorf("connect: %w: %w", ErrNoBus, err)
	}

	t := NewTray(conn, opts...)
	t.ownsConn = true

	return t, nil
}

// Enabled reports whether the tray has a session bus connection.
func (t *Tray) Enabled() bool {
	return t.conn != nil
}

// ServiceName returns the bus name requested by the tray.
func (t *Tray) ServiceName() string {
	return t.opts.serviceName
}

// Listen exports the StatusNotifierItem object and requests the service name.
// The tray is not visible to hosts until it is registered with the watcher,
// see [Tray.SetIconPixmap].
//
// If Listen fails, the tray stays inert. Calling Listen after [Tray.Close]
// returns [ErrClosed].
func (t *Tray) Listen() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.conn == nil {
		return fmt.Errorf("listen: %w", ErrNoBus)
	}

	if t.closed {
		return fmt.Errorf("listen: %w", ErrClosed)
	}

	if t.listening {
		return nil
	}

	if err := t.exportItem(); err != nil {
		return fmt.Errorf("listen: %w", errors.Join(err, t.unexportItem()))
	}

	reply, err := t.conn.RequestName(
		t.opts.serviceName,
		dbus.NameFlagReplaceExisting|dbus.NameFlagAllowReplacement|dbus.NameFlagDoNotQueue,
	)
	if err != nil {
		err = fmt.Errorf("failed to request name %s: %w", t.opts.serviceName, err)
		return fmt.Errorf("listen: %w", errors.Join(err, t.unexportItem()))
	}

	if reply != dbus.RequestNameReplyPrimaryOwner && reply != dbus.RequestNameReplyAlreadyOwner {
		err := fmt.Errorf("name %s already taken", t.opts.serviceName)
		return fmt.Errorf("listen: %w", errors.Join(err, t.unexportItem()))
	}

	t.listening = true
	t.logger.Debug("tray is listening", "path", t.opts.itemPath, "menu", t.opts.menuPath)

	return nil
}

// Close withdraws the menu object, then the item object, releases the service
// name and closes the connection if it was opened by [Connect].
//
// Tray cannot be reused after Close was called.
func (t *Tray) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil
	}

	t.closed = true

	if t.conn == nil {
		return nil
	}

	var errs []error

	if t.menuExported {
		errs = append(errs, t.unexportMenu())
		t.menuExported = false
	}

	if t.listening {
		errs = append(errs, t.unexportItem())

		if _, err := t.conn.ReleaseName(t.opts.serviceName); err != nil {
			errs = append(errs, fmt.Errorf("failed to release name %s: %w", t.opts.serviceName, err))
		}

		t.listening = false
	}

	if closer, ok := t.conn.(io.Closer); ok && t.ownsConn {
		errs = append(errs, closer.Close())
	}

	t.registered = false
	t.onActivate = func() {}
	t.onClick = func(int32) {}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("close: %w", err)
	}

	return nil
}

// OnActivate sets callback that runs whenever the host activates the item,
// typically on a left click.
func (t *Tray) OnActivate(callback func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if callback == nil {
		callback = func() {}
	}

	t.onActivate = callback
}

// OnMenuItemClicked sets callback that runs whenever a menu entry is clicked.
// Parameter id of the callback is ID of the clicked [MenuItem].
func (t *Tray) OnMenuItemClicked(callback func(id int32)) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if callback == nil {
		callback = func(int32) {}
	}

	t.onClick = callback
}

// checkLocked returns an error if mutators cannot be used. t.mu must be held.
func (t *Tray) checkLocked() error {
	if t.conn == nil {
		return ErrNoBus
	}

	if !t.listening || t.closed {
		return ErrNotListening
	}

	return nil
}

// emit emits signal name of iface on path and reports the result to the
// observer.
func (t *Tray) emit(path dbus.ObjectPath, iface, name string, values ...any) error {
	err := t.conn.Emit(path, iface+"."+name, values...)
	t.observer.SignalEmitted(iface, name, err)

	if err != nil {
		t.logger.Warn("failed to emit signal", "signal", name, "error", err)
		return fmt.Errorf("failed to emit %s: %w", name, err)
	}

	return nil
}
