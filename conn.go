package trayitem

import (
	"errors"

	"github.com/godbus/dbus/v5"
)

var (
	// ErrNoBus is returned by every mutator of a [Tray] that has no session
	// bus connection.
	ErrNoBus = errors.New("session bus is not available")

	// ErrNotListening is returned by mutators called before [Tray.Listen]
	// succeeded or after [Tray.Close].
	ErrNotListening = errors.New("tray is not listening")

	// ErrClosed is returned by [Tray.Listen] after [Tray.Close].
	ErrClosed = errors.New("tray is closed")

	// ErrUnknownItem is returned by [Tray.UpdateItemLabel] when the menu has
	// no item with the requested ID.
	ErrUnknownItem = errors.New("unknown menu item")

	// ErrInvalidMenu is returned by [Tray.SetMenu] when item IDs are not
	// unique or use the reserved root ID 0.
	ErrInvalidMenu = errors.New("invalid menu")
)

// Conn is the subset of [dbus.Conn] used by [Tray]. *dbus.Conn satisfies it.
type Conn interface {
	Export(v any, path dbus.ObjectPath, iface string) error
	Emit(path dbus.ObjectPath, name string, values ...any) error
	Object(dest string, path dbus.ObjectPath) dbus.BusObject
	RequestName(name string, flags dbus.RequestNameFlags) (dbus.RequestNameReply, error)
	ReleaseName(name string) (dbus.ReleaseNameReply, error)
}

// connectSessionBus is replaced in tests.
var connectSessionBus = func() (Conn, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, err
	}

	return conn, nil
}
