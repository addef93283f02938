// Package trayitem publishes a system tray item over the D-Bus session bus.
// It implements the item side of the [StatusNotifierItem] specification and
// the [dbusmenu] interface used by tray hosts to render its context menu.
//
// # Usage
//
// A [Tray] owns two D-Bus objects:
//   - the StatusNotifierItem object, which exposes icon, title and status of
//     the application and receives activation requests;
//   - the dbusmenu object, which serves a flat list of [MenuItem] entries and
//     reports clicks on them.
//
// The tray becomes visible to hosts once it is registered with the
// StatusNotifierWatcher. Registration happens on the first call to
// [Tray.SetIconPixmap] and is retried on subsequent calls until it succeeds.
//
// A Tray without a session bus is valid: every mutator returns [ErrNoBus] and
// nothing else happens. Loss of the tray must never take down the host
// application.
//
// [StatusNotifierItem]: https://www.freedesktop.org/wiki/Specifications/StatusNotifierItem/
// [dbusmenu]: https://github.com/AyatanaIndicators/libdbusmenu/blob/master/libdbusmenu-glib/dbus-menu.xml
package trayitem
