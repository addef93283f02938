package inspect

import (
	"fmt"
	"strings"

	"github.com/godbus/dbus/v5"

	"github.com/shelepuginivan/trayitem"
)

// RegisteredItems returns the items registered with the
// StatusNotifierWatcher, in "<name><path>" form.
func RegisteredItems(conn Conn) ([]string, error) {
	obj := conn.Object(trayitem.StatusNotifierWatcherInterface, trayitem.StatusNotifierWatcherPath)

	value, err := obj.GetProperty(trayitem.StatusNotifierWatcherInterface + ".RegisteredStatusNotifierItems")
	if err != nil {
		return nil, fmt.Errorf("registered items: %w", err)
	}

	var items []string
	if err := value.Store(&items); err != nil {
		return nil, fmt.Errorf("registered items: %w", err)
	}

	return items, nil
}

// SplitItemName returns unique name and object path of the StatusNotifierItem
// service from its item name.
//
// Format of item name is "<name>/<objectPath>", e.g.
// ":1.185/StatusNotifierItem". A bare bus name refers to the default object
// path.
func SplitItemName(itemName string) (string, dbus.ObjectPath) {
	name, objectPath, ok := strings.Cut(itemName, "/")
	if !ok {
		return name, trayitem.StatusNotifierItemPath
	}

	return name, dbus.ObjectPath("/" + objectPath)
}
