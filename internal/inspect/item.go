// Package inspect reads tray items published on the session bus, the way a
// tray host sees them.
package inspect

import (
	"context"
	"fmt"

	"github.com/godbus/dbus/v5"

	"github.com/shelepuginivan/trayitem"
)

const getProperty = "org.freedesktop.DBus.Properties.Get"

// Conn is the part of [dbus.Conn] used by the inspector.
type Conn interface {
	Object(dest string, path dbus.ObjectPath) dbus.BusObject
}

// Item is a snapshot of a StatusNotifierItem.
type Item struct {
	object dbus.BusObject
	conn   Conn
	name   string

	// Unique identifier for the application, such as the application name.
	ID string

	// Name that describes the application, can be more descriptive than ID.
	Title string

	// Text representation of the tooltip.
	Tooltip string

	Category trayitem.ItemCategory
	Status   trayitem.ItemStatus

	// Freedesktop icon name. Visualizations prefer it over IconPixmap.
	IconName string

	IconPixmap []trayitem.Pixmap

	// Whether the item only supports context menu.
	IsMenu bool

	// D-Bus path to an object which implements the com.canonical.dbusmenu
	// interface.
	MenuPath dbus.ObjectPath
}

// ReadItem reads the properties of the item published by name at path.
func ReadItem(ctx context.Context, conn Conn, name string, path dbus.ObjectPath) (*Item, error) {
	obj := conn.Object(name, path)

	// Check whether properties can be retrieved.
	call := obj.CallWithContext(ctx, getProperty, 0, trayitem.StatusNotifierItemInterface, "Title")
	if call.Err != nil {
		return nil, fmt.Errorf("failed to resolve item: %w", call.Err)
	}

	item := Item{
		object:   obj,
		conn:     conn,
		name:     name,
		Category: trayitem.ItemCategoryApplicationStatus,
		Status:   trayitem.ItemStatusActive,
	}

	if id, err := item.property("Id"); err == nil {
		id.Store(&item.ID)
	}

	if title, err := item.property("Title"); err == nil {
		title.Store(&item.Title)
	}

	if category, err := item.property("Category"); err == nil {
		if c, err := trayitem.ParseItemCategory(fmt.Sprint(category.Value())); err == nil {
			item.Category = c
		}
	}

	if status, err := item.property("Status"); err == nil {
		switch s := trayitem.ItemStatus(fmt.Sprint(status.Value())); s {
		case trayitem.ItemStatusPassive, trayitem.ItemStatusNeedsAttention:
			item.Status = s
		}
	}

	if tooltip, err := item.property("ToolTip"); err == nil {
		// Format of tooltip is as follows
		//
		//  [<icon-name>, <icon>, <title>, <description>]
		//
		// The 3rd element is the text representation of the tooltip.
		if value, ok := tooltip.Value().([]any); ok && len(value) >= 3 {
			if title, ok := value[2].(string); ok {
				item.Tooltip = title
			}
		}
	}

	if iconName, err := item.property("IconName"); err == nil {
		iconName.Store(&item.IconName)
	}

	if iconPixmap, err := item.property("IconPixmap"); err == nil {
		if icons, err := DecodePixmaps(iconPixmap.Value()); err == nil {
			item.IconPixmap = icons
		}
	}

	if isMenu, err := item.property("ItemIsMenu"); err == nil {
		isMenu.Store(&item.IsMenu)
	}

	if menu, err := item.property("Menu"); err == nil {
		menu.Store(&item.MenuPath)
	}

	return &item, nil
}

func (item *Item) property(name string) (dbus.Variant, error) {
	return item.object.GetProperty(trayitem.StatusNotifierItemInterface + "." + name)
}

// Name returns the bus name of the item.
func (item *Item) Name() string {
	return item.name
}

// Menu returns the menu associated with the item.
func (item *Item) Menu(ctx context.Context) (*Menu, error) {
	if item.MenuPath == "" {
		return nil, fmt.Errorf("item %s has no menu", item.name)
	}

	return ReadMenu(ctx, item.conn, item.name, item.MenuPath)
}

// Activate asks the status notifier item for activation.
//
// The x and y parameters are in screen coordinates and is to be considered a
// hint to the item where to show eventual windows (if any).
func (item *Item) Activate(ctx context.Context, x, y int32) error {
	return item.object.CallWithContext(
		ctx,
		trayitem.StatusNotifierItemInterface+".Activate",
		0,
		x, y,
	).Err
}
