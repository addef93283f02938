package inspect

import (
	"context"
	"fmt"
	"time"

	"github.com/godbus/dbus/v5"

	"github.com/shelepuginivan/trayitem"
)

// Menu is a menu associated with [Item].
type Menu struct {
	object dbus.BusObject

	// Version of the com.canonical.dbusmenu interface.
	Version uint32

	// Status of the application, whether it requires attention. Possible values
	// are "normal" (for most cases) and "notice" (a higher priority to be shown).
	Status string

	// Direction of the text, "ltr" or "rtl".
	TextDirection string
}

// ReadMenu reads the menu published by name at path.
func ReadMenu(ctx context.Context, conn Conn, name string, path dbus.ObjectPath) (*Menu, error) {
	obj := conn.Object(name, path)

	// Check whether properties can be retrieved.
	call := obj.CallWithContext(ctx, getProperty, 0, trayitem.MenuInterface, "Version")
	if call.Err != nil {
		return nil, fmt.Errorf("failed to retrieve menu: %w", call.Err)
	}

	menu := Menu{
		object: obj,
	}

	if version, err := obj.GetProperty(trayitem.MenuInterface + ".Version"); err == nil {
		version.Store(&menu.Version)
	}

	if status, err := obj.GetProperty(trayitem.MenuInterface + ".Status"); err == nil {
		status.Store(&menu.Status)
	}

	if direction, err := obj.GetProperty(trayitem.MenuInterface + ".TextDirection"); err == nil {
		direction.Store(&menu.TextDirection)
	}

	return &menu, nil
}

// GetLayout provides the layout and properties that are attached to the
// entries that are in the layout.
//
// parentID is the ID of the parent node for the returned layout. Use 0 to
// retrieve layout from root.
//
// recursionDepth is the number of recursion levels to use. Special cases are:
//   - -1: deliver all items (without recursion limit).
//   - 0: disable recursion (children slice will be empty).
func (m *Menu) GetLayout(ctx context.Context, parentID int32, recursionDepth int32, propertyNames []string) (uint32, *LayoutNode, error) {
	if propertyNames == nil {
		propertyNames = []string{}
	}

	call := m.object.CallWithContext(
		ctx,
		trayitem.MenuInterface+".GetLayout",
		0,
		parentID, recursionDepth, propertyNames,
	)

	if call.Err != nil {
		return 0, nil, call.Err
	}

	if len(call.Body) != 2 {
		return 0, nil, fmt.Errorf("layout: invalid response body format")
	}

	revision, ok := call.Body[0].(uint32)
	if !ok {
		return 0, nil, fmt.Errorf("layout: invalid revision type")
	}

	menu, err := NewLayoutNode(call.Body[1])
	if err != nil {
		return revision, nil, fmt.Errorf("layout: %w", err)
	}

	return revision, menu, nil
}

// Clicked tells the application that the layout node with the given ID was
// clicked.
func (m *Menu) Clicked(ctx context.Context, id int32) error {
	return m.Event(ctx, id, "clicked", int32(0), uint32(time.Now().Unix()))
}

// Event tells the application that an arbitrary event happened to layout node
// with the given ID.
func (m *Menu) Event(ctx context.Context, targetID int32, eventID string, data any, timestamp uint32) error {
	return m.object.CallWithContext(
		ctx,
		trayitem.MenuInterface+".Event",
		0,
		targetID,
		eventID,
		dbus.MakeVariant(data),
		timestamp,
	).Err
}

// AboutToShow tells the application that the layout node with the given ID is
// about to be shown by the applet.
func (m *Menu) AboutToShow(ctx context.Context, id int32) (bool, error) {
	call := m.object.CallWithContext(ctx, trayitem.MenuInterface+".AboutToShow", 0, id)

	if call.Err != nil {
		return false, fmt.Errorf("about to show: %w", call.Err)
	}

	if len(call.Body) != 1 {
		return false, fmt.Errorf("about to show: invalid response format")
	}

	needUpdate, ok := call.Body[0].(bool)
	if !ok {
		return false, fmt.Errorf("about to show: invalid response format")
	}

	return needUpdate, nil
}
