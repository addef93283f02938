package trayitem

import (
	"errors"
	"fmt"

	"github.com/godbus/dbus/v5"
)

const (
	MenuInterface = "com.canonical.dbusmenu"
	MenuPath      = dbus.ObjectPath("/MenuBar")

	// MenuVersion is the version of the com.canonical.dbusmenu interface.
	MenuVersion = uint32(3)
)

// SetMenu replaces all menu entries and emits LayoutUpdated. The menu object
// is exported on the first call.
//
// Entry IDs must be unique and non-zero, otherwise [ErrInvalidMenu] is
// returned and the menu is left untouched.
func (t *Tray) SetMenu(items []MenuItem) error {
	if err := ValidateMenu(items); err != nil {
		return fmt.Errorf("set menu: %w", err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.checkLocked(); err != nil {
		return fmt.Errorf("set menu: %w", err)
	}

	if !t.menuExported {
		if err := t.exportMenu(); err != nil {
			return fmt.Errorf("set menu: %w", errors.Join(err, t.unexportMenu()))
		}

		t.menuExported = true
	}

	revision := t.store.replace(items)

	if err := t.emit(t.opts.menuPath, MenuInterface, "LayoutUpdated", revision, layoutUpdateAll); err != nil {
		return fmt.Errorf("set menu: %w", err)
	}

	return nil
}

// UpdateItemLabel sets label of the menu entry with the given ID and emits
// ItemsPropertiesUpdated. It returns [ErrUnknownItem] if there is no such
// entry.
func (t *Tray) UpdateItemLabel(id int32, label string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.checkLocked(); err != nil {
		return fmt.Errorf("update item label: %w", err)
	}

	if _, ok := t.store.setLabel(id, label); !ok {
		return fmt.Errorf("update item label: %w: %d", ErrUnknownItem, id)
	}

	updated := []menuProps{{
		ID:         id,
		Properties: PropertyDict{propLabel: dbus.MakeVariant(label)},
	}}

	// No path in this package removes properties.
	removed := []menuRemovedProps{}

	if err := t.emit(t.opts.menuPath, MenuInterface, "ItemsPropertiesUpdated", updated, removed); err != nil {
		return fmt.Errorf("update item label: %w", err)
	}

	return nil
}

// MenuItems returns a copy of the current menu entries.
func (t *Tray) MenuItems() []MenuItem {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.store.selected(nil)
}

// Revision returns the current layout revision.
func (t *Tray) Revision() uint32 {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.store.revision
}

// menuProperty returns value of the dbusmenu property. The values do not
// depend on the state of the tray.
func menuProperty(name string) (any, bool) {
	switch name {
	case "Version":
		return MenuVersion, true
	case "TextDirection":
		return "ltr", true
	case "Status":
		return "normal", true
	case "IconThemePath":
		return []string{}, true
	default:
		return "", false
	}
}

var menuPropertyNames = []string{"Version", "TextDirection", "Status", "IconThemePath"}

func (t *Tray) exportMenu() error {
	path := t.opts.menuPath

	if err := t.conn.Export((*dbusmenu)(t), path, MenuInterface); err != nil {
		return fmt.Errorf("failed to export %s: %w", MenuInterface, err)
	}

	if err := t.conn.Export((*menuProperties)(t), path, propertiesInterface); err != nil {
		return fmt.Errorf("failed to export %s properties: %w", MenuInterface, err)
	}

	if err := t.conn.Export(menuIntrospectable(t), path, introspectableInterface); err != nil {
		return fmt.Errorf("failed to export %s introspection: %w", MenuInterface, err)
	}

	return nil
}

func (t *Tray) unexportMenu() error {
	path := t.opts.menuPath

	for _, iface := range []string{MenuInterface, propertiesInterface, introspectableInterface} {
		if err := t.conn.Export(nil, path, iface); err != nil {
			return fmt.Errorf("failed to unexport %s: %w", iface, err)
		}
	}

	return nil
}

// dbusmenu is the D-Bus facing side of [Tray] implementing methods of
// com.canonical.dbusmenu.
type dbusmenu Tray

func (menu *dbusmenu) called(method string, args ...any) {
	menu.observer.MethodCalled(MenuInterface, method)
	menu.logger.Debug("menu method", append([]any{"name", method}, args...)...)
}

// GetLayout always returns the whole menu: entries are leaves of the root
// node, so parentID, recursionDepth and propertyNames do not change the reply.
func (menu *dbusmenu) GetLayout(parentID int32, recursionDepth int32, propertyNames []string) (uint32, menuLayout, *dbus.Error) {
	menu.called("GetLayout", "parent", parentID, "depth", recursionDepth)

	menu.mu.Lock()
	defer menu.mu.Unlock()

	return menu.store.revision, buildLayout(menu.store.items), nil
}

func (menu *dbusmenu) GetGroupProperties(ids []int32, propertyNames []string) ([]menuProps, *dbus.Error) {
	menu.called("GetGroupProperties", "ids", ids)

	menu.mu.Lock()
	defer menu.mu.Unlock()

	return buildGroupProperties(menu.store, ids), nil
}

func (menu *dbusmenu) GetProperty(id int32, name string) (dbus.Variant, *dbus.Error) {
	menu.called("GetProperty", "id", id, "property", name)
	return dbus.MakeVariant(""), nil
}

func (menu *dbusmenu) Event(id int32, eventID string, data dbus.Variant, timestamp uint32) *dbus.Error {
	menu.called("Event", "id", id, "event", eventID)
	menu.dispatch(id, eventID)

	return nil
}

func (menu *dbusmenu) EventGroup(events []menuEvent) ([]int32, *dbus.Error) {
	menu.called("EventGroup", "count", len(events))

	for _, event := range events {
		menu.dispatch(event.ID, event.EventID)
	}

	return []int32{}, nil
}

func (menu *dbusmenu) AboutToShow(id int32) (bool, *dbus.Error) {
	menu.called("AboutToShow", "id", id)
	return true, nil
}

func (menu *dbusmenu) AboutToShowGroup(ids []int32) ([]int32, []int32, *dbus.Error) {
	menu.called("AboutToShowGroup", "ids", ids)
	return []int32{}, []int32{}, nil
}

// dispatch runs the click callback for clicked events. Other events are
// ignored.
func (menu *dbusmenu) dispatch(id int32, eventID string) {
	if eventID != eventClicked {
		return
	}

	menu.mu.Lock()
	callback := menu.onClick
	menu.mu.Unlock()

	callback(id)
}

// menuProperties implements org.freedesktop.DBus.Properties for the dbusmenu
// object.
type menuProperties Tray

func (p *menuProperties) Get(iface, property string) (dbus.Variant, *dbus.Error) {
	p.observer.MethodCalled(propertiesInterface, "Get")

	if iface != "" && iface != MenuInterface {
		return dbus.MakeVariant(""), nil
	}

	value, _ := menuProperty(property)

	return dbus.MakeVariant(value), nil
}

func (p *menuProperties) GetAll(iface string) (map[string]dbus.Variant, *dbus.Error) {
	p.observer.MethodCalled(propertiesInterface, "GetAll")

	props := make(map[string]dbus.Variant, len(menuPropertyNames))
	if iface != "" && iface != MenuInterface {
		return props, nil
	}

	for _, name := range menuPropertyNames {
		value, _ := menuProperty(name)
		props[name] = dbus.MakeVariant(value)
	}

	return props, nil
}

func (p *menuProperties) Set(iface, property string, value dbus.Variant) *dbus.Error {
	p.observer.MethodCalled(propertiesInterface, "Set")
	return errPropertyReadOnly(property)
}
