package trayitem

import (
	"bytes"
	"context"
	"fmt"

	"github.com/godbus/dbus/v5"
)

const (
	StatusNotifierItemInterface = "org.kde.StatusNotifierItem"
	StatusNotifierItemPath      = dbus.ObjectPath("/StatusNotifierItem")
)

type ItemCategory string

// StatusNotifierItem categories.
const (
	// The item describes the status of a generic application, for instance the
	// current state of a media player.
	ItemCategoryApplicationStatus ItemCategory = "ApplicationStatus"

	// The item describes the status of communication oriented applications, like
	// an instant messenger or an email client.
	ItemCategoryCommunications ItemCategory = "Communications"

	// The item describes services of the system not seen as a stand alone
	// application by the user, such as an indicator for the activity of a disk
	// indexing service.
	ItemCategorySystemServices ItemCategory = "SystemServices"

	// The item describes the state and control of a particular hardware, such as
	// an indicator of the battery charge or sound card volume control.
	ItemCategoryHardware ItemCategory = "Hardware"
)

// ParseItemCategory returns the category with the given name.
func ParseItemCategory(s string) (ItemCategory, error) {
	switch c := ItemCategory(s); c {
	case ItemCategoryApplicationStatus, ItemCategoryCommunications, ItemCategorySystemServices, ItemCategoryHardware:
		return c, nil
	default:
		return "", fmt.Errorf("unknown item category %q", s)
	}
}

type ItemStatus string

// StatusNotifierItem statuses.
const (
	// The item doesn't convey important information to the user, it can be
	// considered an "idle" status and is likely that visualizations will choose
	// to hide it.
	ItemStatusPassive ItemStatus = "Passive"

	// The item is active, is more important that the item will be shown in some
	// way to the user.
	ItemStatusActive ItemStatus = "Active"

	// The item carries really important information for the user, such as battery
	// charge running out and is wants to incentive the direct user intervention.
	// Visualizations should emphasize in some way the items with NeedsAttention
	// status.
	ItemStatusNeedsAttention ItemStatus = "NeedsAttention"
)

// SetTitle sets the Title property and emits NewTitle. Setting the current
// title again is a no-op.
func (t *Tray) SetTitle(title string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.checkLocked(); err != nil {
		return fmt.Errorf("set title: %w", err)
	}

	if title == t.title {
		return nil
	}

	t.title = title

	if err := t.emit(t.opts.itemPath, StatusNotifierItemInterface, "NewTitle"); err != nil {
		return fmt.Errorf("set title: %w", err)
	}

	return nil
}

// Title returns the current Title property.
func (t *Tray) Title() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.title
}

// SetIconPixmap sets the IconPixmap property. Format of data is described in
// [ParsePixmap]; a buffer shorter than the header clears the icon.
//
// The first successful call registers the item with the StatusNotifierWatcher,
// making it visible to tray hosts. If registration fails, the icon is still
// stored and registration is attempted again on the next call. Once
// registered, NewIcon is emitted instead.
func (t *Tray) SetIconPixmap(data []byte) error {
	t.mu.Lock()

	if err := t.checkLocked(); err != nil {
		t.mu.Unlock()
		return fmt.Errorf("set icon: %w", err)
	}

	t.pixmap = bytes.Clone(data)
	registered := t.registered

	if registered {
		err := t.emit(t.opts.itemPath, StatusNotifierItemInterface, "NewIcon")
		t.mu.Unlock()

		if err != nil {
			return fmt.Errorf("set icon: %w", err)
		}

		return nil
	}

	t.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), t.opts.registerTimeout)
	defer cancel()

	if err := t.registerWithWatcher(ctx); err != nil {
		return fmt.Errorf("set icon: %w", err)
	}

	return nil
}

// Registered reports whether the item is registered with the watcher.
func (t *Tray) Registered() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.registered
}

// itemProperty returns value of the StatusNotifierItem property. t.mu must be
// held.
func (t *Tray) itemProperty(name string) (any, bool) {
	switch name {
	case "Category":
		return string(t.opts.category), true
	case "Id":
		return t.opts.id, true
	case "Title":
		return t.title, true
	case "Status":
		return string(t.status), true
	case "IconName", "AttentionIconName":
		return "", true
	case "IconPixmap":
		return pixmaps(t.pixmap), true
	case "ToolTip":
		return ToolTip{
			IconName:    t.opts.id,
			IconPixmap:  []Pixmap{},
			Title:       t.title,
			Description: "",
		}, true
	case "ItemIsMenu":
		return false, true
	case "Menu":
		return t.opts.menuPath, true
	default:
		return "", false
	}
}

var itemPropertyNames = []string{
	"Category", "Id", "Title", "Status", "IconName", "IconPixmap",
	"AttentionIconName", "ToolTip", "ItemIsMenu", "Menu",
}

func (t *Tray) exportItem() error {
	path := t.opts.itemPath

	if err := t.conn.Export((*statusNotifierItem)(t), path, StatusNotifierItemInterface); err != nil {
		return fmt.Errorf("failed to export %s: %w", StatusNotifierItemInterface, err)
	}

	if err := t.conn.Export((*itemProperties)(t), path, propertiesInterface); err != nil {
		return fmt.Errorf("failed to export %s properties: %w", StatusNotifierItemInterface, err)
	}

	if err := t.conn.Export(itemIntrospectable(t), path, introspectableInterface); err != nil {
		return fmt.Errorf("failed to export %s introspection: %w", StatusNotifierItemInterface, err)
	}

	return nil
}

func (t *Tray) unexportItem() error {
	path := t.opts.itemPath

	for _, iface := range []string{StatusNotifierItemInterface, propertiesInterface, introspectableInterface} {
		if err := t.conn.Export(nil, path, iface); err != nil {
			return fmt.Errorf("failed to unexport %s: %w", iface, err)
		}
	}

	return nil
}

// statusNotifierItem is the D-Bus facing side of [Tray] implementing methods
// of org.kde.StatusNotifierItem.
type statusNotifierItem Tray

func (item *statusNotifierItem) called(method string, args ...any) {
	item.observer.MethodCalled(StatusNotifierItemInterface, method)
	item.logger.Debug("item method", append([]any{"name", method}, args...)...)
}

func (item *statusNotifierItem) Activate(x, y int32) *dbus.Error {
	item.called("Activate", "x", x, "y", y)

	item.mu.Lock()
	callback := item.onActivate
	item.mu.Unlock()

	callback()

	return nil
}

// SecondaryActivate, ContextMenu and Scroll are acknowledged only. Hosts use
// the dbusmenu object for context actions.

func (item *statusNotifierItem) SecondaryActivate(x, y int32) *dbus.Error {
	item.called("SecondaryActivate", "x", x, "y", y)
	return nil
}

func (item *statusNotifierItem) ContextMenu(x, y int32) *dbus.Error {
	item.called("ContextMenu", "x", x, "y", y)
	return nil
}

func (item *statusNotifierItem) Scroll(delta int32, orientation string) *dbus.Error {
	item.called("Scroll", "delta", delta, "orientation", orientation)
	return nil
}

// itemProperties implements org.freedesktop.DBus.Properties for the
// StatusNotifierItem object.
type itemProperties Tray

func (p *itemProperties) Get(iface, property string) (dbus.Variant, *dbus.Error) {
	p.observer.MethodCalled(propertiesInterface, "Get")

	p.mu.Lock()
	defer p.mu.Unlock()

	if iface != "" && iface != StatusNotifierItemInterface {
		return dbus.MakeVariant(""), nil
	}

	// Unknown properties get an empty reply rather than an error.
	value, _ := (*Tray)(p).itemProperty(property)

	return dbus.MakeVariant(value), nil
}

func (p *itemProperties) GetAll(iface string) (map[string]dbus.Variant, *dbus.Error) {
	p.observer.MethodCalled(propertiesInterface, "GetAll")

	props := make(map[string]dbus.Variant, len(itemPropertyNames))
	if iface != "" && iface != StatusNotifierItemInterface {
		return props, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	for _, name := range itemPropertyNames {
		value, _ := (*Tray)(p).itemProperty(name)
		props[name] = dbus.MakeVariant(value)
	}

	return props, nil
}

func (p *itemProperties) Set(iface, property string, value dbus.Variant) *dbus.Error {
	p.observer.MethodCalled(propertiesInterface, "Set")
	return errPropertyReadOnly(property)
}

func errPropertyReadOnly(property string) *dbus.Error {
	return dbus.NewError(
		"org.freedesktop.DBus.Error.PropertyReadOnly",
		[]any{fmt.Sprintf("property %s is read-only", property)},
	)
}
