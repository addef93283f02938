package trayitem

import (
	"slices"

	"github.com/godbus/dbus/v5"
)

// PropertyDict is the a{sv} property dictionary of a menu node.
type PropertyDict map[string]dbus.Variant

// Menu node property names and values.
const (
	propLabel           = "label"
	propEnabled         = "enabled"
	propVisible         = "visible"
	propType            = "type"
	propToggleType      = "toggle-type"
	propChildrenDisplay = "children-display"

	typeSeparator   = "separator"
	displaySubmenu  = "submenu"
	eventClicked    = "clicked"
	rootID          = int32(0)
	layoutUpdateAll = int32(0)
)

// menuLayout is the (ia{sv}av) layout node returned by GetLayout.
type menuLayout struct {
	ID         int32
	Properties PropertyDict
	Children   []dbus.Variant
}

// menuProps is the (ia{sv}) element of GetGroupProperties and of the
// ItemsPropertiesUpdated signal.
type menuProps struct {
	ID         int32
	Properties PropertyDict
}

// menuRemovedProps is the (ias) element of the ItemsPropertiesUpdated signal.
type menuRemovedProps struct {
	ID         int32
	Properties []string
}

// menuEvent is the (isvu) element of EventGroup.
type menuEvent struct {
	ID        int32
	EventID   string
	Data      dbus.Variant
	Timestamp uint32
}

// properties returns the property dictionary of the menu entry.
func (item MenuItem) properties() PropertyDict {
	if item.IsSeparator {
		return PropertyDict{
			propType:    dbus.MakeVariant(typeSeparator),
			propVisible: dbus.MakeVariant(item.Visible),
		}
	}

	return PropertyDict{
		propLabel:      dbus.MakeVariant(item.Label),
		propEnabled:    dbus.MakeVariant(item.Enabled),
		propVisible:    dbus.MakeVariant(item.Visible),
		propToggleType: dbus.MakeVariant(""),
	}
}

// rootProps returns the synthetic root node of GetGroupProperties.
func rootProps() menuProps {
	return menuProps{
		ID: rootID,
		Properties: PropertyDict{
			propChildrenDisplay: dbus.MakeVariant(displaySubmenu),
		},
	}
}

// buildLayout returns the root node with every item attached as a leaf.
func buildLayout(items []MenuItem) menuLayout {
	children := make([]dbus.Variant, 0, len(items))

	for _, item := range items {
		children = append(children, dbus.MakeVariant(menuLayout{
			ID:         item.ID,
			Properties: item.properties(),
			Children:   []dbus.Variant{},
		}))
	}

	return menuLayout{
		ID:         rootID,
		Properties: PropertyDict{},
		Children:   children,
	}
}

// buildGroupProperties returns the root node when it is requested explicitly
// or implicitly (empty ids), followed by the requested items.
func buildGroupProperties(store *menuStore, ids []int32) []menuProps {
	props := make([]menuProps, 0, len(ids)+1)

	if len(ids) == 0 || slices.Contains(ids, rootID) {
		props = append(props, rootProps())
	}

	for _, item := range store.selected(ids) {
		props = append(props, menuProps{
			ID:         item.ID,
			Properties: item.properties(),
		})
	}

	return props
}
