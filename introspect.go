package trayitem

import (
	"github.com/godbus/dbus/v5/introspect"
	"github.com/godbus/dbus/v5/prop"
)

const introspectableInterface = "org.freedesktop.DBus.Introspectable"

func readProperty(name, sig string) introspect.Property {
	return introspect.Property{Name: name, Type: sig, Access: "read"}
}

func signalArg(name, sig string) introspect.Arg {
	return introspect.Arg{Name: name, Type: sig, Direction: "out"}
}

func itemIntrospectable(t *Tray) introspect.Introspectable {
	node := introspect.Node{
		Name: string(t.opts.itemPath),
		Interfaces: []introspect.Interface{
			introspect.IntrospectData,
			prop.IntrospectData,
			{
				Name:    StatusNotifierItemInterface,
				Methods: introspect.Methods((*statusNotifierItem)(t)),
				Properties: []introspect.Property{
					readProperty("Category", "s"),
					readProperty("Id", "s"),
					readProperty("Title", "s"),
					readProperty("Status", "s"),
					readProperty("IconName", "s"),
					readProperty("IconPixmap", "a(iiay)"),
					readProperty("AttentionIconName", "s"),
					readProperty("ToolTip", "(sa(iiay)ss)"),
					readProperty("ItemIsMenu", "b"),
					readProperty("Menu", "o"),
				},
				Signals: []introspect.Signal{
					{Name: "NewIcon"},
					{Name: "NewTitle"},
					{Name: "NewStatus", Args: []introspect.Arg{
						signalArg("status", "s"),
					}},
				},
			},
		},
	}

	return introspect.NewIntrospectable(&node)
}

func menuIntrospectable(t *Tray) introspect.Introspectable {
	node := introspect.Node{
		Name: string(t.opts.menuPath),
		Interfaces: []introspect.Interface{
			introspect.IntrospectData,
			prop.IntrospectData,
			{
				Name:    MenuInterface,
				Methods: introspect.Methods((*dbusmenu)(t)),
				Properties: []introspect.Property{
					readProperty("Version", "u"),
					readProperty("TextDirection", "s"),
					readProperty("Status", "s"),
					readProperty("IconThemePath", "as"),
				},
				Signals: []introspect.Signal{
					{Name: "ItemsPropertiesUpdated", Args: []introspect.Arg{
						signalArg("updatedProps", "a(ia{sv})"),
						signalArg("removedProps", "a(ias)"),
					}},
					{Name: "LayoutUpdated", Args: []introspect.Arg{
						signalArg("revision", "u"),
						signalArg("parent", "i"),
					}},
					// Declared by the protocol, never emitted by Tray.
					{Name: "ItemActivationRequested", Args: []introspect.Arg{
						signalArg("id", "i"),
						signalArg("timestamp", "u"),
					}},
				},
			},
		},
	}

	return introspect.NewIntrospectable(&node)
}
