package inspect

import (
	"context"
	"fmt"

	"github.com/godbus/dbus/v5"

	"github.com/shelepuginivan/trayitem"
)

// SignalConn is the part of [dbus.Conn] used by [Follow].
type SignalConn interface {
	AddMatchSignal(options ...dbus.MatchOption) error
	RemoveMatchSignal(options ...dbus.MatchOption) error
	Signal(ch chan<- *dbus.Signal)
	RemoveSignal(ch chan<- *dbus.Signal)
}

// Event is a decoded tray signal.
type Event struct {
	Sender string

	// Full signal name, such as "org.kde.StatusNotifierItem.NewTitle".
	Name string

	// Item name carried by the watcher registration signals.
	Item string

	// Revision carried by com.canonical.dbusmenu.LayoutUpdated.
	Revision uint32

	// Properties carried by com.canonical.dbusmenu.ItemsPropertiesUpdated.
	Updated []*UpdatedProperties
}

// UpdatedProperties represents updated properties of a specific layout node.
type UpdatedProperties struct {
	// ID of the layout node.
	NodeID int32

	// Updated properties.
	Properties map[string]any
}

var followed = []struct {
	iface   string
	members []string
}{
	{trayitem.StatusNotifierWatcherInterface, []string{"StatusNotifierItemRegistered", "StatusNotifierItemUnregistered"}},
	{trayitem.StatusNotifierItemInterface, []string{"NewTitle", "NewIcon", "NewStatus", "NewToolTip"}},
	{trayitem.MenuInterface, []string{"LayoutUpdated", "ItemsPropertiesUpdated"}},
}

func matchOptions(iface, member, sender string) []dbus.MatchOption {
	opts := []dbus.MatchOption{
		dbus.WithMatchInterface(iface),
		dbus.WithMatchMember(member),
	}

	// Watcher signals come from the watcher, not the item.
	if sender != "" && iface != trayitem.StatusNotifierWatcherInterface {
		opts = append(opts, dbus.WithMatchSender(sender))
	}

	return opts
}

// Follow subscribes to watcher registration signals and to update signals of
// items and menus, and calls handle for every one of them until ctx is done.
// A non-empty sender limits item and menu signals to that bus name.
func Follow(ctx context.Context, conn SignalConn, sender string, handle func(Event)) error {
	for _, f := range followed {
		for _, member := range f.members {
			if err := conn.AddMatchSignal(matchOptions(f.iface, member, sender)...); err != nil {
				return fmt.Errorf("follow: %w", err)
			}
		}
	}

	defer func() {
		for _, f := range followed {
			for _, member := range f.members {
				conn.RemoveMatchSignal(matchOptions(f.iface, member, sender)...)
			}
		}
	}()

	signals := make(chan *dbus.Signal, 64)
	conn.Signal(signals)
	defer conn.RemoveSignal(signals)

	for {
		select {
		case <-ctx.Done():
			return nil
		case signal, ok := <-signals:
			if !ok {
				return nil
			}

			if event, ok := decodeSignal(signal); ok {
				handle(event)
			}
		}
	}
}

// decodeSignal reports false for signals that are not followed.
func decodeSignal(signal *dbus.Signal) (Event, bool) {
	event := Event{
		Sender: signal.Sender,
		Name:   signal.Name,
	}

	switch signal.Name {
	case trayitem.StatusNotifierWatcherInterface + ".StatusNotifierItemRegistered",
		trayitem.StatusNotifierWatcherInterface + ".StatusNotifierItemUnregistered":
		if len(signal.Body) < 1 {
			return event, false
		}

		item, ok := signal.Body[0].(string)
		if !ok {
			return event, false
		}

		event.Item = item

	case trayitem.MenuInterface + ".LayoutUpdated":
		if len(signal.Body) != 2 {
			return event, false
		}

		revision, ok := signal.Body[0].(uint32)
		if !ok {
			return event, false
		}

		event.Revision = revision

	case trayitem.MenuInterface + ".ItemsPropertiesUpdated":
		if len(signal.Body) != 2 {
			return event, false
		}

		updated, err := getUpdatedProperties(signal.Body[0])
		if err != nil {
			return event, false
		}

		event.Updated = updated

	case trayitem.StatusNotifierItemInterface + ".NewTitle",
		trayitem.StatusNotifierItemInterface + ".NewIcon",
		trayitem.StatusNotifierItemInterface + ".NewStatus",
		trayitem.StatusNotifierItemInterface + ".NewToolTip":

	default:
		return event, false
	}

	return event, true
}

// getUpdatedProperties retrieves updated properties from the first argument of
// the com.canonical.dbusmenu.ItemsPropertiesUpdated signal.
func getUpdatedProperties(data any) ([]*UpdatedProperties, error) {
	items, ok := data.([][]any)
	if !ok {
		return nil, fmt.Errorf("invalid argument format")
	}

	updatedProperties := make([]*UpdatedProperties, 0, len(items))

	for _, item := range items {
		if len(item) != 2 {
			continue
		}

		nodeID, ok := item[0].(int32)
		if !ok {
			continue
		}

		props, ok := item[1].(map[string]dbus.Variant)
		if !ok {
			continue
		}

		up := &UpdatedProperties{
			NodeID:     nodeID,
			Properties: make(map[string]any, len(props)),
		}

		for key, prop := range props {
			up.Properties[key] = prop.Value()
		}

		updatedProperties = append(updatedProperties, up)
	}

	return updatedProperties, nil
}
