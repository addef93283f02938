package inspect

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelepuginivan/trayitem"
)

// signalBus delivers queued signals to the channel registered with Signal.
type signalBus struct {
	mu      sync.Mutex
	matches int
	removed int
	ch      chan<- *dbus.Signal
	ready   chan struct{}
}

func newSignalBus() *signalBus {
	return &signalBus{ready: make(chan struct{})}
}

func (b *signalBus) AddMatchSignal(...dbus.MatchOption) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.matches++
	return nil
}

func (b *signalBus) RemoveMatchSignal(...dbus.MatchOption) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.removed++
	return nil
}

func (b *signalBus) Signal(ch chan<- *dbus.Signal) {
	b.ch = ch
	close(b.ready)
}

func (b *signalBus) RemoveSignal(chan<- *dbus.Signal) {}

func TestFollow(t *testing.T) {
	bus := newSignalBus()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events := make(chan Event, 8)
	done := make(chan error, 1)

	go func() {
		done <- Follow(ctx, bus, testName, func(e Event) { events <- e })
	}()

	select {
	case <-bus.ready:
	case <-time.After(time.Second):
		t.Fatal("Follow did not subscribe")
	}

	bus.ch <- &dbus.Signal{
		Sender: ":1.7",
		Name:   trayitem.StatusNotifierWatcherInterface + ".StatusNotifierItemRegistered",
		Body:   []any{testName + "/StatusNotifierItem"},
	}
	bus.ch <- &dbus.Signal{
		Sender: testName,
		Name:   "org.example.Unrelated",
	}
	bus.ch <- &dbus.Signal{
		Sender: testName,
		Name:   trayitem.MenuInterface + ".LayoutUpdated",
		Body:   []any{uint32(5), int32(0)},
	}
	bus.ch <- &dbus.Signal{
		Sender: testName,
		Name:   trayitem.MenuInterface + ".ItemsPropertiesUpdated",
		Body: []any{
			[][]any{{int32(1), map[string]dbus.Variant{"label": dbus.MakeVariant("Clicked: 1")}}},
			[][]any{},
		},
	}
	bus.ch <- &dbus.Signal{
		Sender: testName,
		Name:   trayitem.StatusNotifierItemInterface + ".NewTitle",
	}

	var got []Event
	for range 4 {
		select {
		case e := <-events:
			got = append(got, e)
		case <-time.After(time.Second):
			t.Fatal("missing event")
		}
	}

	assert.Equal(t, testName+"/StatusNotifierItem", got[0].Item)
	assert.Equal(t, uint32(5), got[1].Revision)
	require.Len(t, got[2].Updated, 1)
	assert.Equal(t, int32(1), got[2].Updated[0].NodeID)
	assert.Equal(t, "Clicked: 1", got[2].Updated[0].Properties["label"])
	assert.Equal(t, trayitem.StatusNotifierItemInterface+".NewTitle", got[3].Name)

	cancel()
	require.NoError(t, <-done)

	bus.mu.Lock()
	defer bus.mu.Unlock()
	assert.Equal(t, 8, bus.matches)
	assert.Equal(t, bus.matches, bus.removed)
}

func TestDecodeSignal_Malformed(t *testing.T) {
	for _, signal := range []*dbus.Signal{
		{Name: trayitem.StatusNotifierWatcherInterface + ".StatusNotifierItemRegistered"},
		{Name: trayitem.StatusNotifierWatcherInterface + ".StatusNotifierItemRegistered", Body: []any{1}},
		{Name: trayitem.MenuInterface + ".LayoutUpdated", Body: []any{int32(1), int32(0)}},
		{Name: trayitem.MenuInterface + ".ItemsPropertiesUpdated", Body: []any{"x", "y"}},
	} {
		_, ok := decodeSignal(signal)
		assert.False(t, ok, signal.Name)
	}
}

func TestMatchOptions(t *testing.T) {
	assert.Len(t, matchOptions(trayitem.StatusNotifierWatcherInterface, "StatusNotifierItemRegistered", testName), 2)
	assert.Len(t, matchOptions(trayitem.MenuInterface, "LayoutUpdated", testName), 3)
	assert.Len(t, matchOptions(trayitem.MenuInterface, "LayoutUpdated", ""), 2)
}
