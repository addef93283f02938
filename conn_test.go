package trayitem

import (
	"context"
	"errors"
	"sync"

	"github.com/godbus/dbus/v5"
)

type emitted struct {
	Path dbus.ObjectPath
	Name string
	Body []any
}

type exportEvent struct {
	Path     dbus.ObjectPath
	Iface    string
	Unexport bool
}

type methodCall struct {
	Dest   string
	Path   dbus.ObjectPath
	Method string
	Args   []any
}

// fakeConn is an in-memory [Conn] recording exported objects, emitted signals
// and outgoing method calls.
type fakeConn struct {
	mu sync.Mutex

	objects map[dbus.ObjectPath]map[string]any
	exports []exportEvent
	signals []emitted
	calls   []methodCall

	exportErr    error
	unexportErr  error
	emitErr      error
	callErr      error
	requestErr   error
	requestReply dbus.RequestNameReply
	requested    []string
	released     []string
	closed       bool
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		objects:      make(map[dbus.ObjectPath]map[string]any),
		requestReply: dbus.RequestNameReplyPrimaryOwner,
	}
}

func (c *fakeConn) Export(v any, path dbus.ObjectPath, iface string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if v != nil && c.exportErr != nil {
		return c.exportErr
	}

	if v == nil && c.unexportErr != nil {
		return c.unexportErr
	}

	c.exports = append(c.exports, exportEvent{Path: path, Iface: iface, Unexport: v == nil})

	if v == nil {
		delete(c.objects[path], iface)
		return nil
	}

	if c.objects[path] == nil {
		c.objects[path] = make(map[string]any)
	}

	c.objects[path][iface] = v

	return nil
}

func (c *fakeConn) Emit(path dbus.ObjectPath, name string, values ...any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.emitErr != nil {
		return c.emitErr
	}

	c.signals = append(c.signals, emitted{Path: path, Name: name, Body: values})

	return nil
}

func (c *fakeConn) Object(dest string, path dbus.ObjectPath) dbus.BusObject {
	return &fakeObject{conn: c, dest: dest, path: path}
}

func (c *fakeConn) RequestName(name string, flags dbus.RequestNameFlags) (dbus.RequestNameReply, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.requested = append(c.requested, name)

	return c.requestReply, c.requestErr
}

func (c *fakeConn) ReleaseName(name string) (dbus.ReleaseNameReply, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.released = append(c.released, name)

	return dbus.ReleaseNameReplyReleased, nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true

	return nil
}

func (c *fakeConn) object(path dbus.ObjectPath, iface string) any {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.objects[path][iface]
}

func (c *fakeConn) signalsNamed(name string) []emitted {
	c.mu.Lock()
	defer c.mu.Unlock()

	var signals []emitted

	for _, s := range c.signals {
		if s.Name == name {
			signals = append(signals, s)
		}
	}

	return signals
}

func (c *fakeConn) signalCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.signals)
}

func (c *fakeConn) setCallErr(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.callErr = err
}

func (c *fakeConn) methodCalls() []methodCall {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]methodCall{}, c.calls...)
}

// fakeObject answers calls with the configured error of its connection. Only
// CallWithContext is implemented.
type fakeObject struct {
	dbus.BusObject

	conn *fakeConn
	dest string
	path dbus.ObjectPath
}

func (o *fakeObject) CallWithContext(ctx context.Context, method string, flags dbus.Flags, args ...any) *dbus.Call {
	o.conn.mu.Lock()
	defer o.conn.mu.Unlock()

	o.conn.calls = append(o.conn.calls, methodCall{Dest: o.dest, Path: o.path, Method: method, Args: args})

	return &dbus.Call{
		Destination: o.dest,
		Path:        o.path,
		Method:      method,
		Args:        args,
		Err:         o.conn.callErr,
	}
}

var (
	errFake     = errors.New("fake failure")
	errUnexport = errors.New("unexport failure")
)

// countingObserver counts notifications per key.
type countingObserver struct {
	mu            sync.Mutex
	methods       map[string]int
	signals       map[string]int
	registrations []error
}

func newCountingObserver() *countingObserver {
	return &countingObserver{
		methods: make(map[string]int),
		signals: make(map[string]int),
	}
}

func (o *countingObserver) MethodCalled(iface, method string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.methods[iface+"."+method]++
}

func (o *countingObserver) SignalEmitted(iface, signal string, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.signals[iface+"."+signal]++
}

func (o *countingObserver) WatcherRegistration(err error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.registrations = append(o.registrations, err)
}
