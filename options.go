package trayitem

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/godbus/dbus/v5"
)

// DefaultRegisterTimeout bounds the call to the StatusNotifierWatcher. It
// matches the default method call timeout of the reference D-Bus daemon.
const DefaultRegisterTimeout = 25 * time.Second

// Observer receives notifications about bus traffic of a [Tray]. It is
// intended for metrics collection and must not block.
type Observer interface {
	// MethodCalled is called for every inbound method call, including
	// property reads.
	MethodCalled(iface, method string)

	// SignalEmitted is called after every attempt to emit a signal.
	SignalEmitted(iface, signal string, err error)

	// WatcherRegistration is called after every attempt to register with
	// the StatusNotifierWatcher.
	WatcherRegistration(err error)
}

type noopObserver struct{}

func (noopObserver) MethodCalled(string, string)         {}
func (noopObserver) SignalEmitted(string, string, error) {}
func (noopObserver) WatcherRegistration(error)           {}

type options struct {
	serviceName     string
	itemPath        dbus.ObjectPath
	menuPath        dbus.ObjectPath
	id              string
	title           string
	category        ItemCategory
	registerTimeout time.Duration
	logger          *slog.Logger
	observer        Observer
}

func defaultOptions() options {
	return options{
		serviceName:     fmt.Sprintf("org.kde.StatusNotifierItem-%d-1", os.Getpid()),
		itemPath:        StatusNotifierItemPath,
		menuPath:        MenuPath,
		id:              "trayitem",
		category:        ItemCategoryApplicationStatus,
		registerTimeout: DefaultRegisterTimeout,
		logger:          slog.New(slog.DiscardHandler),
		observer:        noopObserver{},
	}
}

// Option configures a [Tray].
type Option func(*options)

// WithServiceName sets the well-known bus name requested by the tray, such as
// "org.example.App.StatusNotifierItem".
func WithServiceName(name string) Option {
	return func(o *options) {
		o.serviceName = name
	}
}

// WithObjectPath sets the path of the StatusNotifierItem object.
//
// Watchers that receive a bus name in RegisterStatusNotifierItem assume
// [StatusNotifierItemPath], so changing it is only useful with watchers that
// query the path explicitly.
func WithObjectPath(path dbus.ObjectPath) Option {
	return func(o *options) {
		o.itemPath = path
	}
}

// WithMenuPath sets the path of the dbusmenu object.
func WithMenuPath(path dbus.ObjectPath) Option {
	return func(o *options) {
		o.menuPath = path
	}
}

// WithID sets the Id property of the item. The default title is the ID unless
// [WithTitle] is used.
func WithID(id string) Option {
	return func(o *options) {
		o.id = id
	}
}

// WithTitle sets the initial Title property of the item.
func WithTitle(title string) Option {
	return func(o *options) {
		o.title = title
	}
}

// WithCategory sets the Category property of the item.
func WithCategory(category ItemCategory) Option {
	return func(o *options) {
		o.category = category
	}
}

// WithRegisterTimeout bounds the synchronous call to the
// StatusNotifierWatcher.
func WithRegisterTimeout(timeout time.Duration) Option {
	return func(o *options) {
		if timeout > 0 {
			o.registerTimeout = timeout
		}
	}
}

// WithLogger sets the logger. By default nothing is logged.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithObserver sets the observer of bus traffic.
func WithObserver(observer Observer) Option {
	return func(o *options) {
		if observer != nil {
			o.observer = observer
		}
	}
}
