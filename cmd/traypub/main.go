// Package main provides the traypub entry point.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/spf13/cobra"

	"github.com/shelepuginivan/trayitem"
	"github.com/shelepuginivan/trayitem/internal/config"
	"github.com/shelepuginivan/trayitem/internal/inspect"
	"github.com/shelepuginivan/trayitem/internal/logging"
	"github.com/shelepuginivan/trayitem/internal/metrics"
	"github.com/shelepuginivan/trayitem/internal/version"
)

var (
	configFile string

	// Inspect flags
	inspectClick    int32
	inspectActivate bool
	inspectTimeout  time.Duration
	inspectFollow   bool

	rootCmd = &cobra.Command{
		Use:          "traypub",
		Short:        "Publish a tray item on the session bus",
		Long:         `traypub publishes a StatusNotifierItem with a dbusmenu context menu described by a YAML configuration file.`,
		RunE:         run,
		SilenceUsage: true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file path")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "run",
		Short: "Publish the tray item until interrupted",
		RunE:  run,
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version.Full())
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := loadConfig(); err != nil {
				return fmt.Errorf("configuration invalid: %w", err)
			}
			fmt.Println("Configuration is valid")
			return nil
		},
	})

	inspectCmd := &cobra.Command{
		Use:   "inspect [item]",
		Short: "Show tray items registered on the session bus",
		Long: `Show tray items the way a tray host sees them.

Without arguments, every item registered with the StatusNotifierWatcher is
printed. An item is given either as a bus name or as "<name>/<path>".`,
		Args: cobra.MaximumNArgs(1),
		RunE: runInspect,
	}

	inspectCmd.Flags().Int32Var(&inspectClick, "click", 0, "send a click event to the menu item with this id")
	inspectCmd.Flags().BoolVar(&inspectActivate, "activate", false, "activate the item")
	inspectCmd.Flags().BoolVarP(&inspectFollow, "follow", "f", false, "print tray signals until interrupted")
	inspectCmd.Flags().DurationVar(&inspectTimeout, "timeout", 5*time.Second, "timeout of each bus call")

	rootCmd.AddCommand(inspectCmd)
}

func loadConfig() (config.Config, error) {
	if configFile == "" {
		cfg := config.DefaultConfig()
		return cfg, cfg.Validate()
	}
	return config.LoadAndValidate(configFile)
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := logging.Setup(cfg.Logging); err != nil {
		return fmt.Errorf("setup logging: %w", err)
	}
	defer logging.Close()

	logger := logging.WithComponent("traypub")
	m := metrics.New()

	if cfg.Metrics.Listen != "" {
		srv := serveMetrics(cfg.Metrics, m)
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			srv.Shutdown(ctx)
		}()
	}

	opts := append(cfg.Options(),
		trayitem.WithLogger(logging.WithComponent("tray")),
		trayitem.WithObserver(m),
	)

	tray, err := trayitem.Connect(opts...)
	if err != nil {
		return err
	}
	defer tray.Close()

	p := newPublisher(tray, cfg, m, logger)
	if err := p.start(); err != nil {
		return err
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigChan)

	for {
		select {
		case sig := <-sigChan:
			if sig == syscall.SIGHUP {
				logger.Info("Reloading icon")
				if err := p.reloadIcon(); err != nil {
					logger.Warn("Failed to reload icon", "error", err)
				}
				continue
			}
			logger.Info("Received signal", "signal", sig)
			return nil
		case <-p.done():
			logger.Info("Quit requested from menu")
			return nil
		}
	}
}

func serveMetrics(cfg config.MetricsConfig, m *metrics.Metrics) *http.Server {
	mux := http.NewServeMux()
	mux.Handle(cfg.Path, m.Handler())

	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger := logging.WithComponent("metrics")

	go func() {
		logger.Info("Serving metrics", "listen", cfg.Listen, "path", cfg.Path)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Metrics server failed", "error", err)
		}
	}()

	return srv
}

func runInspect(cmd *cobra.Command, args []string) error {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return fmt.Errorf("inspect: %w: %w", trayitem.ErrNoBus, err)
	}
	defer conn.Close()

	names := args
	if len(names) == 0 {
		if names, err = inspect.RegisteredItems(conn); err != nil {
			return fmt.Errorf("inspect: %w", err)
		}
	}

	out := cmd.OutOrStdout()

	for _, itemName := range names {
		if err := inspectItem(cmd.Context(), out, conn, itemName); err != nil {
			fmt.Fprintf(out, "%s: %v\n", itemName, err)
		}
	}

	if !inspectFollow {
		return nil
	}

	var sender string
	if len(args) > 0 {
		sender, _ = inspect.SplitItemName(args[0])
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return inspect.Follow(ctx, conn, sender, func(e inspect.Event) {
		printEvent(out, e)
	})
}

func printEvent(w io.Writer, e inspect.Event) {
	switch {
	case e.Item != "":
		fmt.Fprintf(w, "%s %s\n", e.Name, e.Item)
	case e.Revision != 0:
		fmt.Fprintf(w, "%s %s revision %d\n", e.Sender, e.Name, e.Revision)
	case len(e.Updated) > 0:
		for _, up := range e.Updated {
			fmt.Fprintf(w, "%s %s [%d] %v\n", e.Sender, e.Name, up.NodeID, up.Properties)
		}
	default:
		fmt.Fprintf(w, "%s %s\n", e.Sender, e.Name)
	}
}

func inspectItem(ctx context.Context, out io.Writer, conn inspect.Conn, itemName string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	ctx, cancel := context.WithTimeout(ctx, inspectTimeout)
	defer cancel()

	name, path := inspect.SplitItemName(itemName)

	item, err := inspect.ReadItem(ctx, conn, name, path)
	if err != nil {
		return err
	}

	printItem(out, item)

	if inspectActivate {
		if err := item.Activate(ctx, 0, 0); err != nil {
			return fmt.Errorf("activate: %w", err)
		}
	}

	if item.MenuPath == "" {
		return nil
	}

	menu, err := item.Menu(ctx)
	if err != nil {
		return err
	}

	if inspectClick != 0 {
		if err := menu.Clicked(ctx, inspectClick); err != nil {
			return fmt.Errorf("click: %w", err)
		}
	}

	revision, root, err := menu.GetLayout(ctx, 0, -1, nil)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "  menu %s (revision %d, version %d)\n", item.MenuPath, revision, menu.Version)
	root.Print(out)

	return nil
}

func printItem(w io.Writer, item *inspect.Item) {
	fmt.Fprintf(w, "%s\n", item.Name())
	fmt.Fprintf(w, "  id: %s\n", item.ID)
	fmt.Fprintf(w, "  title: %s\n", item.Title)
	fmt.Fprintf(w, "  category: %s\n", item.Category)
	fmt.Fprintf(w, "  status: %s\n", item.Status)

	if item.Tooltip != "" {
		fmt.Fprintf(w, "  tooltip: %s\n", item.Tooltip)
	}
	if item.IconName != "" {
		fmt.Fprintf(w, "  icon: %s\n", item.IconName)
	}
	for _, icon := range item.IconPixmap {
		fmt.Fprintf(w, "  pixmap: %dx%d (%d bytes)\n", icon.Width, icon.Height, len(icon.Bytes))
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
