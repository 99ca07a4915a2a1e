// Package watch listens for udev netlink events so an organize run can start
// automatically when the configured memory-card reader appears. This avoids
// udev rules that invoke the CLI as root.
package watch

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/pilebones/go-udev/netlink"

	"picsort/internal/logging"
)

// Handler is invoked after a matching partition appears and the settle delay
// has elapsed. It receives the partition device node, e.g. /dev/sdb1.
type Handler func(ctx context.Context, device string) error

// Monitor watches for block-partition add events on the configured device.
type Monitor struct {
	device  string
	settle  time.Duration
	logger  *slog.Logger
	handler Handler

	mu      sync.Mutex
	conn    *netlink.UEventConn
	quit    chan struct{}
	running bool
}

// NewMonitor creates a monitor for the given device node, e.g. /dev/sdb.
// Partitions of the device match as well. Returns nil when device is empty.
func NewMonitor(device string, settle time.Duration, logger *slog.Logger, handler Handler) *Monitor {
	device = strings.TrimSpace(device)
	if device == "" {
		return nil
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Monitor{
		device:  device,
		settle:  settle,
		logger:  logging.NewComponentLogger(logger, "watch"),
		handler: handler,
	}
}

// Start begins listening for udev netlink events. A failed netlink connect is
// non-fatal; sorting can still be triggered manually.
func (m *Monitor) Start(ctx context.Context) error {
	if m == nil {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return nil
	}

	conn := new(netlink.UEventConn)
	if err := conn.Connect(netlink.UdevEvent); err != nil {
		m.logger.Warn("failed to connect to netlink socket; card detection unavailable",
			logging.Error(err))
		return nil
	}

	m.conn = conn
	m.quit = make(chan struct{})
	m.running = true

	quit := m.quit
	go m.monitorLoop(ctx, quit)

	m.logger.Info("card monitor started", logging.String("device", m.device))
	return nil
}

// Stop shuts down the monitor.
func (m *Monitor) Stop() {
	if m == nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return
	}

	if m.quit != nil {
		close(m.quit)
		m.quit = nil
	}
	if m.conn != nil {
		_ = m.conn.Close()
		m.conn = nil
	}
	m.running = false

	m.logger.Info("card monitor stopped")
}

// Running reports whether the monitor is active.
func (m *Monitor) Running() bool {
	if m == nil {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

func (m *Monitor) monitorLoop(ctx context.Context, quit <-chan struct{}) {
	queue := make(chan netlink.UEvent)
	errs := make(chan error)

	m.mu.Lock()
	conn := m.conn
	m.mu.Unlock()
	if conn == nil {
		return
	}

	monitorQuit := conn.Monitor(queue, errs, m.buildMatcher())

	for {
		select {
		case <-ctx.Done():
			close(monitorQuit)
			return
		case <-quit:
			close(monitorQuit)
			return
		case uevent := <-queue:
			m.handleEvent(ctx, quit, uevent)
		case err := <-errs:
			m.logger.Warn("netlink monitor error", logging.Error(err))
		}
	}
}

// buildMatcher matches partitions appearing on the block subsystem.
func (m *Monitor) buildMatcher() netlink.Matcher {
	action := "add"
	rules := &netlink.RuleDefinitions{}
	rules.AddRule(netlink.RuleDefinition{
		Action: &action,
		Env: map[string]string{
			"SUBSYSTEM": "block",
			"DEVTYPE":   "partition",
		},
	})
	return rules
}

func (m *Monitor) handleEvent(ctx context.Context, quit <-chan struct{}, uevent netlink.UEvent) {
	devname := m.extractDeviceName(uevent)
	if devname == "" {
		m.logger.Debug("ignoring event without device name",
			logging.String("action", string(uevent.Action)),
			logging.String("kobj", uevent.KObj))
		return
	}

	if !m.matchesDevice(devname) {
		m.logger.Debug("ignoring event for non-configured device",
			logging.String("device", devname),
			logging.String("configured_device", m.device))
		return
	}

	m.logger.Info("card partition detected",
		logging.String("device", devname),
		logging.String("action", string(uevent.Action)))

	// Give the automounter time to mount the partition before sorting.
	if m.settle > 0 {
		timer := time.NewTimer(m.settle)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return
		case <-quit:
			return
		}
	}

	if m.handler == nil {
		return
	}
	if err := m.handler(ctx, devname); err != nil {
		m.logger.Warn("card handler failed",
			logging.Error(err),
			logging.String("device", devname))
	}
}

// matchesDevice accepts the configured device node and its partitions, so
// device = /dev/sdb matches /dev/sdb1.
func (m *Monitor) matchesDevice(devname string) bool {
	return devname == m.device || strings.HasPrefix(devname, m.device)
}

func (m *Monitor) extractDeviceName(uevent netlink.UEvent) string {
	if devname := uevent.Env["DEVNAME"]; devname != "" {
		return devname
	}
	devpath := uevent.Env["DEVPATH"]
	if devpath == "" {
		return ""
	}
	parts := strings.Split(devpath, "/")
	if len(parts) == 0 {
		return ""
	}
	return "/dev/" + parts[len(parts)-1]
}
