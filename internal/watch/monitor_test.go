package watch

import (
	"context"
	"testing"
	"time"

	"github.com/pilebones/go-udev/netlink"
)

func TestNewMonitor(t *testing.T) {
	t.Run("empty device returns nil", func(t *testing.T) {
		if m := NewMonitor("  ", 0, nil, nil); m != nil {
			t.Error("expected nil monitor for empty device")
		}
	})

	t.Run("valid device creates monitor", func(t *testing.T) {
		m := NewMonitor("/dev/sdb", 0, nil, nil)
		if m == nil {
			t.Fatal("expected non-nil monitor")
		}
		if m.device != "/dev/sdb" {
			t.Errorf("device = %s", m.device)
		}
	})
}

func TestMonitorLifecycleSafety(t *testing.T) {
	t.Run("nil monitor is inert", func(t *testing.T) {
		var m *Monitor
		if err := m.Start(context.Background()); err != nil {
			t.Fatalf("Start on nil monitor: %v", err)
		}
		m.Stop()
		if m.Running() {
			t.Error("nil monitor reports running")
		}
	})

	t.Run("stop on unstarted monitor is safe", func(t *testing.T) {
		m := NewMonitor("/dev/sdb", 0, nil, nil)
		m.Stop()
		m.Stop()
		if m.Running() {
			t.Error("unstarted monitor reports running")
		}
	})
}

func TestBuildMatcher(t *testing.T) {
	m := NewMonitor("/dev/sdb", 0, nil, nil)
	matcher := m.buildMatcher()

	partitionAdd := netlink.UEvent{
		Action: netlink.ADD,
		Env: map[string]string{
			"SUBSYSTEM": "block",
			"DEVTYPE":   "partition",
		},
	}
	if !matcher.Evaluate(partitionAdd) {
		t.Error("expected matcher to accept partition add event")
	}

	diskAdd := netlink.UEvent{
		Action: netlink.ADD,
		Env: map[string]string{
			"SUBSYSTEM": "block",
			"DEVTYPE":   "disk",
		},
	}
	if matcher.Evaluate(diskAdd) {
		t.Error("expected matcher to reject whole-disk event")
	}

	partitionRemove := netlink.UEvent{
		Action: netlink.REMOVE,
		Env: map[string]string{
			"SUBSYSTEM": "block",
			"DEVTYPE":   "partition",
		},
	}
	if matcher.Evaluate(partitionRemove) {
		t.Error("expected matcher to reject remove action")
	}
}

func TestHandleEvent(t *testing.T) {
	quit := make(chan struct{})

	t.Run("calls handler for configured device partition", func(t *testing.T) {
		var got string
		handler := func(_ context.Context, device string) error {
			got = device
			return nil
		}
		m := NewMonitor("/dev/sdb", 0, nil, handler)
		m.handleEvent(context.Background(), quit, netlink.UEvent{
			Action: netlink.ADD,
			Env:    map[string]string{"DEVNAME": "/dev/sdb1"},
		})
		if got != "/dev/sdb1" {
			t.Errorf("handler device = %q", got)
		}
	})

	t.Run("ignores other devices", func(t *testing.T) {
		called := false
		m := NewMonitor("/dev/sdb", 0, nil, func(context.Context, string) error {
			called = true
			return nil
		})
		m.handleEvent(context.Background(), quit, netlink.UEvent{
			Action: netlink.ADD,
			Env:    map[string]string{"DEVNAME": "/dev/sdc1"},
		})
		if called {
			t.Error("handler called for non-configured device")
		}
	})

	t.Run("ignores event without device name", func(t *testing.T) {
		called := false
		m := NewMonitor("/dev/sdb", 0, nil, func(context.Context, string) error {
			called = true
			return nil
		})
		m.handleEvent(context.Background(), quit, netlink.UEvent{
			Action: netlink.ADD,
			Env:    map[string]string{},
		})
		if called {
			t.Error("handler called without device name")
		}
	})

	t.Run("derives device from DEVPATH", func(t *testing.T) {
		var got string
		m := NewMonitor("/dev/sdb", 0, nil, func(_ context.Context, device string) error {
			got = device
			return nil
		})
		m.handleEvent(context.Background(), quit, netlink.UEvent{
			Action: netlink.ADD,
			Env:    map[string]string{"DEVPATH": "/devices/pci0000:00/usb1/1-1/host6/target6:0:0/6:0:0:0/block/sdb/sdb1"},
		})
		if got != "/dev/sdb1" {
			t.Errorf("handler device = %q", got)
		}
	})

	t.Run("cancelled context skips settle and handler", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		called := false
		m := NewMonitor("/dev/sdb", time.Minute, nil, func(context.Context, string) error {
			called = true
			return nil
		})
		done := make(chan struct{})
		go func() {
			defer close(done)
			m.handleEvent(ctx, quit, netlink.UEvent{
				Action: netlink.ADD,
				Env:    map[string]string{"DEVNAME": "/dev/sdb1"},
			})
		}()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("handleEvent did not return promptly on cancelled context")
		}
		if called {
			t.Error("handler called despite cancelled context")
		}
	})
}
