package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateSorting(); err != nil {
		return err
	}
	if err := c.validateWatch(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.DestRoot) == "" {
		return errors.New("paths.dest_root must be set")
	}
	return nil
}

func (c *Config) validateSorting() error {
	switch c.Sorting.GroupBy {
	case "camera", "lens":
	default:
		return fmt.Errorf("sorting.group_by must be \"camera\" or \"lens\", got %q", c.Sorting.GroupBy)
	}
	switch c.Sorting.Hierarchy {
	case "device-first", "date-first":
	default:
		return fmt.Errorf("sorting.hierarchy must be \"device-first\" or \"date-first\", got %q", c.Sorting.Hierarchy)
	}
	switch c.Sorting.Operation {
	case "copy", "move":
	default:
		return fmt.Errorf("sorting.operation must be \"copy\" or \"move\", got %q", c.Sorting.Operation)
	}
	switch c.Sorting.Policy {
	case "rename", "skip", "ask":
	default:
		return fmt.Errorf("sorting.policy must be \"rename\", \"skip\" or \"ask\", got %q", c.Sorting.Policy)
	}
	if c.Sorting.Workers < 1 {
		return errors.New("sorting.workers must be at least 1")
	}
	return nil
}

func (c *Config) validateWatch() error {
	if strings.TrimSpace(c.Watch.Device) == "" {
		return nil
	}
	if strings.TrimSpace(c.Watch.MountPoint) == "" {
		return errors.New("watch.mount_point must be set when watch.device is configured")
	}
	if c.Watch.SettleSeconds < 0 {
		return errors.New("watch.settle_seconds must not be negative")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be \"console\" or \"json\", got %q", c.Logging.Format)
	}
	return nil
}
