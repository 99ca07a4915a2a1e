// Package config loads, validates, and normalizes picsort's TOML
// configuration and derives the read-only RunOptions value object the core
// packages consume.
package config
