package dcg

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// EvictionKind selects a memo-table eviction policy.
type EvictionKind string

const (
	// EvictNone disables policy-driven eviction.
	EvictNone EvictionKind = "none"
	// EvictFifo evicts the oldest entries beyond the capacity.
	EvictFifo EvictionKind = "fifo"
	// EvictLru evicts the least recently used entries beyond the capacity.
	EvictLru EvictionKind = "lru"
)

// EvictionPolicy bounds memo-table size. Orthogonal to reference
// counting: the policy removes table entries, refc tears down nodes.
type EvictionPolicy struct {
	Kind     EvictionKind `yaml:"kind"`
	Capacity int          `yaml:"capacity"`
}

// EvictionTime selects when the policy is applied.
type EvictionTime string

const (
	// EvictOnFlush applies the policy when Flush drains the undo buffer.
	EvictOnFlush EvictionTime = "on_flush"
)

// Config holds the engine's instantiation options.
type Config struct {
	// RefCount enables reference-counted teardown of unreachable nodes.
	RefCount bool `yaml:"ref_count"`

	// DirtyExactly obsoletes a node's old outgoing edges at
	// re-evaluation time. When false, superseded edges are never
	// obsoleted: neither Flush nor teardown reaches them, and the
	// references they hold on their sources are not released.
	DirtyExactly bool `yaml:"dirty_exactly"`

	// CheckReceipt enables cache-equal-result suppression. When false
	// every dirty edge reports "changed" and forces re-evaluation.
	CheckReceipt bool `yaml:"check_receipt"`

	// SanitizePointers returns a fresh handle on every memo hit,
	// disabling aliasing of the canonical entry.
	SanitizePointers bool `yaml:"sanitize_pointers"`

	// DisableNames treats nominal articulations as generative.
	DisableNames bool `yaml:"disable_names"`

	// GenerativeIDs keys structural articulations by classical
	// generative identity.
	GenerativeIDs bool `yaml:"generative_ids"`

	// DisableMfns collapses every memoized call to a fresh cell
	// holding the non-incrementally computed result. Measurement mode;
	// bypasses memo tables and records no create edges.
	DisableMfns bool `yaml:"disable_mfns"`

	// DebugAssert checks that every ancestor frame's recorded edges
	// are clean whenever a new edge is created.
	DebugAssert bool `yaml:"debug_assert"`

	// Eviction bounds memo-table size.
	Eviction EvictionPolicy `yaml:"eviction"`

	// EvictionTime selects when the policy runs.
	EvictionTime EvictionTime `yaml:"eviction_time"`
}

// DefaultConfig returns the standard configuration: reference counting
// on, exact dirtying, receipt checking, no eviction policy.
func DefaultConfig() Config {
	return Config{
		RefCount:     true,
		DirtyExactly: true,
		CheckReceipt: true,
		Eviction:     EvictionPolicy{Kind: EvictNone},
		EvictionTime: EvictOnFlush,
	}
}

// Validate checks the configuration for contradictions.
func (c Config) Validate() error {
	switch c.Eviction.Kind {
	case "", EvictNone:
	case EvictFifo, EvictLru:
		if c.Eviction.Capacity <= 0 {
			return fmt.Errorf("eviction policy %q requires a positive capacity, got %d",
				c.Eviction.Kind, c.Eviction.Capacity)
		}
	default:
		return fmt.Errorf("unknown eviction kind %q", c.Eviction.Kind)
	}

	switch c.EvictionTime {
	case "", EvictOnFlush:
	default:
		return fmt.Errorf("unknown eviction time %q", c.EvictionTime)
	}

	return nil
}

// LoadConfig reads a YAML config file and overlays it on the defaults.
func LoadConfig(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("validate config %s: %w", path, err)
	}

	return cfg, nil
}
