// Package catalog holds the process-wide table of learnable behavior chunks.
// It is loaded once at startup from configs/chunks.json, validated, and shared
// read-only by every actor.
package catalog

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

type ChunkID string

type Domain string

const (
	DomainMelee    Domain = "melee"
	DomainBow      Domain = "bow"
	DomainCrossbow Domain = "crossbow"
	DomainThrown   Domain = "thrown"
)

type ChunkDef struct {
	ID     ChunkID `json:"id"`
	Name   string  `json:"name"`
	Domain Domain  `json:"domain"`
	Level  int     `json:"level"`
	// Components is empty for atomic (level 1) chunks; composites list the
	// lower-level chunks they compile together, in execution order.
	Components []ChunkID `json:"components,omitempty"`
	// Requires lists the context tags that must all be present for the chunk
	// to be eligible during matching.
	Requires []string `json:"requires,omitempty"`
	// Prerequisites must be personally owned above the formation depth
	// threshold before this chunk can form.
	Prerequisites []ChunkID `json:"prerequisites,omitempty"`
	// BaseRepetitions scales with real-world training difficulty: it sets
	// both how fast the chunk deepens and how deep it can ultimately go.
	BaseRepetitions int `json:"base_repetitions"`
}

func (d *ChunkDef) Atomic() bool { return len(d.Components) == 0 }

type Catalog struct {
	// Order preserves declaration order from chunks.json; matching ties are
	// broken by it, so it must be stable across loads.
	Order  []ChunkID
	Defs   map[ChunkID]ChunkDef
	Digest string
}

func (c *Catalog) Lookup(id ChunkID) (ChunkDef, bool) {
	d, ok := c.Defs[id]
	return d, ok
}

// Load reads chunks.json from configDir. If schemaDir is non-empty the raw
// document is first validated against chunks.schema.json; structural
// integrity (dangling references, level arithmetic) is always checked.
func Load(configDir, schemaDir string) (*Catalog, error) {
	path := filepath.Join(configDir, "chunks.json")
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if schemaDir != "" {
		s, err := jsonschema.Compile(filepath.Join(schemaDir, "chunks.schema.json"))
		if err != nil {
			return nil, fmt.Errorf("chunks.schema.json: %w", err)
		}
		var doc any
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("chunks.json: %w", err)
		}
		if err := s.Validate(doc); err != nil {
			return nil, fmt.Errorf("chunks.json: %w", err)
		}
	}

	var defs []ChunkDef
	if err := json.Unmarshal(raw, &defs); err != nil {
		return nil, fmt.Errorf("chunks.json: %w", err)
	}

	c := &Catalog{
		Defs:   make(map[ChunkID]ChunkDef, len(defs)),
		Order:  make([]ChunkID, 0, len(defs)),
		Digest: sha256Hex(raw),
	}
	for _, d := range defs {
		if d.ID == "" {
			return nil, fmt.Errorf("chunks.json: empty id")
		}
		if _, dup := c.Defs[d.ID]; dup {
			return nil, fmt.Errorf("chunks.json: duplicate id %q", d.ID)
		}
		c.Defs[d.ID] = d
		c.Order = append(c.Order, d.ID)
	}

	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// validate enforces the catalog integrity invariants: every referenced id
// resolves, atomics are level 1, and a composite's level is one more than the
// maximum level among its components. Components must be strictly lower
// level, which rules out cycles by construction.
func (c *Catalog) validate() error {
	for _, id := range c.Order {
		d := c.Defs[id]
		if d.BaseRepetitions < 1 {
			return fmt.Errorf("chunk %q: base_repetitions must be >= 1", id)
		}
		if d.Atomic() {
			if d.Level != 1 {
				return fmt.Errorf("chunk %q: atomic chunks are level 1, got %d", id, d.Level)
			}
		} else {
			maxComp := 0
			for _, comp := range d.Components {
				cd, ok := c.Defs[comp]
				if !ok {
					return fmt.Errorf("chunk %q: unknown component %q", id, comp)
				}
				if cd.Level >= d.Level {
					return fmt.Errorf("chunk %q: component %q is level %d, not below %d", id, comp, cd.Level, d.Level)
				}
				if cd.Level > maxComp {
					maxComp = cd.Level
				}
			}
			if d.Level != maxComp+1 {
				return fmt.Errorf("chunk %q: level %d, expected %d from components", id, d.Level, maxComp+1)
			}
		}
		for _, pre := range d.Prerequisites {
			if _, ok := c.Defs[pre]; !ok {
				return fmt.Errorf("chunk %q: unknown prerequisite %q", id, pre)
			}
		}
	}
	return nil
}

func sha256Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
