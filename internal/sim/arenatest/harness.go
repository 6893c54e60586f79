// Package arenatest drives a full arena through its exported surface only:
// seeded roster, tick stepping, event sink, snapshot store. Tests here cover
// the engine as battle logic sees it, not package internals.
package arenatest

import (
	"os"
	"path/filepath"
	"testing"

	"skillforge.ai/internal/protocol"
	"skillforge.ai/internal/skill/catalog"
	"skillforge.ai/internal/skill/roster"
	"skillforge.ai/internal/sim/arena"
	"skillforge.ai/internal/sim/tuning"
)

type Harness struct {
	T    *testing.T
	Cat  *catalog.Catalog
	Tune tuning.Tuning
	A    *arena.Arena
	Sink *RecordingSink
}

// RecordingSink captures the event stream in order. Step delivers events on
// the calling goroutine, so no locking is needed.
type RecordingSink struct {
	Outcomes       []protocol.OutcomeEventMsg
	Consolidations []protocol.ConsolidationEventMsg
}

func (s *RecordingSink) Outcome(m protocol.OutcomeEventMsg) { s.Outcomes = append(s.Outcomes, m) }
func (s *RecordingSink) Consolidation(m protocol.ConsolidationEventMsg) {
	s.Consolidations = append(s.Consolidations, m)
}

func repoRoot(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatalf("could not find repo root from %s", dir)
		}
		dir = parent
	}
}

// NewHarness loads the shipped catalog with schema validation, the shipped
// tuning, and seeds n actors.
func NewHarness(t *testing.T, n int) *Harness {
	t.Helper()
	root := repoRoot(t)
	cat, err := catalog.Load(filepath.Join(root, "configs"), filepath.Join(root, "schemas"))
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	tune, err := tuning.Load(filepath.Join(root, "configs", "tuning.yaml"))
	if err != nil {
		t.Fatalf("load tuning: %v", err)
	}

	ros := roster.New()
	if err := arena.SeedRoster(ros, n, 0); err != nil {
		t.Fatalf("seed roster: %v", err)
	}
	sink := &RecordingSink{}
	return &Harness{
		T:    t,
		Cat:  cat,
		Tune: tune,
		A:    arena.New(arena.Config{ID: "arenatest"}, cat, tune, ros, sink),
		Sink: sink,
	}
}

func (h *Harness) StepFor(n int) {
	h.T.Helper()
	for i := 0; i < n; i++ {
		h.A.Step()
	}
}

func (h *Harness) Actor(slot int) *roster.Actor {
	h.T.Helper()
	a := h.A.Roster().Actor(slot)
	if a == nil {
		h.T.Fatalf("no actor in slot %d", slot)
	}
	return a
}

// ActorByProfile finds the first actor with the given profile.
func (h *Harness) ActorByProfile(p roster.Profile) *roster.Actor {
	h.T.Helper()
	for _, a := range h.A.Roster().Actors() {
		if a.Profile == p {
			return h.A.Roster().Actor(a.Slot)
		}
	}
	h.T.Fatalf("no actor with profile %s", p)
	return nil
}
