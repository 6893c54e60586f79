// Package roster stores actors in a dense, slot-indexed arena so a
// 10,000-actor tick walks one slice instead of chasing per-actor
// allocations. Each slot's library is exclusively owned by that actor's
// decision step; distinct slots may be processed in parallel.
package roster

import (
	"fmt"

	"skillforge.ai/internal/skill/attention"
	"skillforge.ai/internal/skill/library"
	"skillforge.ai/internal/sim/tuning"
)

type Profile string

const (
	ProfileConscript       Profile = "conscript"
	ProfileTrainedSoldier  Profile = "trained_soldier"
	ProfileVeteran         Profile = "veteran"
	ProfileBowTrained      Profile = "bow_trained"
	ProfileCrossbowTrained Profile = "crossbow_trained"
)

type Actor struct {
	Slot    int
	Name    string
	Profile Profile

	// Physical state owned by the battle layer; read here only to derive
	// the attention budget.
	Fatigue float64
	Pain    float64
	Stress  float64

	Library *library.Library
}

type Roster struct {
	actors []Actor
}

func New() *Roster { return &Roster{} }

// Add spawns an actor with a profile-seeded library and returns its slot.
func (r *Roster) Add(name string, profile Profile, tick uint64) (int, error) {
	var lib *library.Library
	switch profile {
	case ProfileConscript:
		lib = library.Conscript()
	case ProfileTrainedSoldier:
		lib = library.TrainedSoldier(tick)
	case ProfileVeteran:
		lib = library.Veteran(tick)
	case ProfileBowTrained:
		lib = library.BowTrained(tick)
	case ProfileCrossbowTrained:
		lib = library.CrossbowTrained(tick)
	default:
		return 0, fmt.Errorf("unknown profile %q", profile)
	}
	slot := len(r.actors)
	r.actors = append(r.actors, Actor{
		Slot:    slot,
		Name:    name,
		Profile: profile,
		Library: lib,
	})
	return slot, nil
}

func (r *Roster) Len() int { return len(r.actors) }

func (r *Roster) Actor(slot int) *Actor {
	if slot < 0 || slot >= len(r.actors) {
		return nil
	}
	return &r.actors[slot]
}

// Actors exposes the backing slice for whole-roster passes (consolidation,
// snapshots).
func (r *Roster) Actors() []Actor { return r.actors }

// BeginDecision recomputes the actor's attention budget from its current
// fatigue/pain/stress and resets the spent counter. Called once per decision
// point, before any resolution for that actor.
func (r *Roster) BeginDecision(slot int, cfg tuning.Attention) {
	a := r.Actor(slot)
	if a == nil {
		return
	}
	a.Library.BeginDecision(attention.Budget(a.Fatigue, a.Pain, a.Stress, cfg))
}
