// Package arena runs training drills over a roster: every tick each actor
// gets one decision point and attempts the drill actions for its profile;
// on a fixed cadence every actor's pending experience is consolidated. The
// arena is the "battle logic" caller of the skill engine, kept deliberately
// simple: no damage, formations or morale, just the engine contract
// exercised at scale.
package arena

import (
	"context"
	"strconv"
	"sync"
	"time"

	"skillforge.ai/internal/protocol"
	"skillforge.ai/internal/skill/catalog"
	"skillforge.ai/internal/skill/learning"
	"skillforge.ai/internal/skill/resolve"
	"skillforge.ai/internal/skill/roster"
	"skillforge.ai/internal/skill/situation"
	"skillforge.ai/internal/sim/tuning"
)

// Sink receives the event stream. Implementations must not block the tick
// loop.
type Sink interface {
	Outcome(protocol.OutcomeEventMsg)
	Consolidation(protocol.ConsolidationEventMsg)
}

// NopSink discards everything.
type NopSink struct{}

func (NopSink) Outcome(protocol.OutcomeEventMsg)             {}
func (NopSink) Consolidation(protocol.ConsolidationEventMsg) {}

type Config struct {
	ID string
}

// Arena state is advanced only by Step; given the same catalog, tuning and
// roster, a run of N steps is bit-for-bit reproducible.
type Arena struct {
	ID string

	cat    *catalog.Catalog
	tune   tuning.Tuning
	ros    *roster.Roster
	engine *resolve.Engine
	sink   Sink

	tick uint64
}

func New(cfg Config, cat *catalog.Catalog, tune tuning.Tuning, ros *roster.Roster, sink Sink) *Arena {
	if sink == nil {
		sink = NopSink{}
	}
	return &Arena{
		ID:     cfg.ID,
		cat:    cat,
		tune:   tune,
		ros:    ros,
		engine: resolve.New(cat, tune.Resolve),
		sink:   sink,
	}
}

func (a *Arena) Tick() uint64           { return a.tick }
func (a *Arena) SetTick(t uint64)       { a.tick = t }
func (a *Arena) Roster() *roster.Roster { return a.ros }

// SetSink swaps the event sink. Call before Run/Step, not during.
func (a *Arena) SetSink(sink Sink) {
	if sink == nil {
		sink = NopSink{}
	}
	a.sink = sink
}

func (a *Arena) Welcome() protocol.WelcomeMsg {
	return protocol.WelcomeMsg{
		Type:            protocol.TypeWelcome,
		ProtocolVersion: protocol.Version,
		ArenaID:         a.ID,
		ServerTick:      a.tick,
		CatalogDigest:   a.cat.Digest,
		ArenaParams: protocol.ArenaParams{
			TickRateHz:            a.tune.TickRateHz,
			Actors:                a.ros.Len(),
			ConsolidateEveryTicks: a.tune.ConsolidateEveryTicks,
		},
	}
}

// Run drives Step at the configured tick rate until the context is canceled.
// afterStep, if non-nil, runs on the tick goroutine after every step; callers
// use it to interleave work such as snapshots with the tick cadence.
func (a *Arena) Run(ctx context.Context, afterStep func(tick uint64)) error {
	interval := time.Second / time.Duration(a.tune.TickRateHz)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			a.Step()
			if afterStep != nil {
				afterStep(a.tick)
			}
		}
	}
}

// Step advances one tick. All per-actor work inside a tick is serialized per
// actor: an actor's resolutions never overlap each other, and consolidation
// never overlaps resolution for the same actor.
func (a *Arena) Step() {
	a.tick++

	for i := 0; i < a.ros.Len(); i++ {
		a.ros.BeginDecision(i, a.tune.Attention)
		act := a.ros.Actor(i)
		a.drill(act)
	}

	if a.tune.ConsolidateEveryTicks > 0 && a.tick%uint64(a.tune.ConsolidateEveryTicks) == 0 {
		a.consolidateAll()
	}
}

// Consolidate flushes every actor's pending experience immediately, off the
// usual cadence. Used before shutdown snapshots so nothing unflushed is lost.
func (a *Arena) Consolidate() { a.consolidateAll() }

// drill runs the profile's scripted actions for this decision point and
// feeds fatigue back from spent attention.
func (a *Arena) drill(act *roster.Actor) {
	actions := drillActions(act.Profile)
	ctx := a.drillContext(act.Profile)

	for _, action := range actions {
		applicable, ok := resolve.ForCategory(action)
		if !ok {
			continue
		}
		out := a.engine.Resolve(act.Library, applicable, ctx, a.tick)
		a.sink.Outcome(protocol.OutcomeEventMsg{
			Type:            protocol.TypeOutcome,
			ProtocolVersion: protocol.Version,
			Tick:            a.tick,
			ActorSlot:       act.Slot,
			ActorName:       act.Name,
			Action:          action,
			Outcome:         string(out.Kind),
			Chunk:           string(out.Chunk),
			SkillModifier:   out.SkillModifier,
			AttentionCost:   out.AttentionCost,
			AttentionLeft:   act.Library.AttentionRemaining(),
		})
		if out.Kind == resolve.AttentionOverload {
			break
		}
	}

	// Drilling tires you out; idle decisions recover.
	act.Fatigue += 0.002 * act.Library.Spent()
	act.Fatigue -= 0.0005
	if act.Fatigue > 1 {
		act.Fatigue = 1
	}
	if act.Fatigue < 0 {
		act.Fatigue = 0
	}
}

func drillActions(p roster.Profile) []string {
	switch p {
	case roster.ProfileBowTrained:
		return []string{"bow_attack"}
	case roster.ProfileCrossbowTrained:
		return []string{"crossbow_attack"}
	case roster.ProfileVeteran:
		return []string{"melee_attack", "melee_defense", "riposte"}
	default:
		return []string{"melee_attack", "melee_defense"}
	}
}

func (a *Arena) drillContext(p roster.Profile) situation.Context {
	switch p {
	case roster.ProfileBowTrained:
		return situation.New().
			With(situation.AtRange).
			With(situation.WieldingBow).
			With(situation.AmmoAvailable).
			With(situation.TargetVisible)
	case roster.ProfileCrossbowTrained:
		ctx := situation.New().
			With(situation.AtRange).
			With(situation.WieldingCrossbow).
			With(situation.TargetVisible)
		// The crossbow spends half its drill time unloaded.
		if a.tick%2 == 0 {
			ctx = ctx.With(situation.CrossbowLoaded)
		}
		return ctx
	default:
		ctx := situation.New().
			With(situation.InMelee).
			With(situation.EnemyVisible)
		if a.tick%7 == 0 {
			ctx = ctx.With(situation.MultipleEnemies)
		}
		return ctx
	}
}

// consolidateAll runs the learning pass across the roster, sharded over
// goroutines. Safe because each actor's library is touched by exactly one
// goroutine and resolution for this tick has already finished.
func (a *Arena) consolidateAll() {
	actors := a.ros.Actors()
	events := make([]protocol.ConsolidationEventMsg, len(actors))

	var wg sync.WaitGroup
	for i := range actors {
		wg.Add(1)
		go func(act *roster.Actor, ev *protocol.ConsolidationEventMsg) {
			defer wg.Done()
			before := make(map[catalog.ChunkID]bool, len(act.Library.Chunks()))
			for id := range act.Library.Chunks() {
				before[id] = true
			}
			pending := len(act.Library.PendingExperiences())

			learning.Consolidate(a.cat, act.Library, a.tick, a.tune.Learning)

			// Walk catalog order so FormedChunks is identical across runs;
			// map iteration would scramble the wire and log streams.
			var formed []string
			for _, id := range a.cat.Order {
				if _, ok := act.Library.Chunks()[id]; ok && !before[id] {
					formed = append(formed, string(id))
				}
			}
			*ev = protocol.ConsolidationEventMsg{
				Type:            protocol.TypeConsolidation,
				ProtocolVersion: protocol.Version,
				Tick:            a.tick,
				ActorSlot:       act.Slot,
				ActorName:       act.Name,
				Experiences:     pending,
				OwnedChunks:     len(act.Library.Chunks()),
				FormedChunks:    formed,
			}
		}(&actors[i], &events[i])
	}
	wg.Wait()

	for _, ev := range events {
		a.sink.Consolidation(ev)
	}
}

// SeedRoster populates a roster with a deterministic mix of profiles.
func SeedRoster(ros *roster.Roster, n int, tick uint64) error {
	profiles := []roster.Profile{
		roster.ProfileConscript,
		roster.ProfileConscript,
		roster.ProfileTrainedSoldier,
		roster.ProfileVeteran,
		roster.ProfileBowTrained,
		roster.ProfileCrossbowTrained,
	}
	for i := 0; i < n; i++ {
		p := profiles[i%len(profiles)]
		name := string(p) + "_" + strconv.Itoa(i)
		if _, err := ros.Add(name, p, tick); err != nil {
			return err
		}
	}
	return nil
}
