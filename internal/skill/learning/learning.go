// Package learning consolidates practice into encoding depth, forms new
// chunks whose prerequisites are mastered, and rusts chunks that sit unused.
// It runs on a cadence, never on the resolution hot path.
package learning

import (
	"skillforge.ai/internal/skill/catalog"
	"skillforge.ai/internal/skill/library"
	"skillforge.ai/internal/sim/tuning"
)

// rate is the per-chunk slope of the logistic encoding curve. Chunks with a
// high base repetition count (a full bow shot) deepen far more slowly than
// cheap ones (a crossbow trigger pull).
func rate(def catalog.ChunkDef, cfg tuning.Learning) float64 {
	return cfg.LearningRate * cfg.RateReferenceReps / float64(def.BaseRepetitions)
}

// Ceiling is the maximum encoding depth this chunk can ever reach. Hard
// skills climb slowly but cap near the global maximum; trivial ones cap
// shallower, so a crossbow can never match a mastered bow.
func Ceiling(def catalog.ChunkDef, cfg tuning.Learning) float64 {
	c := cfg.CeilingBase + cfg.CeilingPerRep*float64(def.BaseRepetitions)
	if c > cfg.MaxEncoding {
		return cfg.MaxEncoding
	}
	return c
}

// DepthForReps maps a repetition count onto encoding depth: fast early gains,
// strongly diminishing near mastery, clamped to [MinEncoding, Ceiling].
func DepthForReps(def catalog.ChunkDef, reps int, cfg tuning.Learning) float64 {
	d := 1.0 - 1.0/(1.0+float64(reps)*rate(def, cfg))
	if ceil := Ceiling(def, cfg); d > ceil {
		d = ceil
	}
	if d < cfg.MinEncoding {
		d = cfg.MinEncoding
	}
	return d
}

// Consolidate drains the library's pending experiences into repetition counts
// and encoding depths, forms any chunk whose prerequisites are now deep
// enough, and applies rust decay. Must not run concurrently with a resolution
// call for the same actor.
func Consolidate(cat *catalog.Catalog, lib *library.Library, tick uint64, cfg tuning.Learning) {
	for _, exp := range lib.PendingExperiences() {
		if state, ok := lib.Get(exp.Chunk); ok {
			def, known := cat.Lookup(exp.Chunk)
			if !known {
				// Stale id from an older catalog; leave the state alone.
				continue
			}
			if exp.Success {
				state.Repetitions++
			}
			// Failures net out to zero repetitions but still refresh
			// last-used below: botched practice is not forgetting.
			state.EncodingDepth = DepthForReps(def, state.Repetitions, cfg)
			state.LastUsedTick = exp.Tick
		} else {
			// Experience against an un-owned chunk is a formation signal.
			tryForm(cat, lib, exp.Chunk, tick, cfg)
		}
	}
	lib.ClearExperiences()

	for _, id := range cat.Order {
		if !lib.Has(id) {
			tryForm(cat, lib, id, tick, cfg)
		}
	}

	rust(lib, tick, cfg)
}

func tryForm(cat *catalog.Catalog, lib *library.Library, id catalog.ChunkID, tick uint64, cfg tuning.Learning) {
	if lib.Has(id) {
		return
	}
	def, ok := cat.Lookup(id)
	if !ok {
		return
	}
	for _, pre := range def.Prerequisites {
		s, owned := lib.Get(pre)
		if !owned || s.EncodingDepth <= cfg.FormationDepthThreshold {
			return
		}
	}
	lib.Set(id, library.NewChunkState(tick))
}

// rust decays chunks idle past the threshold, proportionally to how long past
// it they are, never below the floor. A chunk once formed is never deleted.
func rust(lib *library.Library, tick uint64, cfg tuning.Learning) {
	for _, state := range lib.Chunks() {
		idle := tick - state.LastUsedTick
		if tick < state.LastUsedTick || idle <= cfg.RustThresholdTicks {
			continue
		}
		decay := float64(idle-cfg.RustThresholdTicks) * cfg.RustRate
		d := state.EncodingDepth - decay
		if d < cfg.MinEncoding {
			d = cfg.MinEncoding
		}
		state.EncodingDepth = d
	}
}
