package library

import "skillforge.ai/internal/skill/catalog"

// Seeded libraries for spawned actors. Each (depth, reps) pair sits on the
// learning engine's logistic curve for that chunk, so the first consolidation
// pass picks up from a seeded state without a depth jump.

// Conscript has formed nothing; every action runs as a raw fallback attempt.
func Conscript() *Library { return New() }

// TrainedSoldier has drilled the level-1 melee chunks and is starting to
// compile an attack sequence.
func TrainedSoldier(tick uint64) *Library {
	l := New()
	seed := func(id catalog.ChunkID, depth float64, reps int, formedAgo uint64) {
		formed := uint64(0)
		if tick > formedAgo {
			formed = tick - formedAgo
		}
		l.Set(id, &ChunkState{
			EncodingDepth: depth,
			Repetitions:   reps,
			LastUsedTick:  tick,
			FormationTick: formed,
		})
	}
	seed(catalog.BasicSwing, 0.6, 60, 1000)
	seed(catalog.BasicBlock, 0.5, 40, 1000)
	seed(catalog.BasicStance, 0.75, 60, 1000)
	seed(catalog.AttackSequence, 0.2, 25, 500)
	return l
}

// Veteran deepens the trained soldier and owns the level-2 repertoire plus a
// deeply encoded level-3 engagement chunk.
func Veteran(tick uint64) *Library {
	l := TrainedSoldier(tick)
	if s, ok := l.Get(catalog.BasicSwing); ok {
		s.EncodingDepth, s.Repetitions = 0.8, 160
	}
	if s, ok := l.Get(catalog.BasicBlock); ok {
		s.EncodingDepth, s.Repetitions = 0.75, 120
	}
	if s, ok := l.Get(catalog.BasicStance); ok {
		s.EncodingDepth, s.Repetitions = 0.8, 80
	}
	seed := func(id catalog.ChunkID, depth float64, reps int, formedAgo uint64) {
		formed := uint64(0)
		if tick > formedAgo {
			formed = tick - formedAgo
		}
		l.Set(id, &ChunkState{
			EncodingDepth: depth,
			Repetitions:   reps,
			LastUsedTick:  tick,
			FormationTick: formed,
		})
	}
	seed(catalog.AttackSequence, 0.75, 300, 2000)
	seed(catalog.DefendSequence, 0.6, 150, 2000)
	seed(catalog.Riposte, 0.5, 160, 1500)
	seed(catalog.EngageMelee, 0.8, 1600, 500)
	return l
}

// BowTrained has worked through the bow tree; the shot sequence deepens
// slowly and keeps climbing for years.
func BowTrained(tick uint64) *Library {
	l := New()
	l.Set(catalog.NockArrow, &ChunkState{EncodingDepth: 0.6, Repetitions: 90, LastUsedTick: tick, FormationTick: 0})
	l.Set(catalog.DrawAndLoose, &ChunkState{EncodingDepth: 0.5, Repetitions: 120, LastUsedTick: tick, FormationTick: 0})
	l.Set(catalog.BowShotSequence, &ChunkState{EncodingDepth: 0.25, Repetitions: 100, LastUsedTick: tick, FormationTick: 0})
	return l
}

// CrossbowTrained has worked through the crossbow tree; the sequence forms
// quickly but caps shallower than a bow ever would.
func CrossbowTrained(tick uint64) *Library {
	l := New()
	l.Set(catalog.SpanCrossbow, &ChunkState{EncodingDepth: 0.5, Repetitions: 50, LastUsedTick: tick, FormationTick: 0})
	l.Set(catalog.CrossbowAim, &ChunkState{EncodingDepth: 0.6, Repetitions: 60, LastUsedTick: tick, FormationTick: 0})
	l.Set(catalog.TriggerPull, &ChunkState{EncodingDepth: 0.75, Repetitions: 60, LastUsedTick: tick, FormationTick: 0})
	l.Set(catalog.CrossbowShotSequence, &ChunkState{EncodingDepth: 0.6, Repetitions: 90, LastUsedTick: tick, FormationTick: 0})
	return l
}
