// Package resolve decides, for one combat action, which owned chunk executes,
// commits its attention cost, and grades the result. Resolution is a pure,
// synchronous computation: given the same library, context and catalog it
// always returns the same outcome and mutates state identically.
package resolve

import (
	"skillforge.ai/internal/skill/catalog"
	"skillforge.ai/internal/skill/library"
	"skillforge.ai/internal/skill/situation"
	"skillforge.ai/internal/sim/tuning"
)

type Kind string

const (
	// Success and Critical carry the encoding depth outward as the skill
	// modifier; it is the engine's only numeric skill signal.
	Success  Kind = "success"
	Critical Kind = "critical"
	// Fumble: the actor was overloaded and the executed chunk unpracticed.
	Fumble Kind = "fumble"
	// AttentionOverload: the action could not be attempted at all this
	// decision. No state changed. Frequent and expected for unskilled
	// actors, not an error.
	AttentionOverload Kind = "attention_overload"
)

type Outcome struct {
	Kind          Kind
	SkillModifier float64
	// Chunk is empty when the actor fell back to a raw, unchunked attempt.
	Chunk         catalog.ChunkID
	AttentionCost float64
}

func (o Outcome) IsSuccess() bool { return o.Kind == Success || o.Kind == Critical }

type Engine struct {
	cat *catalog.Catalog
	cfg tuning.Resolve
}

func New(cat *catalog.Catalog, cfg tuning.Resolve) *Engine {
	return &Engine{cat: cat, cfg: cfg}
}

// match scans the applicable candidates in order and keeps the best-scoring
// owned, situationally eligible chunk. Hierarchy level dominates the score,
// then personal mastery, then situational fit as a tie-breaker; a later
// candidate must score strictly higher to displace an earlier one, so ties
// resolve by list order.
func (e *Engine) match(lib *library.Library, applicable []catalog.ChunkID, ctx situation.Context) (catalog.ChunkID, float64, bool) {
	var (
		bestID    catalog.ChunkID
		bestDepth float64
		bestScore = -1.0
		found     bool
	)
	for _, id := range applicable {
		state, owned := lib.Get(id)
		if !owned {
			continue
		}
		def, known := e.cat.Lookup(id)
		if !known {
			// Library carries an id this catalog no longer has; treat the
			// candidate as absent rather than failing the whole tick.
			continue
		}
		quality := ctx.MatchQuality(def.Requires)
		if quality < e.cfg.ContextQualityCutoff {
			continue
		}
		score := float64(def.Level)*10 + state.EncodingDepth*5 + quality*3
		if score > bestScore {
			bestScore = score
			bestID = id
			bestDepth = state.EncodingDepth
			found = true
		}
	}
	return bestID, bestDepth, found
}

// Resolve runs one action attempt for one actor. The caller supplies the
// ordered applicable-chunk list for the action category; new weapon families
// are new lists and catalog entries, never new branches here.
func (e *Engine) Resolve(lib *library.Library, applicable []catalog.ChunkID, ctx situation.Context, tick uint64) Outcome {
	matched, depth, found := e.match(lib, applicable, ctx)
	if !found {
		// Raw, unchunked attempt: an unskilled conscript still can act,
		// just very expensively and unreliably.
		depth = e.cfg.FallbackDepth
	}
	cost := 1.0 - depth

	if !lib.Spend(cost) {
		return Outcome{Kind: AttentionOverload}
	}

	// eps keeps the boundary case (full budget minus the fallback cost lands
	// exactly on the threshold) from flipping on float rounding.
	const eps = 1e-9
	fumbled := lib.AttentionRemaining()+eps < e.cfg.FumbleAttentionThreshold &&
		depth < e.cfg.FumbleDepthThreshold

	if found {
		lib.RecordExperience(matched, !fumbled, tick)
		if state, ok := lib.Get(matched); ok {
			state.LastUsedTick = tick
		}
	}

	if fumbled {
		return Outcome{Kind: Fumble, Chunk: matched, AttentionCost: cost}
	}
	kind := Success
	if depth > e.cfg.CriticalDepthThreshold {
		kind = Critical
	}
	return Outcome{Kind: kind, SkillModifier: depth, Chunk: matched, AttentionCost: cost}
}
