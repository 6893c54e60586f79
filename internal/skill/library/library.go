// Package library holds per-actor skill state: which chunks the actor has
// formed, how automatic each one is, and the attention ledger for the current
// decision point. A Library is exclusively owned by its actor; nothing here
// locks.
package library

import "skillforge.ai/internal/skill/catalog"

// ChunkState is the personal state of one formed chunk. Encoding depth runs
// from 0.1 (conscious, effortful) to just under 1.0 (automatic); it never
// reaches 1.0 so the attention cost never reaches zero.
type ChunkState struct {
	EncodingDepth float64 `json:"encoding_depth"`
	Repetitions   int     `json:"repetitions"`
	LastUsedTick  uint64  `json:"last_used_tick"`
	FormationTick uint64  `json:"formation_tick"`
}

// AttentionCost is what executing this chunk consumes from the budget.
func (s *ChunkState) AttentionCost() float64 { return 1.0 - s.EncodingDepth }

// NewChunkState is the state of a freshly formed chunk.
func NewChunkState(tick uint64) *ChunkState {
	return &ChunkState{
		EncodingDepth: 0.1,
		Repetitions:   1,
		LastUsedTick:  tick,
		FormationTick: tick,
	}
}

// Experience is one recorded practice attempt, consolidated later by the
// learning engine.
type Experience struct {
	Chunk   catalog.ChunkID `json:"chunk"`
	Success bool            `json:"success"`
	Tick    uint64          `json:"tick"`
}

// Library is one actor's chunk state plus the per-decision attention ledger.
type Library struct {
	chunks  map[catalog.ChunkID]*ChunkState
	pending []Experience

	budget float64
	spent  float64
}

func New() *Library {
	return &Library{
		chunks: make(map[catalog.ChunkID]*ChunkState),
		budget: 1.0,
	}
}

func (l *Library) Has(id catalog.ChunkID) bool {
	_, ok := l.chunks[id]
	return ok
}

func (l *Library) Get(id catalog.ChunkID) (*ChunkState, bool) {
	s, ok := l.chunks[id]
	return s, ok
}

func (l *Library) Set(id catalog.ChunkID, s *ChunkState) {
	l.chunks[id] = s
}

// Chunks exposes the owned-chunk map for iteration. Callers must not mutate
// it while a resolution for the same actor is in flight.
func (l *Library) Chunks() map[catalog.ChunkID]*ChunkState { return l.chunks }

// BeginDecision resets the attention ledger for a new decision point.
func (l *Library) BeginDecision(budget float64) {
	l.budget = budget
	l.spent = 0
}

func (l *Library) Budget() float64 { return l.budget }
func (l *Library) Spent() float64  { return l.spent }

func (l *Library) AttentionRemaining() float64 {
	if r := l.budget - l.spent; r > 0 {
		return r
	}
	return 0
}

// Spend commits cost against the remaining budget. It either commits fully
// and returns true, or leaves the ledger untouched and returns false. This is
// the engine's only admission-control gate.
func (l *Library) Spend(cost float64) bool {
	if cost > l.AttentionRemaining() {
		return false
	}
	l.spent += cost
	return true
}

// RecordExperience appends a practice attempt for later consolidation. It
// deliberately does not touch encoding depth: the resolution hot path stays
// O(owned chunks).
func (l *Library) RecordExperience(id catalog.ChunkID, success bool, tick uint64) {
	l.pending = append(l.pending, Experience{Chunk: id, Success: success, Tick: tick})
}

func (l *Library) PendingExperiences() []Experience { return l.pending }

func (l *Library) ClearExperiences() { l.pending = l.pending[:0] }
