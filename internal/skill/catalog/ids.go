package catalog

// Well-known chunk ids from the shipped configs/chunks.json. Profiles and the
// per-action applicable lists reference these; the catalog file remains the
// source of truth and the load test checks the two stay in sync.
const (
	// Melee.
	BasicSwing     ChunkID = "basic_swing"
	BasicBlock     ChunkID = "basic_block"
	BasicStance    ChunkID = "basic_stance"
	AttackSequence ChunkID = "attack_sequence"
	DefendSequence ChunkID = "defend_sequence"
	Riposte        ChunkID = "riposte"
	EngageMelee    ChunkID = "engage_melee"
	HandleFlanking ChunkID = "handle_flanking"

	// Bow.
	NockArrow        ChunkID = "nock_arrow"
	DrawAndLoose     ChunkID = "draw_and_loose"
	BowShotSequence  ChunkID = "bow_shot_sequence"
	VolleyDiscipline ChunkID = "volley_discipline"

	// Crossbow.
	SpanCrossbow         ChunkID = "span_crossbow"
	CrossbowAim          ChunkID = "crossbow_aim"
	TriggerPull          ChunkID = "trigger_pull"
	CrossbowShotSequence ChunkID = "crossbow_shot_sequence"

	// Thrown.
	ThrowingGrip       ChunkID = "throwing_grip"
	ThrowRelease       ChunkID = "throw_release"
	ThrownShotSequence ChunkID = "thrown_shot_sequence"
)

// KnownIDs lists every id above, in catalog declaration order.
var KnownIDs = []ChunkID{
	BasicSwing, BasicBlock, BasicStance,
	AttackSequence, DefendSequence, Riposte,
	EngageMelee, HandleFlanking,
	NockArrow, DrawAndLoose, BowShotSequence, VolleyDiscipline,
	SpanCrossbow, CrossbowAim, TriggerPull, CrossbowShotSequence,
	ThrowingGrip, ThrowRelease, ThrownShotSequence,
}
