package resolve

import "skillforge.ai/internal/skill/catalog"

// Per-action-category applicable chunk lists, in catalog declaration order.
// Matching ties break toward the earlier entry.

var MeleeAttackChunks = []catalog.ChunkID{
	catalog.BasicSwing,
	catalog.AttackSequence,
	catalog.EngageMelee,
	catalog.HandleFlanking,
}

var MeleeDefenseChunks = []catalog.ChunkID{
	catalog.BasicBlock,
	catalog.DefendSequence,
	catalog.EngageMelee,
	catalog.HandleFlanking,
}

var RiposteChunks = []catalog.ChunkID{
	catalog.Riposte,
	catalog.EngageMelee,
}

var BowAttackChunks = []catalog.ChunkID{
	catalog.DrawAndLoose,
	catalog.BowShotSequence,
	catalog.VolleyDiscipline,
}

var CrossbowAttackChunks = []catalog.ChunkID{
	catalog.TriggerPull,
	catalog.CrossbowShotSequence,
}

var ThrownAttackChunks = []catalog.ChunkID{
	catalog.ThrowRelease,
	catalog.ThrownShotSequence,
}

// Categories maps action category names, as they appear on the wire and in
// drill scripts, to their applicable lists.
var Categories = map[string][]catalog.ChunkID{
	"melee_attack":    MeleeAttackChunks,
	"melee_defense":   MeleeDefenseChunks,
	"riposte":         RiposteChunks,
	"bow_attack":      BowAttackChunks,
	"crossbow_attack": CrossbowAttackChunks,
	"thrown_attack":   ThrownAttackChunks,
}

func ForCategory(name string) ([]catalog.ChunkID, bool) {
	l, ok := Categories[name]
	return l, ok
}
