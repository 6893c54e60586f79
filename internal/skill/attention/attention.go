// Package attention converts an actor's physical state into the cognitive
// bandwidth available for one decision point.
package attention

import "skillforge.ai/internal/sim/tuning"

// Budget derives the per-decision attention budget from fatigue, pain and
// stress, each in [0,1]. Penalties are multiplicative so they can never push
// the budget to zero; the floor keeps even a broken actor minimally able
// to act.
func Budget(fatigue, pain, stress float64, cfg tuning.Attention) float64 {
	b := 1.0 *
		(1.0 - fatigue*cfg.FatigueWeight) *
		(1.0 - pain*cfg.PainWeight) *
		(1.0 - stress*cfg.StressWeight)
	if b < cfg.BudgetFloor {
		return cfg.BudgetFloor
	}
	return b
}
