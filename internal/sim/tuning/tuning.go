package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Tuning struct {
	Learning  Learning  `yaml:"learning"`
	Attention Attention `yaml:"attention"`
	Resolve   Resolve   `yaml:"resolve"`

	TickRateHz            int `yaml:"tick_rate_hz"`
	ConsolidateEveryTicks int `yaml:"consolidate_every_ticks"`
	SnapshotEveryTicks    int `yaml:"snapshot_every_ticks"`
}

type Learning struct {
	// Base rate of the logistic encoding curve. A chunk's effective rate is
	// LearningRate * RateReferenceReps / base_repetitions, so chunks that are
	// hard to train in the real world deepen slowly here too.
	LearningRate      float64 `yaml:"learning_rate"`
	RateReferenceReps float64 `yaml:"rate_reference_reps"`

	MinEncoding   float64 `yaml:"min_encoding"`
	MaxEncoding   float64 `yaml:"max_encoding"`
	CeilingBase   float64 `yaml:"ceiling_base"`
	CeilingPerRep float64 `yaml:"ceiling_per_rep"`

	FormationDepthThreshold float64 `yaml:"formation_depth_threshold"`
	RustThresholdTicks      uint64  `yaml:"rust_threshold_ticks"`
	RustRate                float64 `yaml:"rust_rate"`
}

type Attention struct {
	FatigueWeight float64 `yaml:"fatigue_weight"`
	PainWeight    float64 `yaml:"pain_weight"`
	StressWeight  float64 `yaml:"stress_weight"`
	BudgetFloor   float64 `yaml:"budget_floor"`
}

type Resolve struct {
	ContextQualityCutoff     float64 `yaml:"context_quality_cutoff"`
	FallbackDepth            float64 `yaml:"fallback_depth"`
	FumbleAttentionThreshold float64 `yaml:"fumble_attention_threshold"`
	FumbleDepthThreshold     float64 `yaml:"fumble_depth_threshold"`
	CriticalDepthThreshold   float64 `yaml:"critical_depth_threshold"`
}

func Defaults() Tuning {
	return Tuning{
		Learning: Learning{
			LearningRate:            0.01,
			RateReferenceReps:       50,
			MinEncoding:             0.1,
			MaxEncoding:             0.99,
			CeilingBase:             0.80,
			CeilingPerRep:           0.0015,
			FormationDepthThreshold: 0.3,
			RustThresholdTicks:      10000,
			RustRate:                0.0001,
		},
		Attention: Attention{
			FatigueWeight: 0.3,
			PainWeight:    0.4,
			StressWeight:  0.2,
			BudgetFloor:   0.2,
		},
		Resolve: Resolve{
			ContextQualityCutoff:     0.5,
			FallbackDepth:            0.1,
			FumbleAttentionThreshold: 0.1,
			FumbleDepthThreshold:     0.3,
			CriticalDepthThreshold:   0.9,
		},
		TickRateHz:            20,
		ConsolidateEveryTicks: 100,
		SnapshotEveryTicks:    6000,
	}
}

func Load(path string) (Tuning, error) {
	t := Defaults()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	return t, nil
}
