package learning

import (
	"os"
	"path/filepath"
	"testing"

	"skillforge.ai/internal/skill/catalog"
	"skillforge.ai/internal/skill/library"
	"skillforge.ai/internal/sim/tuning"
)

func findRepoRoot(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatalf("could not find repo root from %s", dir)
		}
		dir = parent
	}
}

func loadCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	root := findRepoRoot(t)
	c, err := catalog.Load(filepath.Join(root, "configs"), "")
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	return c
}

func TestDepthForReps_Monotone(t *testing.T) {
	cat := loadCatalog(t)
	cfg := tuning.Defaults().Learning
	def, _ := cat.Lookup(catalog.BasicSwing)

	prev := 0.0
	for reps := 0; reps <= 5000; reps += 50 {
		d := DepthForReps(def, reps, cfg)
		if d < prev {
			t.Fatalf("depth decreased at %d reps: %v < %v", reps, d, prev)
		}
		if d < cfg.MinEncoding || d > cfg.MaxEncoding {
			t.Fatalf("depth out of range at %d reps: %v", reps, d)
		}
		prev = d
	}
}

func TestDepthForReps_FastEarlySlowLate(t *testing.T) {
	cat := loadCatalog(t)
	cfg := tuning.Defaults().Learning
	def, _ := cat.Lookup(catalog.BasicSwing)

	earlyGain := DepthForReps(def, 50, cfg) - DepthForReps(def, 10, cfg)
	lateGain := DepthForReps(def, 2050, cfg) - DepthForReps(def, 2010, cfg)
	if lateGain >= earlyGain {
		t.Fatalf("no diminishing returns: early %v, late %v", earlyGain, lateGain)
	}
}

func TestCeiling_BowAboveCrossbow(t *testing.T) {
	cat := loadCatalog(t)
	cfg := tuning.Defaults().Learning
	bow, _ := cat.Lookup(catalog.BowShotSequence)
	cb, _ := cat.Lookup(catalog.CrossbowShotSequence)

	if Ceiling(bow, cfg) <= Ceiling(cb, cfg) {
		t.Fatalf("bow ceiling %v not above crossbow %v", Ceiling(bow, cfg), Ceiling(cb, cfg))
	}
	// And at equal moderate reps the cheap chunk is deeper.
	if DepthForReps(cb, 60, cfg) < DepthForReps(bow, 60, cfg) {
		t.Fatalf("crossbow not deeper at equal reps")
	}
	// Long training walks the bow past the crossbow's permanent cap.
	if DepthForReps(bow, 100000, cfg) <= DepthForReps(cb, 100000, cfg) {
		t.Fatalf("mastered bow not above mastered crossbow")
	}
}

func onCurve(t *testing.T, cat *catalog.Catalog, id catalog.ChunkID, reps int, cfg tuning.Learning) *library.ChunkState {
	t.Helper()
	def, ok := cat.Lookup(id)
	if !ok {
		t.Fatalf("unknown chunk %s", id)
	}
	return &library.ChunkState{
		EncodingDepth: DepthForReps(def, reps, cfg),
		Repetitions:   reps,
	}
}

func TestConsolidate_SuccessDeepens(t *testing.T) {
	cat := loadCatalog(t)
	cfg := tuning.Defaults().Learning
	lib := library.New()
	lib.Set(catalog.BasicSwing, onCurve(t, cat, catalog.BasicSwing, 100, cfg))
	before := mustGet(t, lib, catalog.BasicSwing).EncodingDepth

	lib.RecordExperience(catalog.BasicSwing, true, 500)
	Consolidate(cat, lib, 500, cfg)

	st := mustGet(t, lib, catalog.BasicSwing)
	if st.Repetitions != 101 {
		t.Fatalf("repetitions: %d", st.Repetitions)
	}
	if st.EncodingDepth <= before {
		t.Fatalf("depth did not grow: %v <= %v", st.EncodingDepth, before)
	}
	if st.LastUsedTick != 500 {
		t.Fatalf("last used not refreshed: %d", st.LastUsedTick)
	}
	if len(lib.PendingExperiences()) != 0 {
		t.Fatalf("pending not drained")
	}
}

func TestConsolidate_FailureIsNetNoOp(t *testing.T) {
	cat := loadCatalog(t)
	cfg := tuning.Defaults().Learning
	lib := library.New()
	lib.Set(catalog.BasicSwing, onCurve(t, cat, catalog.BasicSwing, 100, cfg))
	before := *mustGet(t, lib, catalog.BasicSwing)

	lib.RecordExperience(catalog.BasicSwing, false, 500)
	Consolidate(cat, lib, 500, cfg)

	st := mustGet(t, lib, catalog.BasicSwing)
	if st.Repetitions != before.Repetitions {
		t.Fatalf("failure changed repetitions: %d", st.Repetitions)
	}
	if st.EncodingDepth != before.EncodingDepth {
		t.Fatalf("failure changed depth: %v", st.EncodingDepth)
	}
	if st.LastUsedTick != 500 {
		t.Fatalf("failure did not refresh last used")
	}
}

func TestConsolidate_FormsCompositeFromPrerequisites(t *testing.T) {
	cat := loadCatalog(t)
	cfg := tuning.Defaults().Learning
	lib := library.New()
	lib.Set(catalog.BasicStance, &library.ChunkState{EncodingDepth: 0.5, Repetitions: 50})
	lib.Set(catalog.BasicSwing, &library.ChunkState{EncodingDepth: 0.5, Repetitions: 50})

	if lib.Has(catalog.AttackSequence) {
		t.Fatalf("attack_sequence owned before consolidation")
	}
	Consolidate(cat, lib, 1000, cfg)

	st, ok := lib.Get(catalog.AttackSequence)
	if !ok {
		t.Fatalf("attack_sequence not formed")
	}
	if st.EncodingDepth != 0.1 || st.Repetitions != 1 {
		t.Fatalf("fresh chunk state: %+v", st)
	}
	if st.FormationTick != 1000 {
		t.Fatalf("formation tick: %d", st.FormationTick)
	}
	// Prerequisites too shallow for the next level up.
	if lib.Has(catalog.EngageMelee) {
		t.Fatalf("engage_melee formed without deep prerequisites")
	}
}

func TestConsolidate_ShallowPrerequisitesDoNotForm(t *testing.T) {
	cat := loadCatalog(t)
	cfg := tuning.Defaults().Learning
	lib := library.New()
	lib.Set(catalog.BasicStance, &library.ChunkState{EncodingDepth: 0.3, Repetitions: 20})
	lib.Set(catalog.BasicSwing, &library.ChunkState{EncodingDepth: 0.5, Repetitions: 50})

	Consolidate(cat, lib, 1000, cfg)
	if lib.Has(catalog.AttackSequence) {
		t.Fatalf("formed with prerequisite at exactly the threshold")
	}
}

func TestConsolidate_UnownedExperienceIsFormationSignal(t *testing.T) {
	cat := loadCatalog(t)
	cfg := tuning.Defaults().Learning
	lib := library.New()
	lib.Set(catalog.BasicStance, &library.ChunkState{EncodingDepth: 0.6, Repetitions: 80})
	lib.Set(catalog.BasicSwing, &library.ChunkState{EncodingDepth: 0.6, Repetitions: 80})

	lib.RecordExperience(catalog.AttackSequence, true, 900)
	Consolidate(cat, lib, 900, cfg)

	if !lib.Has(catalog.AttackSequence) {
		t.Fatalf("formation signal ignored")
	}
}

func TestConsolidate_RustDecaysTowardFloor(t *testing.T) {
	cat := loadCatalog(t)
	cfg := tuning.Defaults().Learning
	lib := library.New()
	lib.Set(catalog.BasicSwing, &library.ChunkState{EncodingDepth: 0.8, Repetitions: 200, LastUsedTick: 0})

	Consolidate(cat, lib, cfg.RustThresholdTicks+5000, cfg)
	d1 := mustGet(t, lib, catalog.BasicSwing).EncodingDepth
	if d1 >= 0.8 {
		t.Fatalf("no rust applied: %v", d1)
	}
	if d1 < cfg.MinEncoding {
		t.Fatalf("rust went below floor: %v", d1)
	}

	// A century of disuse still never drops below the floor, and the chunk
	// is never deleted.
	Consolidate(cat, lib, cfg.RustThresholdTicks*1000, cfg)
	st, ok := lib.Get(catalog.BasicSwing)
	if !ok {
		t.Fatalf("rusted chunk deleted")
	}
	if st.EncodingDepth != cfg.MinEncoding {
		t.Fatalf("expected floor %v, got %v", cfg.MinEncoding, st.EncodingDepth)
	}
}

func TestConsolidate_StaleChunkIDIsNoOp(t *testing.T) {
	cat := loadCatalog(t)
	cfg := tuning.Defaults().Learning
	lib := library.New()
	lib.Set(catalog.ChunkID("retired_move"), &library.ChunkState{EncodingDepth: 0.5, Repetitions: 40, LastUsedTick: 100})

	lib.RecordExperience(catalog.ChunkID("retired_move"), true, 200)
	Consolidate(cat, lib, 200, cfg)

	st := mustGet(t, lib, catalog.ChunkID("retired_move"))
	if st.Repetitions != 40 || st.EncodingDepth != 0.5 {
		t.Fatalf("stale chunk mutated: %+v", st)
	}
}

func mustGet(t *testing.T, lib *library.Library, id catalog.ChunkID) *library.ChunkState {
	t.Helper()
	st, ok := lib.Get(id)
	if !ok {
		t.Fatalf("chunk %s not owned", id)
	}
	return st
}

// Seeded profiles must sit on the encoding curve: if they drift, the first
// consolidation pass silently rewrites every actor's skill.
func TestProfileSeedsSitOnCurve(t *testing.T) {
	cat := loadCatalog(t)
	cfg := tuning.Defaults().Learning

	profiles := map[string]*library.Library{
		"trained_soldier":  library.TrainedSoldier(0),
		"veteran":          library.Veteran(0),
		"bow_trained":      library.BowTrained(0),
		"crossbow_trained": library.CrossbowTrained(0),
	}
	for name, lib := range profiles {
		for id, st := range lib.Chunks() {
			def, ok := cat.Lookup(id)
			if !ok {
				t.Fatalf("%s seeds unknown chunk %s", name, id)
			}
			want := DepthForReps(def, st.Repetitions, cfg)
			if diff := st.EncodingDepth - want; diff > 1e-9 || diff < -1e-9 {
				t.Fatalf("%s %s off curve: seeded %v, curve gives %v at %d reps",
					name, id, st.EncodingDepth, want, st.Repetitions)
			}
		}
	}
}
