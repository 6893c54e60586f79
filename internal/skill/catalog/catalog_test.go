package catalog

import (
	"os"
	"path/filepath"
	"testing"
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

func loadShipped(t *testing.T) *Catalog {
	t.Helper()
	root := findRepoRoot(t)
	c, err := Load(filepath.Join(root, "configs"), filepath.Join(root, "schemas"))
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	return c
}

func TestLoad_ShippedCatalog(t *testing.T) {
	c := loadShipped(t)
	if len(c.Order) == 0 {
		t.Fatalf("empty catalog")
	}
	if c.Digest == "" {
		t.Fatalf("missing digest")
	}
	for _, id := range KnownIDs {
		if _, ok := c.Lookup(id); !ok {
			t.Fatalf("known id %q missing from catalog", id)
		}
	}
	if len(c.Order) != len(KnownIDs) {
		t.Fatalf("catalog has %d entries, KnownIDs lists %d", len(c.Order), len(KnownIDs))
	}
}

func TestLoad_LevelsMatchComposition(t *testing.T) {
	c := loadShipped(t)
	for _, id := range c.Order {
		d := c.Defs[id]
		if d.Atomic() {
			if d.Level != 1 {
				t.Fatalf("%s: atomic but level %d", id, d.Level)
			}
			continue
		}
		maxComp := 0
		for _, comp := range d.Components {
			cd, ok := c.Lookup(comp)
			if !ok {
				t.Fatalf("%s: dangling component %s", id, comp)
			}
			if cd.Level > maxComp {
				maxComp = cd.Level
			}
		}
		if d.Level != maxComp+1 {
			t.Fatalf("%s: level %d, components imply %d", id, d.Level, maxComp+1)
		}
	}
}

func TestLoad_PrerequisitesResolve(t *testing.T) {
	c := loadShipped(t)
	for _, id := range c.Order {
		for _, pre := range c.Defs[id].Prerequisites {
			if _, ok := c.Lookup(pre); !ok {
				t.Fatalf("%s: dangling prerequisite %s", id, pre)
			}
		}
	}
}

func writeCatalog(t *testing.T, doc string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "chunks.json"), []byte(doc), 0o644); err != nil {
		t.Fatalf("write chunks.json: %v", err)
	}
	return dir
}

func TestLoad_RejectsDanglingComponent(t *testing.T) {
	dir := writeCatalog(t, `[
		{"id":"a","name":"A","domain":"melee","level":2,"components":["missing"],"base_repetitions":10}
	]`)
	if _, err := Load(dir, ""); err == nil {
		t.Fatalf("expected error for dangling component")
	}
}

func TestLoad_RejectsWrongCompositeLevel(t *testing.T) {
	dir := writeCatalog(t, `[
		{"id":"a","name":"A","domain":"melee","level":1,"base_repetitions":10},
		{"id":"b","name":"B","domain":"melee","level":3,"components":["a"],"base_repetitions":10}
	]`)
	if _, err := Load(dir, ""); err == nil {
		t.Fatalf("expected error for composite level skip")
	}
}

func TestLoad_RejectsAtomicAboveLevelOne(t *testing.T) {
	dir := writeCatalog(t, `[
		{"id":"a","name":"A","domain":"melee","level":2,"base_repetitions":10}
	]`)
	if _, err := Load(dir, ""); err == nil {
		t.Fatalf("expected error for level-2 atomic")
	}
}

func TestLoad_RejectsSelfReference(t *testing.T) {
	dir := writeCatalog(t, `[
		{"id":"a","name":"A","domain":"melee","level":2,"components":["a"],"base_repetitions":10}
	]`)
	if _, err := Load(dir, ""); err == nil {
		t.Fatalf("expected error for self-referencing composite")
	}
}

func TestLoad_RejectsDuplicateID(t *testing.T) {
	dir := writeCatalog(t, `[
		{"id":"a","name":"A","domain":"melee","level":1,"base_repetitions":10},
		{"id":"a","name":"A again","domain":"melee","level":1,"base_repetitions":10}
	]`)
	if _, err := Load(dir, ""); err == nil {
		t.Fatalf("expected error for duplicate id")
	}
}

func TestLoad_SchemaRejectsMalformedEntry(t *testing.T) {
	root := findRepoRoot(t)
	dir := writeCatalog(t, `[
		{"id":"a","domain":"melee","level":1,"base_repetitions":10}
	]`)
	if _, err := Load(dir, filepath.Join(root, "schemas")); err == nil {
		t.Fatalf("expected schema error for entry missing name")
	}
}

func TestLoad_RejectsDanglingPrerequisite(t *testing.T) {
	dir := writeCatalog(t, `[
		{"id":"a","name":"A","domain":"melee","level":1,"prerequisites":["missing"],"base_repetitions":10}
	]`)
	if _, err := Load(dir, ""); err == nil {
		t.Fatalf("expected error for dangling prerequisite")
	}
}
