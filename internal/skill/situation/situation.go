// Package situation models the situational facts a single decision is made
// under. A context is built per decision by the battle layer and thrown away
// after the resolution call; equipment state reaches the engine only as tags.
package situation

// Tag is a boolean situational fact.
type Tag string

const (
	// Spatial.
	InMelee    Tag = "in_melee"
	AtRange    Tag = "at_range"
	Flanked    Tag = "flanked"
	Flanking   Tag = "flanking"
	HighGround Tag = "high_ground"

	// Equipment, melee.
	WieldingSword   Tag = "wielding_sword"
	WieldingShield  Tag = "wielding_shield"
	WieldingPolearm Tag = "wielding_polearm"
	Armored         Tag = "armored"

	// Equipment, ranged.
	WieldingBow      Tag = "wielding_bow"
	WieldingCrossbow Tag = "wielding_crossbow"
	WieldingThrown   Tag = "wielding_thrown"
	AmmoAvailable    Tag = "ammo_available"
	CrossbowLoaded   Tag = "crossbow_loaded"

	// Target.
	EnemyVisible    Tag = "enemy_visible"
	MultipleEnemies Tag = "multiple_enemies"
	TargetVisible   Tag = "target_visible"
	TargetInCover   Tag = "target_in_cover"

	// Actor state.
	Fresh    Tag = "fresh"
	Fatigued Tag = "fatigued"
)

// Context is a de-duplicated set of tags.
type Context struct {
	tags []Tag
}

func New() Context { return Context{} }

func (c Context) With(tag Tag) Context {
	if c.Has(tag) {
		return c
	}
	out := Context{tags: make([]Tag, 0, len(c.tags)+1)}
	out.tags = append(out.tags, c.tags...)
	out.tags = append(out.tags, tag)
	return out
}

func (c Context) Has(tag Tag) bool {
	for _, t := range c.tags {
		if t == tag {
			return true
		}
	}
	return false
}

func (c Context) Tags() []Tag { return c.tags }

// MatchQuality returns the fraction of required tags present, or 1.0 when
// nothing is required.
func (c Context) MatchQuality(required []string) float64 {
	if len(required) == 0 {
		return 1.0
	}
	matched := 0
	for _, r := range required {
		if c.Has(Tag(r)) {
			matched++
		}
	}
	return float64(matched) / float64(len(required))
}
