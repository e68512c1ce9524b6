package rules

// AbilityCategory groups abilities for coordination bonuses and targeting
// policy. Using a dedicated type instead of plain string makes code safer
// and self-documenting.
type AbilityCategory string

const (
	CategoryAttack  AbilityCategory = "attack"
	CategoryDefense AbilityCategory = "defense"
	CategoryHeal    AbilityCategory = "heal"
	CategorySpecial AbilityCategory = "special"
)

// TargetShape describes which entities an ability may be aimed at.
type TargetShape string

const (
	TargetSelf        TargetShape = "self"
	TargetSingleOther TargetShape = "single_other"
	TargetAllOthers   TargetShape = "all_others"
)

// Priority bands by category. These are a configuration convention, not a
// hard guarantee: abilities outside their band produce a load-time warning
// but are still accepted.
const (
	BandReflexiveMin   = 1
	BandReflexiveMax   = 9
	BandDefensiveMin   = 10
	BandDefensiveMax   = 99
	BandSpecialMin     = 100
	BandSpecialMax     = 999
	BandOffensiveMin   = 1000
	BandOffensiveMax   = 9999
	BandRestorativeMin = 10000
	BandRestorativeMax = 99999
)

// Ability is an immutable ability definition from the catalog.
type Ability struct {
	Key         string          `json:"key"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    AbilityCategory `json:"category"`
	Target      TargetShape     `json:"target"`

	// Numeric parameter bag. Zero values mean "not used by this ability".
	Damage     int `json:"damage"`
	Heal       int `json:"heal"`
	ArmorGrant int `json:"armor_grant"`

	// Status effect applied by this ability. Magnitude/Duration of 0 fall
	// back to the effect registry defaults; Chance of 0 means "always".
	EffectKey       string  `json:"effect_key"`
	EffectMagnitude float64 `json:"effect_magnitude"`
	EffectDuration  int     `json:"effect_duration"`
	EffectChance    float64 `json:"effect_chance"`

	// Lower priority resolves first. See the band constants above.
	Priority int `json:"priority"`
	// Cooldown in rounds after use before the ability is legal again.
	Cooldown int `json:"cooldown"`
}

// CanTargetMonster reports whether the ability may be aimed at the shared
// monster. Only single-target attacks qualify; support abilities always aim
// at players.
func (a Ability) CanTargetMonster() bool {
	return a.Category == CategoryAttack && a.Target == TargetSingleOther
}

// ExpectedBand returns the priority range conventionally associated with the
// ability's category.
func (a Ability) ExpectedBand() (min, max int) {
	switch a.Category {
	case CategoryDefense:
		return BandDefensiveMin, BandDefensiveMax
	case CategorySpecial:
		return BandSpecialMin, BandSpecialMax
	case CategoryAttack:
		return BandOffensiveMin, BandOffensiveMax
	case CategoryHeal:
		return BandRestorativeMin, BandRestorativeMax
	}
	return BandReflexiveMin, BandRestorativeMax
}
