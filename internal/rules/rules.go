package rules

import (
	"fmt"
	"sort"

	"github.com/zbonzo/Warlock-sub004/internal/keys"
)

// Rules bundles the two read-only registries and the tuning constants for
// one session. Built once at config load; registries are shared across
// sessions and never mutated afterwards.
type Rules struct {
	Tuning Tuning

	abilities map[string]Ability
	effects   map[string]EffectBehavior
}

// New validates the catalog entries and builds the registries. Returns
// warnings for abilities whose priority falls outside the conventional band
// for their category; callers should log them but proceed.
func New(abilities []Ability, effects []EffectBehavior, tuning Tuning) (*Rules, []string, error) {
	if err := tuning.Validate(); err != nil {
		return nil, nil, err
	}

	em := make(map[string]EffectBehavior, len(effects))
	for _, e := range effects {
		k := keys.Normalize(e.Key)
		if k == "" {
			return nil, nil, fmt.Errorf("effect entry missing 'key'")
		}
		if _, dup := em[k]; dup {
			return nil, nil, fmt.Errorf("duplicate effect key %q", k)
		}
		if e.DefaultDuration <= 0 {
			return nil, nil, fmt.Errorf("effect %q: default_duration must be positive", k)
		}
		e.Key = k
		em[k] = e
	}

	var warnings []string
	am := make(map[string]Ability, len(abilities))
	for _, a := range abilities {
		k := keys.Normalize(a.Key)
		if k == "" {
			return nil, nil, fmt.Errorf("ability entry missing 'key'")
		}
		if _, dup := am[k]; dup {
			return nil, nil, fmt.Errorf("duplicate ability key %q", k)
		}
		switch a.Category {
		case CategoryAttack, CategoryDefense, CategoryHeal, CategorySpecial:
		default:
			return nil, nil, fmt.Errorf("ability %q: unknown category %q", k, a.Category)
		}
		switch a.Target {
		case TargetSelf, TargetSingleOther, TargetAllOthers:
		default:
			return nil, nil, fmt.Errorf("ability %q: unknown target shape %q", k, a.Target)
		}
		if a.Priority <= 0 {
			return nil, nil, fmt.Errorf("ability %q: priority must be positive", k)
		}
		if a.EffectKey != "" {
			ek := keys.Normalize(a.EffectKey)
			if _, ok := em[ek]; !ok {
				return nil, nil, fmt.Errorf("ability %q references unknown effect %q", k, a.EffectKey)
			}
			a.EffectKey = ek
		}
		if min, max := a.ExpectedBand(); a.Priority < min || a.Priority > max {
			warnings = append(warnings, fmt.Sprintf("ability %q: priority %d outside the %s band [%d, %d]", k, a.Priority, a.Category, min, max))
		}
		a.Key = k
		am[k] = a
	}

	if tuning.DetectionEffectKey != "" {
		dk := keys.Normalize(tuning.DetectionEffectKey)
		if _, ok := em[dk]; !ok {
			return nil, nil, fmt.Errorf("tuning: detection_effect_key references unknown effect %q", tuning.DetectionEffectKey)
		}
		tuning.DetectionEffectKey = dk
	}

	return &Rules{Tuning: tuning, abilities: am, effects: em}, warnings, nil
}

// Ability looks up an ability definition by key.
func (r *Rules) Ability(key string) (Ability, bool) {
	a, ok := r.abilities[keys.Normalize(key)]
	return a, ok
}

// Effect looks up a status-effect behavior by key.
func (r *Rules) Effect(key string) (EffectBehavior, bool) {
	e, ok := r.effects[keys.Normalize(key)]
	return e, ok
}

// Abilities returns the full catalog sorted by key, for API listings.
func (r *Rules) Abilities() []Ability {
	out := make([]Ability, 0, len(r.abilities))
	for _, a := range r.abilities {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
