package game

// EventKind classifies entries in the per-round event log.
type EventKind string

const (
	EventAction        EventKind = "action"
	EventDamage        EventKind = "damage"
	EventHeal          EventKind = "heal"
	EventEffectApplied EventKind = "effect_applied"
	EventEffectExpired EventKind = "effect_expired"
	EventEffectTick    EventKind = "effect_tick"
	EventNoOp          EventKind = "no_op"
	EventRedirect      EventKind = "redirect"
	EventDeath         EventKind = "death"
	EventRevive        EventKind = "revive"
	EventMonster       EventKind = "monster"
	EventCorruption    EventKind = "corruption"
	EventDetection     EventKind = "detection"
	EventOutcome       EventKind = "outcome"
)

// Event is one structured entry in the round log. Entries are ordered by
// (Round, Seq). Hidden entries must never be sent to clients: they would
// leak hidden allegiance.
type Event struct {
	Round   int       `json:"round"`
	Seq     int       `json:"seq"`
	Kind    EventKind `json:"kind"`
	Actor   string    `json:"actor,omitempty"`
	Target  string    `json:"target,omitempty"`
	Ability string    `json:"ability,omitempty"`
	Amount  int       `json:"amount,omitempty"`
	Message string    `json:"message"`
	Hidden  bool      `json:"-"`
}
