package game

import (
	"time"

	"gorm.io/gorm"
)

// Allegiance is a player's hidden faction. It must only ever be read by the
// corruption sub-protocol and the win evaluator; API responses redact it.
type Allegiance string

const (
	AllegianceHero    Allegiance = "hero"
	AllegianceWarlock Allegiance = "warlock"
)

// MonsterTargetID is the sentinel target identifier for the shared monster.
const MonsterTargetID = "monster"

// Game/phase status values.
const (
	StatusLobby      = "lobby"
	StatusInProgress = "in_progress"
	StatusFinished   = "finished"
	// StatusCorrupted marks a session aborted by an engine invariant
	// violation; it accepts no further actions.
	StatusCorrupted = "corrupted"

	PhasePlanning  = "planning"
	PhaseResolving = "resolving"
	PhaseResolved  = "resolved"
)

// Winner values for finished games.
const (
	WinnerHeroes   = "heroes"
	WinnerWarlocks = "warlocks"
	WinnerDraw     = "draw"
)

// StatusEffect is one active effect instance on a player. The magnitude is
// copied from the registry (or the applying ability) at apply time, so later
// registry edits never touch running instances.
type StatusEffect struct {
	Key       string  `json:"key"`
	Magnitude float64 `json:"magnitude"`
	Remaining int     `json:"remaining"`
	// Owner is the UUID of the player who applied the effect.
	Owner string `json:"owner"`
}

// CombatStats accumulates per-player statistics exposed read-only to the
// analytics pipeline.
type CombatStats struct {
	DamageDealt   int `json:"damage_dealt"`
	MonsterDamage int `json:"monster_damage"`
	DamageTaken   int `json:"damage_taken"`
	HealingDone   int `json:"healing_done"`
	TimesTargeted int `json:"times_targeted"`
	Conversions   int `json:"-"`
}

// Player is the mutable per-participant record.
type Player struct {
	gorm.Model
	GameID      uint   `json:"-"`
	PlayerUUID  string `json:"player_uuid"`
	PlayerName  string `json:"player_name"`
	PlayerEmail string `json:"player_email"`

	MaxHP int `json:"max_hp"`
	HP    int `json:"hp"`
	// Armor may go negative; negative armor amplifies incoming damage.
	Armor          int     `json:"armor"`
	DamageModifier float64 `json:"damage_modifier"`

	Alive bool `json:"alive"`
	// PendingDeath is the staged-death state between a lethal hit and the
	// end-of-round commit; revival effects intercept it.
	PendingDeath bool `json:"-"`

	// Allegiance is hidden from peers; json:"-" is a second line of defense
	// behind the API redaction walker.
	Allegiance Allegiance `json:"-"`
	// RevealedUntilRound is non-zero while detection has exposed this
	// player's allegiance.
	RevealedUntilRound int `json:"revealed_until_round"`
	// ConvertLockedUntilRound is the post-conversion cooldown gate.
	ConvertLockedUntilRound int `json:"-"`

	Effects []StatusEffect `json:"effects" gorm:"serializer:json"`
	// Cooldowns maps ability key to the first round the ability is legal
	// again.
	Cooldowns map[string]int `json:"cooldowns" gorm:"serializer:json"`

	HasSubmittedAction bool   `json:"has_submitted_action"`
	PendingAbilityKey  string `json:"pending_ability_key"`
	PendingTargetUUID  string `json:"pending_target_uuid"`

	Stats CombatStats `json:"stats" gorm:"embedded;embeddedPrefix:stat_"`
}

// Targetable reports whether the player is a legal target right now: staged
// deaths count as dead for targeting purposes.
func (p *Player) Targetable() bool { return p.Alive && !p.PendingDeath }

// Monster is the shared adversary all players may fight.
type Monster struct {
	gorm.Model
	GameID uint `json:"-"`
	MaxHP  int  `json:"max_hp"`
	HP     int  `json:"hp"`
	// Age counts rounds survived and drives damage scaling.
	Age int `json:"age"`
	// Threat maps player UUID to an accumulated, decaying threat score.
	Threat map[string]float64 `json:"-" gorm:"serializer:json"`
	// RecentTargets holds the player UUIDs targeted in the most recent
	// rounds, newest last (anti-oscillation window).
	RecentTargets []string `json:"-" gorm:"serializer:json"`
}

// Game is one session: its players, monster and round bookkeeping.
type Game struct {
	gorm.Model
	Name        string `json:"name" gorm:"size:32"`
	Description string `json:"description" gorm:"size:256"`
	Private     bool   `json:"private"`
	JoinCode    string `json:"join_code" gorm:"unique"`

	Players []Player `json:"players"`
	Monster Monster  `json:"monster"`

	RoundCount int    `json:"round_count"`
	Phase      string `json:"phase"`
	Status     string `json:"status"`
	Winner     string `json:"winner"`
	Message    string `json:"message"`

	LastRoundSummary string  `json:"last_round_summary"`
	LastRoundEvents  []Event `json:"last_round_events" gorm:"serializer:json"`

	ActionDeadline time.Time `json:"action_deadline"`
	// Seed drives the session RNG; combined with the round counter it makes
	// every round replayable.
	Seed int64 `json:"-"`
	// StartingPlayerCount is fixed at game start and anchors the comeback
	// alive-fraction computation.
	StartingPlayerCount int  `json:"starting_player_count"`
	StatsCounted        bool `json:"-"`
}

// FindPlayerByUUID returns the player with the given UUID, or nil.
func (g *Game) FindPlayerByUUID(uuid string) *Player {
	for i := range g.Players {
		if g.Players[i].PlayerUUID == uuid {
			return &g.Players[i]
		}
	}
	return nil
}

// FindPlayerByEmail returns the player with the given email, or nil.
func (g *Game) FindPlayerByEmail(email string) *Player {
	for i := range g.Players {
		if g.Players[i].PlayerEmail == email {
			return &g.Players[i]
		}
	}
	return nil
}

// AliveCount returns the number of players not yet finally dead.
func (g *Game) AliveCount() int {
	n := 0
	for i := range g.Players {
		if g.Players[i].Alive {
			n++
		}
	}
	return n
}

// AliveWarlockCount returns the number of alive players with hidden warlock
// allegiance.
func (g *Game) AliveWarlockCount() int {
	n := 0
	for i := range g.Players {
		if g.Players[i].Alive && g.Players[i].Allegiance == AllegianceWarlock {
			n++
		}
	}
	return n
}

// User stores unique player identity and aggregate stats.
type User struct {
	gorm.Model
	PlayerUUID   string `gorm:"index"`
	PlayerName   string
	Email        string `gorm:"uniqueIndex"`
	GamesPlayed  int
	HeroWins     int
	WarlockWins  int
	Conversions  int
	Resignations int
}

// Unify global users table name as "player_profiles"
func (User) TableName() string { return "player_profiles" }
