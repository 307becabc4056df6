package run

import "github.com/vovakirdan/snowrun/internal/leaderboard"

// Mode is the run's game mode.
type Mode int

const (
	ModeEndless Mode = iota
	ModeTimeTrial
)

// String returns the mode name used in run history.
func (m Mode) String() string {
	if m == ModeEndless {
		return "endless"
	}
	return "time_trial"
}

// Title returns the display name of the mode.
func (m Mode) Title() string {
	if m == ModeEndless {
		return "Endless"
	}
	return "Time Trial"
}

// ModeFromPref maps the stored GameMode preference: 1 is endless,
// anything else is a time trial.
func ModeFromPref(v int) Mode {
	if v == 1 {
		return ModeEndless
	}
	return ModeTimeTrial
}

// PrefValue returns the GameMode preference value for m.
func (m Mode) PrefValue() int {
	if m == ModeEndless {
		return 1
	}
	return 0
}

// ParseMode maps a CLI name to a mode.
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "endless":
		return ModeEndless, true
	case "time_trial", "timetrial", "trial", "time-trial":
		return ModeTimeTrial, true
	default:
		return ModeEndless, false
	}
}

// Tag is the category of a contact event.
type Tag string

const (
	TagGround     Tag = "Ground"
	TagFall       Tag = "Fall"
	TagFinish     Tag = "Finish"
	TagExtraLife  Tag = "ExtraLife"
	TagShield     Tag = "Shield"
	TagSpeedBoost Tag = "SpeedBoost"
)

// EndReason tells why a run ended.
type EndReason string

const (
	EndNone    EndReason = ""
	EndCrash   EndReason = "crash"
	EndFall    EndReason = "fall"
	EndFinish  EndReason = "finish"
	EndTimeout EndReason = "timeout"
)

// Effect is a feedback cue for the presentation layer.
type Effect int

const (
	EffectCrash Effect = iota
	EffectFinish
	EffectShieldBreak
	EffectExtraLifeUsed
	EffectPickupExtraLife
	EffectPickupShield
	EffectPickupSpeedBoost
)

// String returns a short name for the effect.
func (e Effect) String() string {
	switch e {
	case EffectCrash:
		return "crash"
	case EffectFinish:
		return "finish"
	case EffectShieldBreak:
		return "shield_break"
	case EffectExtraLifeUsed:
		return "extra_life_used"
	case EffectPickupExtraLife:
		return "pickup_extra_life"
	case EffectPickupShield:
		return "pickup_shield"
	case EffectPickupSpeedBoost:
		return "pickup_speed_boost"
	default:
		return "unknown"
	}
}

// Result is what the presentation layer shows when a run ends.
type Result struct {
	Player       string
	Mode         Mode
	Reason       EndReason
	Score        int
	Tricks       int
	Distance     float64
	Duration     float64
	HighScore    int
	NewHighScore bool
	Rank         int // 1-based leaderboard position, 0 if not placed
	Leaderboard  []leaderboard.Entry
}

// Presenter receives fire-and-forget feedback from the run.
type Presenter interface {
	PlayEffect(e Effect)
	ShowResults(r Result)
}
