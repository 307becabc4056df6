package core

// RuntimeConfig contains configuration passed to a run at initialization.
// The simulation uses it to size the view and for deterministic replays.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Update frames per second (default 60)
	Seed     int64 // RNG seed for filler leaderboard rows and replays
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     0, // 0 means use current time in platform layer
	}
}

// FrameDelta returns the variable-rate frame duration in seconds.
func (c RuntimeConfig) FrameDelta() float64 {
	if c.TickRate <= 0 {
		return 1.0 / 60.0
	}
	return 1.0 / float64(c.TickRate)
}

// GameState is the minimal status the platform needs after every frame.
type GameState struct {
	Score    int  // Current score
	GameOver bool // Whether the run has ended
	Paused   bool // Whether the run is paused
}

// StepResult is returned by Step() after each frame.
type StepResult struct {
	State GameState
}
