// Package config centralizes the gameplay constants that are not part of
// the user-facing game configuration.
package config

import "time"

// Frame timing
const (
	TargetFPS       = 60
	TargetFrameTime = time.Second / TargetFPS
	FramesPerSecond = 60 // frames per second of attack length and time score

	// MaxFrameRate caps the elapsed time one frame may account for, so a
	// stalled terminal does not teleport everything on the next frame.
	MaxFrameRate = 100 * time.Millisecond
	// FrameScaleFactor converts screen scale * elapsed milliseconds into the movement multiplier.
	FrameScaleFactor = 0.01
)

// Spawning
const (
	SpawnInterval     = 120 // frames between spawn attempts
	SpawnGrowthFrames = 300 // one more obstacle allowed per this many frames
	LifeEvery         = 23  // frame modulus that yields coffee
	CrowdFactor       = 3   // crowd radius in player widths
)

// Monster
const (
	AttackInterval = 1800 // frames between attacks
	MonsterScale   = 2    // monster size in player sizes
	MonsterHoming  = 0.002
	MonsterSpeed   = 0.2 // in player widths
)

// Player
const (
	PlayerHoming = 0.01
	BoostAmount  = 3
	BoostDecay   = 0.05
	BoostFloor   = 0.75
	// HoldWindow is how long a key counts as held after its last repeat.
	HoldWindow = 150 * time.Millisecond
)

// Throttle windows
const (
	LifeCooldown      = 1200 * time.Millisecond
	MonsterKillWindow = 200 * time.Millisecond
	BurnCooldown      = 600 * time.Millisecond
	BlastCooldown     = 600 * time.Millisecond
	SparkCooldown     = 300 * time.Millisecond
	BoostCooldown     = 600 * time.Millisecond
	PlaybackCooldown  = 600 * time.Millisecond
)

// Effects
const (
	StarCount          = 100
	TrailParticles     = 2
	ExplosionParticles = 500
	CrashParticles     = 20
	// OverEffectThreshold is the number of live effects below which the round hands off.
	OverEffectThreshold = 20
)

// Scoring
const (
	ScoreEvery      = 60 // frames per time point
	MaxNameLength   = 16
	LeaderboardSize = 10
)
