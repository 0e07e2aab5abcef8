package domain

import "math"

// Level curve constants
const (
	// BaseXP is the experience needed to go from level 1 to level 2
	BaseXP = 100
	// LevelExponent shapes the cumulative curve BaseXP * (level-1)^LevelExponent
	LevelExponent = 1.5
	// MaxLevel caps progression
	MaxLevel = 100
)

// ExperienceForLevel returns the cumulative experience required to reach level
func ExperienceForLevel(level int) int64 {
	if level <= 1 {
		return 0
	}
	return int64(math.Floor(BaseXP * math.Pow(float64(level-1), LevelExponent)))
}

// LevelForExperience returns the highest level whose threshold is met by xp
func LevelForExperience(xp int64) int {
	level := 1
	for level < MaxLevel && ExperienceForLevel(level+1) <= xp {
		level++
	}
	return level
}

// ExperienceToNextLevel returns the remaining experience before the next level, or 0 at the cap
func ExperienceToNextLevel(level int, xp int64) int64 {
	if level >= MaxLevel {
		return 0
	}
	remaining := ExperienceForLevel(level+1) - xp
	if remaining < 0 {
		return 0
	}
	return remaining
}
