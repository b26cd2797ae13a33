package game

import "time"

const (
	LockDelay = 500 * time.Millisecond

	SoftDropPoints = 1
	HardDropPoints = 2
	ComboPoints    = 50

	LinesPerLevel = 10
	MaxSpeedLevel = 20
)

// FallInterval returns the gravity period at level: 800ms at level 1, 45ms
// faster per level, never below 70ms. Levels outside 1..20 are clamped.
func FallInterval(level int) time.Duration {
	level = max(1, min(MaxSpeedLevel, level))
	ms := max(70, 800-(level-1)*45)
	return time.Duration(ms) * time.Millisecond
}

// LineClearScore is the base award for clearing lines rows in one lock.
func LineClearScore(lines int) int {
	switch lines {
	case 1:
		return 100
	case 2:
		return 300
	case 3:
		return 500
	case 4:
		return 800
	}
	return 0
}

// ClearAward is the total award for a clear of lines rows at level with the
// combo counter already advanced to combo.
func ClearAward(lines, level, combo int) int {
	score := LineClearScore(lines) * level
	if combo > 0 {
		score += ComboPoints * combo * level
	}
	return score
}

// LevelForLines is the level reached after lines total cleared rows.
func LevelForLines(lines int) int {
	return lines/LinesPerLevel + 1
}
