package scoring

import (
	"fmt"
	"math"
)

// ShareBonus is awarded once for sharing a result.
const ShareBonus = 50

// Difficulty scales the color activity's reward.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Multiplier returns the reward factor for d.
func (d Difficulty) Multiplier() (float64, error) {
	switch d {
	case DifficultyEasy:
		return 1, nil
	case DifficultyMedium:
		return 1.5, nil
	case DifficultyHard:
		return 2, nil
	default:
		return 0, fmt.Errorf("scoring: unknown difficulty %q", d)
	}
}

// GuessReward is the reward of the guessing activities: 100 points minus
// 10 per attempt, never below zero.
func GuessReward(attempts int) int {
	return max(0, 100-attempts*10)
}

// ColorReward is GuessReward scaled by difficulty and rounded.
func ColorReward(attempts int, d Difficulty) (int, error) {
	m, err := d.Multiplier()
	if err != nil {
		return 0, err
	}
	return int(math.Round(float64(GuessReward(attempts)) * m)), nil
}

// Reward computes the points an attempt-based activity earns. The number and
// word activities ignore difficulty. Candy scores by cascades, not attempts,
// so it has no reward here.
func Reward(src Source, attempts int, d Difficulty) (int, error) {
	if attempts < 0 {
		return 0, fmt.Errorf("scoring: negative attempts %d", attempts)
	}
	switch src {
	case SourceNumber, SourceWord:
		return GuessReward(attempts), nil
	case SourceColor:
		return ColorReward(attempts, d)
	case SourceShare:
		return ShareBonus, nil
	default:
		return 0, fmt.Errorf("scoring: no reward for source %q", src)
	}
}
