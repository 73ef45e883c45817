package rating

import "math"

const (
	// PositiveThreshold splits reviews into positive and negative.
	PositiveThreshold = 3.0
	// MaxLevel caps the doubling level curve.
	MaxLevel = 50
	// MinTopReviews is the leaderboard entry requirement.
	MinTopReviews = 3
)

// Smoothed returns the next running rating after one more review. The first
// review is assigned directly; afterwards new reviews are blended in with a
// weight of at most 0.3 so a single review cannot swing an established score.
// The result is clamped to [0, 5] and rounded to two decimals.
func Smoothed(oldRating float64, totalReviews int, incoming float64) float64 {
	var next float64
	if totalReviews == 0 {
		next = incoming
	} else {
		weight := math.Min(0.3, 1.0/float64(totalReviews+1))
		next = oldRating*(1-weight) + incoming*weight
	}
	next = math.Max(0.0, math.Min(5.0, next))
	return Round2(next)
}

// Level maps cumulative completed engagements onto the doubling curve:
// level = floor(log2(completed+1)) + 1, so level n requires 2^(n-1)-1 completions.
func Level(completed int) int {
	if completed <= 0 {
		return 1
	}
	level := int(math.Log2(float64(completed+1))) + 1
	if level > MaxLevel {
		return MaxLevel
	}
	return level
}

// tasksForLevel is the cumulative completion count required to reach a level.
func tasksForLevel(level int) int {
	return 1<<(level-1) - 1
}

// Experience returns progress within the current level as a percentage in [0, 100].
func Experience(completed int) int {
	if completed < 0 {
		completed = 0
	}
	level := Level(completed)
	current := tasksForLevel(level)
	next := tasksForLevel(level + 1)
	if next == current {
		return 100
	}
	progress := float64(completed-current) / float64(next-current)
	exp := int(progress * 100)
	if exp < 0 {
		return 0
	}
	if exp > 100 {
		return 100
	}
	return exp
}

// Reliability blends completion volume with the positive-review ratio into a
// 0-100 score, rounded to one decimal.
func Reliability(totalCompleted int, positiveRate float64) float64 {
	score := float64(totalCompleted)*0.3 + positiveRate*0.7
	return Round1(math.Min(100, score))
}

// PositiveRate is the share of positive reviews among completed engagements,
// as a percentage rounded to one decimal.
func PositiveRate(positiveCount, totalCompleted int) float64 {
	if totalCompleted == 0 {
		return 0
	}
	return Round1(float64(positiveCount) / float64(totalCompleted) * 100)
}

// CompositeScore ranks leaderboard candidates: 40% rating, 40% reliability
// (rescaled onto the 0-5 rating axis), 20% review-count bonus capped at 2.0.
func CompositeScore(currentRating, reliability float64, totalReviews int) float64 {
	bonus := math.Min(float64(totalReviews)*0.1, 2.0)
	return currentRating*0.4 + (reliability/100)*4*0.4 + bonus*0.2
}

func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
