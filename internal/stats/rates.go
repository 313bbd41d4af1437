// Package stats computes the derived cricket figures: run rates, strike rate,
// economy, over notation and team standings. Every function is pure and never
// faults on a zero denominator.
package stats

import (
	"fmt"
	"math"
)

const ballsPerOver = 6

// Round2 rounds half away from zero to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// CurrentRunRate is runs per six legal balls. It is unavailable before the first legal ball.
func CurrentRunRate(runs, legalBalls int) (float64, bool) {
	if legalBalls <= 0 {
		return 0, false
	}
	return Round2(float64(runs) * ballsPerOver / float64(legalBalls)), true
}

// RequiredRunRate is the rate needed to reach target from runs in the balls left.
// It is unavailable once no balls remain.
func RequiredRunRate(target, runs, ballsRemaining int) (float64, bool) {
	if ballsRemaining <= 0 {
		return 0, false
	}
	need := target - runs
	if need < 0 {
		need = 0
	}
	return Round2(float64(need) * ballsPerOver / float64(ballsRemaining)), true
}

// StrikeRate is runs per hundred balls faced, 0 when no balls have been faced.
func StrikeRate(runs, balls int) float64 {
	if balls <= 0 {
		return 0
	}
	return Round2(float64(runs) * 100 / float64(balls))
}

// Economy is runs conceded per six legal balls, 0 before the first legal ball.
func Economy(runsConceded, legalBalls int) float64 {
	if legalBalls <= 0 {
		return 0
	}
	return Round2(float64(runsConceded) * ballsPerOver / float64(legalBalls))
}

// OversDisplay renders legal balls in cricket notation: 7 balls is "1.1".
func OversDisplay(legalBalls int) string {
	if legalBalls < 0 {
		legalBalls = 0
	}
	return fmt.Sprintf("%d.%d", legalBalls/ballsPerOver, legalBalls%ballsPerOver)
}
