package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelsCoverRangeExactlyOnce(t *testing.T) {
	for total := 0; total <= 100; total++ {
		matches := 0
		for _, l := range Levels {
			if total >= l.Min && total <= l.Max {
				matches++
			}
		}
		assert.Equalf(t, 1, matches, "total %d must fall in exactly one tier", total)
	}
}

func TestLevelBoundaries(t *testing.T) {
	cases := map[int]string{
		0: "Broke", 19: "Broke",
		20: "Aware", 39: "Aware",
		40: "Steady", 59: "Steady",
		60: "Smart", 79: "Smart",
		80: "Legend", 100: "Legend",
	}
	for total, want := range cases {
		assert.Equal(t, want, GetLevel(total).Name, "total %d", total)
	}
}

func TestNextLevel(t *testing.T) {
	next := NextLevel(36)
	assert.NotNil(t, next)
	assert.Equal(t, "Steady", next.Name)

	assert.Nil(t, NextLevel(85), "top tier has no next level")
}

func TestProgressToNext(t *testing.T) {
	// 36 in Aware [20,39], next tier starts at 40: (36-20)/20 = 80%.
	assert.Equal(t, 80, ProgressToNext(36))
	assert.Equal(t, 0, ProgressToNext(20))
	assert.Equal(t, 100, ProgressToNext(95), "top tier reports 100")
}
