package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatTimestamp_FloorsAndZeroPads(t *testing.T) {
	require.Equal(t, "02:05", FormatTimestamp(125.7))
	require.Equal(t, "00:00", FormatTimestamp(0))
	require.Equal(t, "00:12", FormatTimestamp(12.4))
	require.Equal(t, "02:10", FormatTimestamp(130))
	require.Equal(t, "10:59", FormatTimestamp(659.999))
}

func TestFormatTimestamp_RejectsUnusableValues(t *testing.T) {
	require.Equal(t, "Invalid Time", FormatTimestamp(-1))
	require.Equal(t, "Invalid Time", FormatTimestamp(math.NaN()))
	require.Equal(t, "Invalid Time", FormatTimestamp(math.Inf(1)))
}

func TestFormatSimilarity(t *testing.T) {
	score := 0.91
	require.Equal(t, "91.00", FormatSimilarity(&score))
	low := 0.7749
	require.Equal(t, "77.49", FormatSimilarity(&low))
	require.Equal(t, "N/A", FormatSimilarity(nil))
}

func TestFormatEvent(t *testing.T) {
	score := 0.91
	e := Event{Timestamp: 12.4, Description: "Explosion", Similarity: &score}
	require.Equal(t, "[00:12] Explosion (Proximity: 91.00%)", FormatEvent(e))
}

func TestFormatEvent_MissingFields(t *testing.T) {
	e := Event{Timestamp: 130}
	require.Equal(t, "[02:10] No description (Proximity: N/A%)", FormatEvent(e))
}

func TestIntro(t *testing.T) {
	require.Equal(t, IntroAll, Intro(true, 0))
	require.Equal(t, IntroAll, Intro(true, 3))
	require.Equal(t, IntroNoMatch, Intro(false, 0))
	require.Equal(t, IntroRelevant, Intro(false, 2))
}
