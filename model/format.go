package model

import (
	"fmt"
	"math"
)

// Assistant reply framings. "all" wins over the empty-result framing so
// that an empty video still answers the "All" request honestly.
const (
	IntroAll      = "These are all the moments extracted from the video:"
	IntroNoMatch  = "Sorry, I couldn't find any relevant moments for that query."
	IntroRelevant = "Here are some relevant moments:"
)

// Intro picks the assistant reply header for a query result.
func Intro(allRequested bool, eventCount int) string {
	if allRequested {
		return IntroAll
	}
	if eventCount == 0 {
		return IntroNoMatch
	}
	return IntroRelevant
}

// FormatTimestamp renders seconds as zero-padded mm:ss, flooring both
// components (125.7 -> "02:05").
func FormatTimestamp(seconds float64) string {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		return "Invalid Time"
	}
	total := int(seconds)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// FormatSimilarity renders a similarity score as a two-decimal
// percentage, or "N/A" when absent.
func FormatSimilarity(similarity *float64) string {
	if similarity == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.2f", *similarity*100)
}

// FormatEvent renders one event line: "[mm:ss] description (Proximity: pp.pp%)".
func FormatEvent(e Event) string {
	desc := e.Description
	if desc == "" {
		desc = "No description"
	}
	return fmt.Sprintf("[%s] %s (Proximity: %s%%)",
		FormatTimestamp(e.Timestamp), desc, FormatSimilarity(e.Similarity))
}
