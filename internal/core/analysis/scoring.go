package analysis

import "math"

// WinProbability combines specification match quality with bid margin into a
// 0-100 heuristic. High match plus healthy margin wins; thin margins drag
// the estimate down.
func WinProbability(matchScore, marginPercent float64) float64 {
	base := matchScore * 0.7
	if marginPercent > 18 {
		base += 15
	} else if marginPercent < 10 {
		base -= 10
	}
	return math.Round(clamp(base, 0, 100)*100) / 100
}

// Recommendation maps (winProbability, matchScore) to one of four tiers.
// Boundary values resolve to the qualifying tier.
func Recommendation(winProbability, matchScore float64) (label, reason string) {
	switch {
	case winProbability >= 70 && matchScore >= 75:
		return "SELECT - High confidence recommendation",
			"Excellent match with strong win probability and high specification alignment."
	case winProbability >= 50 && matchScore >= 60:
		return "CONSIDER - Moderate confidence",
			"Good potential with reasonable win probability and acceptable specification match."
	case winProbability >= 30:
		return "REVIEW - Low confidence",
			"Marginal win probability, requires careful evaluation of competition and pricing."
	default:
		return "REJECT - Not recommended",
			"Low win probability and poor specification match suggest pursuing other opportunities."
	}
}

// Suggestions is never empty: when nothing triggers, a single positive
// suggestion is returned.
func Suggestions(matchScore, winProbability float64) []string {
	var out []string
	if matchScore < 70 {
		out = append(out, "Consider adjusting technical specifications to better match available product portfolio")
	}
	if winProbability < 60 {
		out = append(out, "Review pricing strategy - current margin may be too aggressive for market conditions")
	}
	if len(out) == 0 {
		out = append(out, "Proposal appears well-aligned with requirements - focus on competitive pricing and delivery timeline")
	}
	return out
}
