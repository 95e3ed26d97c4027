package engine

import "energylabel/internal/model"

// Classify returns the highest band whose threshold score meets. A score
// below every threshold gets the lowest band.
func Classify(bands []model.Band, score float64) model.Band {
	var best, worst *model.Band
	for i := range bands {
		b := &bands[i]
		if worst == nil || b.Min < worst.Min {
			worst = b
		}
		if score >= b.Min && (best == nil || b.Min > best.Min) {
			best = b
		}
	}
	switch {
	case best != nil:
		return *best
	case worst != nil:
		return *worst
	}
	return model.Band{}
}
