// Package editengine implements the sample-accurate cut/delete/paste/
// ripple operations that mutate a timeline.Store, re-timing the affected
// track's words through the transcription package in step so word timings
// never drift out of sync.
package editengine

import (
	"math"
	"sort"

	"github.com/tidesound/editor/internal/timeline"
)

// nearlyEqual reports whether a and b are within the snap engine's
// threshold of one another.
func nearlyEqual(a, b, threshold float64) bool {
	return math.Abs(a-b) <= threshold
}

// GetSnappedClipPosition resolves a dragged clip's position: clamp to
// zero when snapping is off, otherwise snap to a neighbor's start/end
// within threshold and then push out of any resulting overlap.
func GetSnappedClipPosition(track *timeline.Track, clipID timeline.ClipID, desiredStart, duration, snapThreshold float64, snap bool) float64 {
	if !snap {
		return math.Max(0, desiredStart)
	}

	others := make([]*timeline.Clip, 0, len(track.Clips))
	for _, c := range track.Clips {
		if c.ID != clipID {
			others = append(others, c)
		}
	}
	sort.Slice(others, func(i, j int) bool { return others[i].ClipStart < others[j].ClipStart })

	result := desiredStart
	snapped := false
	for _, other := range others {
		ourEnd := desiredStart + duration
		if nearlyEqual(ourEnd, other.ClipStart, snapThreshold) {
			result = other.ClipStart - duration
			snapped = true
			break
		}
		if nearlyEqual(desiredStart, other.End(), snapThreshold) {
			result = other.End()
			snapped = true
			break
		}
		if nearlyEqual(desiredStart, other.ClipStart, snapThreshold) {
			result = other.ClipStart
			snapped = true
			break
		}
	}
	_ = snapped

	// Step 3: after snapping (or not), push out of any resulting overlap.
	for _, other := range others {
		start, end := result, result+duration
		if start < other.End() && end > other.ClipStart {
			distAfter := math.Abs(other.End() - start)
			distBefore := math.Abs(other.ClipStart - duration - start)
			if distAfter <= distBefore {
				result = other.End()
			} else {
				result = other.ClipStart - duration
			}
		}
	}

	return math.Max(0, result)
}
