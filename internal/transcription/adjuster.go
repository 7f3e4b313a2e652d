// Package transcription keeps word-level ASR timing consistent with
// timeline edits: per-word offsets, falloff pull, neighbor push, and
// cut/delete re-timing.
package transcription

import (
	"math"
	"sort"
	"strings"

	"github.com/tidesound/editor/internal/timeline"
)

// Config carries the tunables transcription needs from conf.Settings.
type Config struct {
	FalloffFactor   float64
	FalloffRadius   int
	MinOffsetMs     float64
	OverlapGuardSec float64
}

// AdjustedWord is a word's displayed timing: start/end after adding the
// track offset and the word's own millisecond offset.
type AdjustedWord struct {
	ID    timeline.WordID
	Start float64
	End   float64
}

// GetAdjustedWords returns every word's displayed timing for a track.
// trackOffset is the track's current timeline position (TrackStart, or
// the active drag position while one is in flight — the caller resolves
// which to pass).
func GetAdjustedWords(tr *timeline.TrackTranscription, trackOffset float64) []AdjustedWord {
	out := make([]AdjustedWord, len(tr.Words))
	for i, w := range tr.Words {
		offsetSec := tr.WordOffsets[w.ID] / 1000.0
		out[i] = AdjustedWord{ID: w.ID, Start: w.Start + trackOffset + offsetSec, End: w.End + trackOffset + offsetSec}
	}
	return out
}

// GetWordAtTime binary-searches adjusted starts for the word containing t.
func GetWordAtTime(tr *timeline.TrackTranscription, trackOffset, t float64) (timeline.WordID, bool) {
	adj := GetAdjustedWords(tr, trackOffset)
	idx := sort.Search(len(adj), func(i int) bool { return adj[i].Start > t })
	if idx == 0 {
		return "", false
	}
	w := adj[idx-1]
	if t >= w.Start && t < w.End {
		return w.ID, true
	}
	return "", false
}

// GetWordsInRange binary-searches adjusted starts for words overlapping
// [start, end).
func GetWordsInRange(tr *timeline.TrackTranscription, trackOffset, start, end float64) []timeline.WordID {
	adj := GetAdjustedWords(tr, trackOffset)
	var ids []timeline.WordID
	lo := sort.Search(len(adj), func(i int) bool { return adj[i].End > start })
	for i := lo; i < len(adj) && adj[i].Start < end; i++ {
		ids = append(ids, adj[i].ID)
	}
	return ids
}

func wordIndex(tr *timeline.TrackTranscription, id timeline.WordID) int {
	for i, w := range tr.Words {
		if w.ID == id {
			return i
		}
	}
	return -1
}

func (c Config) offset(tr *timeline.TrackTranscription, idx int) float64 {
	if tr.WordOffsets == nil {
		return 0
	}
	return tr.WordOffsets[tr.Words[idx].ID]
}

func (c Config) setOffset(tr *timeline.TrackTranscription, idx int, ms float64) {
	if tr.WordOffsets == nil {
		tr.WordOffsets = make(map[timeline.WordID]float64)
	}
	if math.Abs(ms) < c.MinOffsetMs {
		delete(tr.WordOffsets, tr.Words[idx].ID)
		return
	}
	tr.WordOffsets[tr.Words[idx].ID] = ms
}

func (c Config) adjustedStart(tr *timeline.TrackTranscription, idx int) float64 {
	return tr.Words[idx].Start + c.offset(tr, idx)/1000.0
}

func (c Config) adjustedEnd(tr *timeline.TrackTranscription, idx int) float64 {
	return tr.Words[idx].End + c.offset(tr, idx)/1000.0
}

// SetWordOffset drags a single word by setting its absolute offset,
// applying falloff-pull or rigid neighbor-push to keep later words in sync.
func (c Config) SetWordOffset(tr *timeline.TrackTranscription, wordID timeline.WordID, newOffsetMs float64, neighborPush bool) bool {
	idx := wordIndex(tr, wordID)
	if idx < 0 {
		return false
	}
	prevOffset := c.offset(tr, idx)
	delta := newOffsetMs - prevOffset
	c.setOffset(tr, idx, newOffsetMs)

	if !neighborPush || math.Abs(delta) < 0.5 {
		return true
	}

	if tr.EnableFalloff {
		c.applyFalloff(tr, idx, delta)
		c.resolveOverlapOutward(tr, idx)
	} else {
		c.rigidPushLeft(tr, idx)
		c.rigidPushRight(tr, idx)
	}
	return true
}

// applyFalloff nudges neighbors within FalloffRadius by delta*factor^d on
// both sides.
func (c Config) applyFalloff(tr *timeline.TrackTranscription, pivot int, delta float64) {
	for d := 1; d <= c.FalloffRadius; d++ {
		pull := delta * math.Pow(c.FalloffFactor, float64(d))
		if math.Abs(pull) <= 0.5 {
			continue
		}
		if left := pivot - d; left >= 0 {
			c.setOffset(tr, left, c.offset(tr, left)+pull)
		}
		if right := pivot + d; right < len(tr.Words) {
			c.setOffset(tr, right, c.offset(tr, right)+pull)
		}
	}
}

// resolveOverlapOutward runs one outward pass from pivot fixing any
// remaining overlap on both sides, after falloff pull.
func (c Config) resolveOverlapOutward(tr *timeline.TrackTranscription, pivot int) {
	for i := pivot; i > 0; i-- {
		prevEnd := c.adjustedEnd(tr, i-1)
		curStart := c.adjustedStart(tr, i)
		if prevEnd <= curStart-c.OverlapGuardSec {
			break
		}
		required := curStart - c.OverlapGuardSec
		overflow := prevEnd - required
		c.setOffset(tr, i-1, c.offset(tr, i-1)-overflow*1000.0)
	}
	for i := pivot; i < len(tr.Words)-1; i++ {
		curEnd := c.adjustedEnd(tr, i)
		nextStart := c.adjustedStart(tr, i+1)
		if curEnd <= nextStart-c.OverlapGuardSec {
			break
		}
		required := curEnd + c.OverlapGuardSec
		overflow := required - nextStart
		c.setOffset(tr, i+1, c.offset(tr, i+1)+overflow*1000.0)
	}
}

// rigidPushLeft walks left neighbors, pushing each just enough to satisfy
// prev.adjusted_end <= required_end, stopping as soon as one already
// satisfies the constraint.
func (c Config) rigidPushLeft(tr *timeline.TrackTranscription, pivot int) {
	requiredEnd := c.adjustedStart(tr, pivot) - c.OverlapGuardSec
	for i := pivot - 1; i >= 0; i-- {
		prevEnd := c.adjustedEnd(tr, i)
		if prevEnd <= requiredEnd {
			break
		}
		overflow := prevEnd - requiredEnd
		c.setOffset(tr, i, c.offset(tr, i)-overflow*1000.0)
		requiredEnd = c.adjustedStart(tr, i) - c.OverlapGuardSec
	}
}

// rigidPushRight is the mirror of rigidPushLeft.
func (c Config) rigidPushRight(tr *timeline.TrackTranscription, pivot int) {
	requiredStart := c.adjustedEnd(tr, pivot) + c.OverlapGuardSec
	for i := pivot + 1; i < len(tr.Words); i++ {
		nextStart := c.adjustedStart(tr, i)
		if nextStart >= requiredStart {
			break
		}
		overflow := requiredStart - nextStart
		c.setOffset(tr, i, c.offset(tr, i)+overflow*1000.0)
		requiredStart = c.adjustedEnd(tr, i) + c.OverlapGuardSec
	}
}

// ShiftAllWords adds deltaMs to every word's offset (a global drag),
// dropping entries whose resulting magnitude falls below MinOffsetMs.
func (c Config) ShiftAllWords(tr *timeline.TrackTranscription, deltaMs float64) {
	for i := range tr.Words {
		c.setOffset(tr, i, c.offset(tr, i)+deltaMs)
	}
}

// AdjustForCut removes words fully inside [cutStart, cutEnd) (using
// adjusted positions relative to trackOffset) and shifts the base timing
// of every remaining word whose adjusted start is at/after cutEnd left by
// the cut's duration.
func AdjustForCut(tr *timeline.TrackTranscription, trackOffset, cutStart, cutEnd float64) {
	gap := cutEnd - cutStart
	var kept []*timeline.Word
	for _, w := range tr.Words {
		offsetSec := tr.WordOffsets[w.ID] / 1000.0
		adjStart := w.Start + trackOffset + offsetSec
		adjEnd := w.End + trackOffset + offsetSec
		if adjStart >= cutStart && adjEnd <= cutEnd {
			delete(tr.WordOffsets, w.ID)
			continue
		}
		if adjStart >= cutEnd {
			w.Start -= gap
			w.End -= gap
		}
		kept = append(kept, w)
	}
	tr.Words = kept
	rederiveFullText(tr)
}

// AdjustForDelete removes words fully inside [s, e) without shifting
// anything else.
func AdjustForDelete(tr *timeline.TrackTranscription, trackOffset, s, e float64) {
	var kept []*timeline.Word
	for _, w := range tr.Words {
		offsetSec := tr.WordOffsets[w.ID] / 1000.0
		adjStart := w.Start + trackOffset + offsetSec
		adjEnd := w.End + trackOffset + offsetSec
		if adjStart >= s && adjEnd <= e {
			delete(tr.WordOffsets, w.ID)
			continue
		}
		kept = append(kept, w)
	}
	tr.Words = kept
	rederiveFullText(tr)
}

func rederiveFullText(tr *timeline.TrackTranscription) {
	parts := make([]string, len(tr.Words))
	for i, w := range tr.Words {
		parts[i] = w.Text
	}
	tr.FullText = strings.Join(parts, " ")
}
