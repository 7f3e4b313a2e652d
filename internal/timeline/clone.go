package timeline

// CloneTrack deep-copies a track for history snapshots. Buffers and their
// immutable peak arrays are shared by reference; everything else is
// deep-copied so a later mutation never affects an older snapshot.
func CloneTrack(t *Track) *Track {
	clone := *t
	if t.AudioData != nil {
		clipCopy := *t.AudioData
		clone.AudioData = &clipCopy
	}
	if t.Clips != nil {
		clone.Clips = make([]*Clip, len(t.Clips))
		for i, c := range t.Clips {
			cc := *c
			clone.Clips[i] = &cc
		}
	}
	if t.VolumeEnvelope != nil {
		clone.VolumeEnvelope = make([]*VolumeAutomationPoint, len(t.VolumeEnvelope))
		for i, p := range t.VolumeEnvelope {
			pp := *p
			clone.VolumeEnvelope[i] = &pp
		}
	}
	if t.TimeMarks != nil {
		clone.TimeMarks = make([]*TimeMark, len(t.TimeMarks))
		for i, m := range t.TimeMarks {
			mm := *m
			clone.TimeMarks[i] = &mm
		}
	}
	return &clone
}

// CloneTranscription deep-copies a track's transcription, including its
// word-offset table.
func CloneTranscription(tr *TrackTranscription) *TrackTranscription {
	clone := *tr
	if tr.Words != nil {
		clone.Words = make([]*Word, len(tr.Words))
		for i, w := range tr.Words {
			ww := *w
			clone.Words[i] = &ww
		}
	}
	if tr.WordOffsets != nil {
		clone.WordOffsets = make(map[WordID]float64, len(tr.WordOffsets))
		for k, v := range tr.WordOffsets {
			clone.WordOffsets[k] = v
		}
	}
	return &clone
}
