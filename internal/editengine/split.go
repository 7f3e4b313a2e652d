package editengine

import "github.com/tidesound/editor/internal/timeline"

// SplitAtTime splits a clip at timeline time t into two new clips. t must
// lie strictly inside the clip; returns (nil, nil, false) at an edge or
// for an unknown clip.
func (e *Engine) SplitAtTime(trackID timeline.TrackID, clipID timeline.ClipID, t float64) (*timeline.Clip, *timeline.Clip, bool) {
	track := e.Store.FindTrack(trackID)
	if track == nil {
		return nil, nil, false
	}
	e.normalizeToClips(track)

	var clip *timeline.Clip
	idx := -1
	for i, c := range track.Clips {
		if c.ID == clipID {
			clip, idx = c, i
			break
		}
	}
	if clip == nil {
		return nil, nil, false
	}
	if t <= clip.ClipStart || t >= clip.End() {
		return nil, nil, false
	}

	rate := clip.Buffer.SampleRate()
	splitSample := int((t - clip.ClipStart) * float64(rate))

	leftChannels := sliceChannels(clip.Buffer, 0, splitSample)
	rightChannels := sliceChannels(clip.Buffer, splitSample, clip.Buffer.Length())

	leftBuf, err := e.Registry.CreateFromChannels(leftChannels, rate)
	if err != nil {
		return nil, nil, false
	}
	rightBuf, err := e.Registry.CreateFromChannels(rightChannels, rate)
	if err != nil {
		return nil, nil, false
	}

	left := &timeline.Clip{
		ID: newClipIDFor(track), Buffer: leftBuf,
		Overview:  e.Waves.BuildOverview(leftBuf, e.Cfg.OverviewBuckets),
		ClipStart: clip.ClipStart, Duration: leftBuf.Duration(),
	}
	right := &timeline.Clip{
		ID: newClipIDFor(track), Buffer: rightBuf,
		Overview:  e.Waves.BuildOverview(rightBuf, e.Cfg.OverviewBuckets),
		ClipStart: t, Duration: rightBuf.Duration(),
	}

	newClips := append([]*timeline.Clip{}, track.Clips[:idx]...)
	newClips = append(newClips, left, right)
	newClips = append(newClips, track.Clips[idx+1:]...)
	track.Clips = newClips
	timeline.RecomputeTrackBounds(track)

	return left, right, true
}

// normalizeToClips converts a single-buffer track to an explicit one-clip
// list in place, a prerequisite both insert-at-playhead and split share.
func (e *Engine) normalizeToClips(track *timeline.Track) {
	if track.IsMultiClip() {
		return
	}
	if track.AudioData == nil {
		track.Clips = []*timeline.Clip{}
		return
	}
	clip := *track.AudioData
	clip.ID = timeline.NewClipID()
	clip.ClipStart = track.TrackStart
	track.Clips = []*timeline.Clip{&clip}
	track.AudioData = nil
}
