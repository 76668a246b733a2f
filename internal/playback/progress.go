package playback

// Progress tracks per-scene playback state for one viewing session. It is
// owned by the session and mutated only through explicit viewer events; it is
// discarded wholesale when the session ends.
type Progress struct {
	states map[int]*sceneState
}

type sceneState struct {
	videoFinished bool
	unlocked      bool
}

// NewProgress returns empty progress with every scene locked.
func NewProgress() *Progress {
	return &Progress{states: make(map[int]*sceneState)}
}

func (p *Progress) state(index int) *sceneState {
	st, ok := p.states[index]
	if !ok {
		st = &sceneState{}
		p.states[index] = st
	}
	return st
}

// MarkVideoFinished records that the scene's main video reached its end.
func (p *Progress) MarkVideoFinished(index int) {
	p.state(index).videoFinished = true
}

// Unlock opens the gate for a scene. Unlocks are sticky: once open, a gate
// never closes again for the life of the session.
func (p *Progress) Unlock(index int) {
	p.state(index).unlocked = true
}

// VideoFinished reports whether the scene's video has completed.
func (p *Progress) VideoFinished(index int) bool {
	st, ok := p.states[index]
	return ok && st.videoFinished
}

// Unlocked reports whether the viewer may advance past the scene.
func (p *Progress) Unlocked(index int) bool {
	st, ok := p.states[index]
	return ok && st.unlocked
}
