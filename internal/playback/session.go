package playback

import (
	"slices"
	"sync"
)

// Player is the slice of the adapter a session drives.
type Player interface {
	// LoadOrCreate reports false when the video could not be started.
	LoadOrCreate(videoID string) bool
	Teardown()
}

// Session walks an ordered list of video ids with an inline player. It tracks
// position by index: when the list changes the index is clamped, not
// re-resolved by id.
type Session struct {
	mu      sync.Mutex
	ids     []string
	visible bool
	index   int
	current string
	player  Player
}

type Status struct {
	Visible   bool   `json:"visible"`
	Index     int    `json:"index"`
	Size      int    `json:"size"`
	CurrentID string `json:"currentId,omitempty"`
}

func NewSession(ids []string, player Player) *Session {
	return &Session{ids: slices.Clone(ids), player: player}
}

// Show starts at the first entry. No-op when already visible or empty.
func (s *Session) Show() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.visible || len(s.ids) == 0 {
		return
	}
	s.visible = true
	s.index = 0
	s.playLocked()
}

// Hide tears the player down so a later Show starts from a fresh instance.
func (s *Session) Hide() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hideLocked()
}

func (s *Session) hideLocked() {
	if !s.visible {
		return
	}
	s.visible = false
	s.index = 0
	s.current = ""
	s.player.Teardown()
}

func (s *Session) SelectIndex(i int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.visible {
		return
	}
	s.index = clamp(i, len(s.ids))
	s.playLocked()
}

func (s *Session) Advance() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stepLocked(1)
}

func (s *Session) Retreat() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stepLocked(-1)
}

// OnPlaybackEnded auto-advances; at the last entry playback simply stops.
func (s *Session) OnPlaybackEnded() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stepLocked(1)
}

func (s *Session) stepLocked(delta int) {
	if !s.visible {
		return
	}
	next := clamp(s.index+delta, len(s.ids))
	if next == s.index {
		return
	}
	s.index = next
	s.playLocked()
}

// OnUnderlyingListChanged replaces the list wholesale. A visible session
// hides on an empty list and otherwise keeps its index, clamped to the new
// length.
func (s *Session) OnUnderlyingListChanged(ids []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids = slices.Clone(ids)
	if !s.visible {
		return
	}
	if len(s.ids) == 0 {
		s.hideLocked()
		return
	}
	s.index = clamp(s.index, len(s.ids))
	s.playLocked()
}

// playLocked pushes the current id to the player only when it changed. A
// failed start leaves current unset so selecting the entry again retries.
func (s *Session) playLocked() {
	id := s.ids[s.index]
	if id == s.current {
		return
	}
	if s.player.LoadOrCreate(id) {
		s.current = id
	} else {
		s.current = ""
	}
}

func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Status{
		Visible:   s.visible,
		Index:     s.index,
		Size:      len(s.ids),
		CurrentID: s.current,
	}
}

func clamp(i, n int) int {
	return max(0, min(i, n-1))
}
