package playback

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

type fakePlayer struct {
	loads     []string
	teardowns int
	failing   bool
}

func (p *fakePlayer) LoadOrCreate(id string) bool {
	p.loads = append(p.loads, id)
	return !p.failing
}

func (p *fakePlayer) Teardown() { p.teardowns++ }

func visibleSession(t *testing.T, ids ...string) (*Session, *fakePlayer) {
	t.Helper()
	p := &fakePlayer{}
	s := NewSession(ids, p)
	s.Show()
	if !s.Status().Visible {
		t.Fatal("expected session to be visible after Show")
	}
	return s, p
}

func TestShowOnEmptyListIsNoop(t *testing.T) {
	p := &fakePlayer{}
	s := NewSession(nil, p)

	s.Show()

	if s.Status().Visible {
		t.Error("expected hidden session")
	}
	if len(p.loads) != 0 {
		t.Errorf("expected no loads, got %v", p.loads)
	}
}

func TestShowStartsAtFirstEntry(t *testing.T) {
	s, p := visibleSession(t, "a", "b", "c")

	want := Status{Visible: true, Index: 0, Size: 3, CurrentID: "a"}
	if diff := cmp.Diff(want, s.Status()); diff != "" {
		t.Errorf("status mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a"}, p.loads); diff != "" {
		t.Errorf("loads mismatch (-want +got):\n%s", diff)
	}
}

func TestAdvanceClampsAtLastIndex(t *testing.T) {
	s, _ := visibleSession(t, "a", "b", "c")
	s.SelectIndex(2)

	s.Advance()

	if got := s.Status().Index; got != 2 {
		t.Errorf("index = %d, want 2", got)
	}
}

func TestRetreatClampsAtZero(t *testing.T) {
	s, p := visibleSession(t, "a", "b")

	s.Retreat()

	if got := s.Status().Index; got != 0 {
		t.Errorf("index = %d, want 0", got)
	}
	if len(p.loads) != 1 {
		t.Errorf("expected no extra load at the boundary, got %v", p.loads)
	}
}

func TestSelectIndexClamps(t *testing.T) {
	s, _ := visibleSession(t, "a", "b", "c")

	s.SelectIndex(10)
	if got := s.Status().Index; got != 2 {
		t.Errorf("index = %d, want 2", got)
	}
	s.SelectIndex(-3)
	if got := s.Status().Index; got != 0 {
		t.Errorf("index = %d, want 0", got)
	}
}

func TestSelectIndexIgnoredWhenHidden(t *testing.T) {
	p := &fakePlayer{}
	s := NewSession([]string{"a", "b"}, p)

	s.SelectIndex(1)
	s.Advance()

	if diff := cmp.Diff(Status{Size: 2}, s.Status()); diff != "" {
		t.Errorf("status mismatch (-want +got):\n%s", diff)
	}
	if len(p.loads) != 0 {
		t.Errorf("expected no loads, got %v", p.loads)
	}
}

func TestListShrinkClampsIndex(t *testing.T) {
	s, p := visibleSession(t, "a", "b", "c", "d", "e")
	s.SelectIndex(1)

	s.OnUnderlyingListChanged([]string{"x", "y"})

	want := Status{Visible: true, Index: 1, Size: 2, CurrentID: "y"}
	if diff := cmp.Diff(want, s.Status()); diff != "" {
		t.Errorf("status mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a", "b", "y"}, p.loads); diff != "" {
		t.Errorf("loads mismatch (-want +got):\n%s", diff)
	}
}

func TestListChangeFollowsIndexNotIdentity(t *testing.T) {
	s, _ := visibleSession(t, "a", "b", "c")
	s.SelectIndex(2)

	s.OnUnderlyingListChanged([]string{"c", "b", "a", "d"})

	if got := s.Status().CurrentID; got != "a" {
		t.Errorf("current = %q, want the entry now at index 2", got)
	}
}

func TestListChangeWithSameTargetDoesNotReload(t *testing.T) {
	s, p := visibleSession(t, "a", "b")

	s.OnUnderlyingListChanged([]string{"a", "z"})

	if len(p.loads) != 1 {
		t.Errorf("expected a single load, got %v", p.loads)
	}
}

func TestEmptyListForcesHide(t *testing.T) {
	s, p := visibleSession(t, "a", "b")
	s.Advance()

	s.OnUnderlyingListChanged(nil)

	if diff := cmp.Diff(Status{}, s.Status()); diff != "" {
		t.Errorf("status mismatch (-want +got):\n%s", diff)
	}
	if p.teardowns != 1 {
		t.Errorf("teardowns = %d, want 1", p.teardowns)
	}
}

func TestListChangeWhileHiddenOnlyReplacesList(t *testing.T) {
	p := &fakePlayer{}
	s := NewSession([]string{"a"}, p)

	s.OnUnderlyingListChanged([]string{"x", "y", "z"})

	if diff := cmp.Diff(Status{Size: 3}, s.Status()); diff != "" {
		t.Errorf("status mismatch (-want +got):\n%s", diff)
	}
	s.Show()
	if diff := cmp.Diff([]string{"x"}, p.loads); diff != "" {
		t.Errorf("loads mismatch (-want +got):\n%s", diff)
	}
}

func TestPlaybackEndedAdvancesWithoutWrap(t *testing.T) {
	s, p := visibleSession(t, "a", "b")

	s.OnPlaybackEnded()
	s.OnPlaybackEnded()

	if got := s.Status().Index; got != 1 {
		t.Errorf("index = %d, want 1", got)
	}
	if diff := cmp.Diff([]string{"a", "b"}, p.loads); diff != "" {
		t.Errorf("loads mismatch (-want +got):\n%s", diff)
	}
}

func TestHideThenShowReloads(t *testing.T) {
	s, p := visibleSession(t, "a", "b")
	s.Advance()

	s.Hide()
	s.Hide()
	s.Show()

	if p.teardowns != 1 {
		t.Errorf("teardowns = %d, want 1", p.teardowns)
	}
	if diff := cmp.Diff([]string{"a", "b", "a"}, p.loads); diff != "" {
		t.Errorf("loads mismatch (-want +got):\n%s", diff)
	}
}

func TestSessionCopiesInputList(t *testing.T) {
	ids := []string{"a", "b"}
	s := NewSession(ids, &fakePlayer{})
	s.Show()

	ids[0] = "mutated"
	s.SelectIndex(0)

	if got := s.Status().CurrentID; got != "a" {
		t.Errorf("current = %q, want a", got)
	}
}

func TestReselectRetriesAfterFailedStart(t *testing.T) {
	p := &fakePlayer{failing: true}
	s := NewSession([]string{"a", "b"}, p)
	s.Show()

	if got := s.Status().CurrentID; got != "" {
		t.Fatalf("expected no current video after failed start, got %q", got)
	}

	p.failing = false
	s.SelectIndex(0)

	if diff := cmp.Diff([]string{"a", "a"}, p.loads); diff != "" {
		t.Errorf("loads mismatch (-want +got):\n%s", diff)
	}
	if got := s.Status().CurrentID; got != "a" {
		t.Errorf("current = %q, want a", got)
	}
}
