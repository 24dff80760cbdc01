package chart

import (
	"sync"
	"time"
)

// Transition animates one mark between two visual states.
type Transition struct {
	Key      string        `json:"key"`
	From     Visual        `json:"from"`
	To       Visual        `json:"to"`
	Duration time.Duration `json:"duration"`
}

// Diff partitions a frame's marks against the previous frame by key.
type Diff struct {
	Enter  []Transition `json:"enter"`
	Update []Transition `json:"update"`
	Exit   []Transition `json:"exit"`
}

// Empty reports whether nothing changed membership or position.
func (d Diff) Empty() bool {
	return len(d.Enter) == 0 && len(d.Update) == 0 && len(d.Exit) == 0
}

// EnterKeys, UpdateKeys and ExitKeys list the keys in each group.
func (d Diff) EnterKeys() []string  { return transitionKeys(d.Enter) }
func (d Diff) UpdateKeys() []string { return transitionKeys(d.Update) }
func (d Diff) ExitKeys() []string   { return transitionKeys(d.Exit) }

func transitionKeys(ts []Transition) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.Key
	}
	return out
}

// Join reconciles prev against next. Enter marks start from next's neutral
// state, update marks move from their previous visual, exit marks move from
// their previous visual to next's neutral state. Order follows next for
// enter/update and prev for exit.
func Join(prev []Mark, next Frame) Diff {
	old := make(map[string]Mark, len(prev))
	for _, m := range prev {
		old[m.Key] = m
	}

	var d Diff
	present := make(map[string]bool, len(next.Marks))
	for _, m := range next.Marks {
		present[m.Key] = true
		if p, ok := old[m.Key]; ok {
			d.Update = append(d.Update, Transition{Key: m.Key, From: p.Visual, To: m.Visual, Duration: next.Timing.Update})
			continue
		}
		d.Enter = append(d.Enter, Transition{Key: m.Key, From: next.Neutral(m), To: m.Visual, Duration: next.Timing.Enter})
	}
	for _, p := range prev {
		if present[p.Key] {
			continue
		}
		d.Exit = append(d.Exit, Transition{Key: p.Key, From: p.Visual, To: next.Neutral(p), Duration: next.Timing.Exit})
	}
	return d
}

// Stage remembers the last committed marks per chart.
type Stage struct {
	mu   sync.Mutex
	prev map[Kind][]Mark
}

// NewStage returns a stage with no history; the first commit of every chart
// is all enter.
func NewStage() *Stage {
	return &Stage{prev: make(map[Kind][]Mark)}
}

// Commit reconciles f against the previous frame of the same kind, stores
// f's marks as the new previous frame and returns f with Diff filled in.
func (s *Stage) Commit(f Frame) Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	f.Diff = Join(s.prev[f.Kind], f)
	marks := make([]Mark, len(f.Marks))
	copy(marks, f.Marks)
	s.prev[f.Kind] = marks
	return f
}

// Reset forgets all history.
func (s *Stage) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prev = make(map[Kind][]Mark)
}
