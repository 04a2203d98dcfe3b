package app

import (
	"sync"

	"challenge-quiz-service/internal/domain"
)

// StandingsHub fans out scoreboard snapshots to live watchers, keyed by
// problem. Slow subscribers get stale snapshots dropped rather than
// blocking the publisher.
type StandingsHub struct {
	mu     sync.Mutex
	topics map[string]map[chan domain.Standings]struct{}
}

func NewStandingsHub() *StandingsHub {
	return &StandingsHub{topics: make(map[string]map[chan domain.Standings]struct{})}
}

// Subscribe registers a watcher for one problem's standings. The caller
// must invoke the returned cancel function to avoid leaks.
func (h *StandingsHub) Subscribe(problemID string) (<-chan domain.Standings, func()) {
	ch := make(chan domain.Standings, 8)

	h.mu.Lock()
	subs, ok := h.topics[problemID]
	if !ok {
		subs = make(map[chan domain.Standings]struct{})
		h.topics[problemID] = subs
	}
	subs[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if subs, ok := h.topics[problemID]; ok {
			if _, ok := subs[ch]; ok {
				delete(subs, ch)
				close(ch)
			}
			if len(subs) == 0 {
				delete(h.topics, problemID)
			}
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

// Publish delivers a snapshot to every watcher of the problem.
func (h *StandingsHub) Publish(standings domain.Standings) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.topics[standings.ProblemID] {
		select {
		case ch <- standings:
		default:
			// Evict the oldest buffered snapshot so the newest wins.
			select {
			case <-ch:
			default:
			}
			ch <- standings
		}
	}
}
