package app

import (
	"sync"

	"campus-quiz-service/internal/domain"
)

// ScoreFeed fans updated score records out to per-subject subscribers. A slow
// subscriber has its stale update dropped rather than blocking the publisher.
type ScoreFeed struct {
	mu          sync.Mutex
	subscribers map[string]map[chan domain.ScoreRecord]struct{}
}

func NewScoreFeed() *ScoreFeed {
	return &ScoreFeed{
		subscribers: make(map[string]map[chan domain.ScoreRecord]struct{}),
	}
}

// Subscribe returns a channel receiving score updates for the subject. The
// caller must invoke the returned cancel function to avoid leaks.
func (f *ScoreFeed) Subscribe(subjectID string) (<-chan domain.ScoreRecord, func()) {
	ch := make(chan domain.ScoreRecord, 8)

	f.mu.Lock()
	subs, ok := f.subscribers[subjectID]
	if !ok {
		subs = make(map[chan domain.ScoreRecord]struct{})
		f.subscribers[subjectID] = subs
	}
	subs[ch] = struct{}{}
	f.mu.Unlock()

	cancel := func() {
		f.mu.Lock()
		if subs, ok := f.subscribers[subjectID]; ok {
			if _, ok := subs[ch]; ok {
				delete(subs, ch)
				close(ch)
			}
			if len(subs) == 0 {
				delete(f.subscribers, subjectID)
			}
		}
		f.mu.Unlock()
	}
	return ch, cancel
}

// Publish delivers the record to every subscriber of its subject.
func (f *ScoreFeed) Publish(record domain.ScoreRecord) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for ch := range f.subscribers[record.SubjectID] {
		select {
		case ch <- record:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- record
		}
	}
}
