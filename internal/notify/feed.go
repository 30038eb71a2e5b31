package notify

import (
	"context"
	"sync"
)

// FeedLimit is how many alerts the widget shows.
const FeedLimit = 5

// Feed keeps the most recent alerts, newest first.
type Feed struct {
	mu    sync.Mutex
	items []string
}

func NewFeed() *Feed {
	return &Feed{items: make([]string, 0, FeedLimit)}
}

func (f *Feed) Push(msg string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = append([]string{msg}, f.items...)
	if len(f.items) > FeedLimit {
		f.items = f.items[:FeedLimit]
	}
}

// Items returns a copy, newest first.
func (f *Feed) Items() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.items))
	copy(out, f.items)
	return out
}

// Source produces alerts until ctx ends, then closes the channel.
type Source interface {
	Subscribe(ctx context.Context) (<-chan string, error)
}
