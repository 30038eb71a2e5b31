package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/brianvoe/gofakeit/v7"
)

const (
	// simulatedChance is the percentage of ticks that produce an alert.
	simulatedChance = 30
	maxToken        = 20
)

// SimulatedSource stands in for a real alert feed: on every tick it may
// announce a random token number.
type SimulatedSource struct {
	interval time.Duration

	mu    sync.Mutex
	faker *gofakeit.Faker
}

// NewSimulatedSource uses faker for randomness; nil picks a randomly seeded one.
func NewSimulatedSource(interval time.Duration, faker *gofakeit.Faker) *SimulatedSource {
	if faker == nil {
		faker = gofakeit.New(0)
	}
	return &SimulatedSource{interval: interval, faker: faker}
}

func TokenCalled(n int) string {
	return fmt.Sprintf("Your token number %d is called!", n)
}

// Roll decides the outcome of one tick.
func (s *SimulatedSource) Roll() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.faker.Number(1, 100) > simulatedChance {
		return "", false
	}
	return TokenCalled(s.faker.Number(1, maxToken)), true
}

func (s *SimulatedSource) Subscribe(ctx context.Context) (<-chan string, error) {
	out := make(chan string, FeedLimit)

	go func() {
		defer close(out)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				msg, ok := s.Roll()
				if !ok {
					continue
				}
				select {
				case out <- msg:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}
