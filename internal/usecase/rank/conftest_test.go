package rank

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kailas-cloud/recommender/internal/domain"
)

// mockOracle answers with signals keyed by the analyzed text.
type mockOracle struct {
	signals map[string]string
	failOn  string
	calls   []string
}

func (m *mockOracle) Analyze(_ context.Context, text string) (string, error) {
	m.calls = append(m.calls, text)
	if m.failOn != "" && strings.Contains(text, m.failOn) {
		return "", fmt.Errorf("quota exhausted: %w", domain.ErrExternalService)
	}
	s, ok := m.signals[text]
	if !ok {
		return "", fmt.Errorf("no signal for %q: %w", text, domain.ErrExternalService)
	}
	return s, nil
}

// slowOracle echoes its input after delay, or fails when ctx ends first.
type slowOracle struct {
	delay time.Duration
	calls int
}

func (o *slowOracle) Analyze(ctx context.Context, text string) (string, error) {
	o.calls++
	select {
	case <-time.After(o.delay):
		return text, nil
	case <-ctx.Done():
		return "", fmt.Errorf("analyze: %w: %w", domain.ErrExternalService, ctx.Err())
	}
}

// echoOracle returns its input as the signal.
type echoOracle struct{}

func (echoOracle) Analyze(_ context.Context, text string) (string, error) { return text, nil }

func candidate(name string) domain.Assessment {
	return domain.Assessment{Name: name, URL: "https://example.com/" + name, Duration: "30 minutes", TestType: "Cognitive"}
}

func candidates(n int) []domain.Assessment {
	out := make([]domain.Assessment, n)
	for i := range out {
		out[i] = candidate(fmt.Sprintf("c%02d", i))
	}
	return out
}

func itemNames(items []domain.Assessment) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Name
	}
	return out
}
