package service

import (
	"context"
	"math/rand"
	"time"
)

// TaskVerifier answers whether the user really performed the external action
// (watched the ad, joined the channel). Implementations must block for the
// whole check: the caller treats it as a single suspend point.
type TaskVerifier interface {
	Verify(ctx context.Context, telegramID, taskID string) (bool, error)
}

// SimulatedVerifier stands in for a real upstream integration: it waits a
// fixed delay and then succeeds with a configured probability. The shared
// math/rand source is safe under concurrent requests.
type SimulatedVerifier struct {
	delay       time.Duration
	successRate float64
}

func NewSimulatedVerifier(delay time.Duration, successRate float64) *SimulatedVerifier {
	return &SimulatedVerifier{
		delay:       delay,
		successRate: successRate,
	}
}

func (v *SimulatedVerifier) Verify(ctx context.Context, telegramID, taskID string) (bool, error) {
	if v.delay > 0 {
		select {
		case <-time.After(v.delay):
		case <-ctx.Done():
			return false, ctx.Err()
		}
	}
	return rand.Float64() < v.successRate, nil
}
