// Package broadcast fans an operator message out to every subscriber. Sends
// are paced by a token bucket to respect provider rate limits; individual
// failures are logged and skipped, never retried.
package broadcast

import (
	"context"
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/labstack/gommon/log"
	"golang.org/x/time/rate"

	"subcast/internal/model"
)

type Config interface {
	AdminSecret() string
	BroadcastPacing() time.Duration
}

type Registry interface {
	AllIDs() ([]model.WAID, error)
}

type Sender interface {
	SendText(ctx context.Context, to model.WAID, body string) error
}

type service struct {
	registry Registry
	sender   Sender
	secret   string
	limiter  *rate.Limiter
}

func New(config Config, registry Registry, sender Sender) *service {
	return &service{
		registry: registry,
		sender:   sender,
		secret:   config.AdminSecret(),
		limiter:  rate.NewLimiter(rate.Every(config.BroadcastPacing()), 1),
	}
}

// Broadcast authorizes once, snapshots the subscriber set, then best-effort
// sends to each id. Total is the snapshot size; Sent counts successful calls.
// Subscribers added or removed mid-broadcast are not reconsidered.
func (s *service) Broadcast(ctx context.Context, key string, message string) (*model.BroadcastResult, error) {
	if subtle.ConstantTimeCompare([]byte(key), []byte(s.secret)) != 1 {
		return nil, model.ErrorUnauthorized
	}
	if message == "" {
		return nil, model.ErrorMessageRequired
	}

	ids, err := s.registry.AllIDs()
	if err != nil {
		return nil, fmt.Errorf("snapshotting subscribers: %w", err)
	}

	runID := model.CreateID()
	result := &model.BroadcastResult{Total: len(ids)}

	for _, id := range ids {
		if err := s.limiter.Wait(ctx); err != nil {
			return result, fmt.Errorf("pacing wait: %w", err)
		}
		if err := s.sender.SendText(ctx, id, message); err != nil {
			log.Errorf("broadcast %s: sending to %s: %v", runID, id, err)
			continue
		}
		result.Sent++
	}

	log.Infof("broadcast %s: sent %d of %d", runID, result.Sent, result.Total)
	return result, nil
}
