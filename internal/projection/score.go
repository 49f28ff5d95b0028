package projection

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/huntclub/hunt-api/internal/domain"
)

// TeamScore is a running tally of a team's claims as seen on the event stream.
// It does not include activity results, which are never published.
type TeamScore struct {
	Team      string    `json:"team"`
	Points    int       `json:"points"`
	Gifts     int       `json:"gifts"`
	Enigmas   int       `json:"enigmas"`
	LastCode  string    `json:"last_code"`
	UpdatedAt time.Time `json:"updated_at"`
}

// seenTTL bounds how long a delivered event id is remembered for dedup.
const seenTTL = 24 * time.Hour

func scoreKey(team string) string { return "projection:team:" + team }

func seenKey(eventID string) string { return "projection:seen:" + eventID }

// GetTeamScore returns the projected score for a team.
func GetTeamScore(ctx context.Context, store Store, team string) (*TeamScore, error) {
	var s TeamScore
	if err := GetJSON(ctx, store, scoreKey(team), &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Projector folds redemption events into per-team scores. Delivery is
// at-least-once, so events are deduplicated by id.
type Projector struct {
	mu     sync.Mutex
	store  Store
	logger *slog.Logger
}

// NewProjector creates a Projector over store.
func NewProjector(store Store, logger *slog.Logger) *Projector {
	return &Projector{store: store, logger: logger}
}

// Handle applies one raw event. It returns the updated score, or nil when the
// event was a duplicate.
func (p *Projector) Handle(ctx context.Context, value []byte) (*TeamScore, error) {
	var evt domain.Event
	if err := json.Unmarshal(value, &evt); err != nil {
		return nil, fmt.Errorf("decode event: %w", err)
	}
	var r domain.Redemption
	if err := json.Unmarshal(evt.Payload, &r); err != nil {
		return nil, fmt.Errorf("decode %s payload: %w", evt.EventType, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, err := p.store.Get(ctx, seenKey(evt.EventID.String())); err == nil {
		p.logger.Debug("duplicate event skipped", "event_id", evt.EventID)
		return nil, nil
	} else if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("check seen: %w", err)
	}

	score, err := GetTeamScore(ctx, p.store, r.Team)
	if errors.Is(err, ErrNotFound) {
		score = &TeamScore{Team: r.Team}
	} else if err != nil {
		return nil, fmt.Errorf("load score: %w", err)
	}

	score.Points += r.Points
	switch evt.EventType {
	case domain.EventGiftRedeemed:
		score.Gifts++
	case domain.EventEnigmaSolved:
		score.Enigmas++
	default:
		return nil, fmt.Errorf("unexpected event type %q", evt.EventType)
	}
	score.LastCode = r.Code
	score.UpdatedAt = evt.OccurredAt

	if err := SetJSON(ctx, p.store, scoreKey(r.Team), score, 0); err != nil {
		return nil, fmt.Errorf("save score: %w", err)
	}
	if err := p.store.Set(ctx, seenKey(evt.EventID.String()), []byte{1}, seenTTL); err != nil {
		return nil, fmt.Errorf("mark seen: %w", err)
	}
	return score, nil
}
