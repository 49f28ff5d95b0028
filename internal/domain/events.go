package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EventType enumerates the events published to the redemption stream.
type EventType string

const (
	EventGiftRedeemed EventType = "hunt.gift.redeemed"
	EventEnigmaSolved EventType = "hunt.enigma.solved"
)

// Event is the envelope published for every successful claim.
type Event struct {
	EventID      uuid.UUID       `json:"eventId"`
	EventType    EventType       `json:"eventType"`
	AggregateID  string          `json:"aggregateId"`
	PartitionKey string          `json:"partitionKey"`
	Payload      json.RawMessage `json:"payload"`
	OccurredAt   time.Time       `json:"occurredAt"`
}

// NewRedemptionEvent wraps a claim. Events are keyed by team so a consumer
// sees one team's claims in order.
func NewRedemptionEvent(r Redemption) (Event, error) {
	evtType := EventGiftRedeemed
	if r.Kind == KindEnigma {
		evtType = EventEnigmaSolved
	}
	payload, err := json.Marshal(r)
	if err != nil {
		return Event{}, fmt.Errorf("marshal %s payload: %w", evtType, err)
	}
	return Event{
		EventID:      uuid.New(),
		EventType:    evtType,
		AggregateID:  r.Code,
		PartitionKey: r.Team,
		Payload:      payload,
		OccurredAt:   r.RedeemedAt,
	}, nil
}
