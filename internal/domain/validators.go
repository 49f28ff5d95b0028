package domain

import (
	"fmt"
	"strings"
	"time"
)

// RedeemRequest is the input of a redemption, gift or enigma.
type RedeemRequest struct {
	Kind          CodeKind
	RecipientTeam string
	Email         string
	Code          string
	Answer        string
}

// Validate checks that every required field is present. It runs before any
// store access; the error names all missing fields at once.
func (r RedeemRequest) Validate() error {
	var missing []string
	if r.RecipientTeam == "" {
		missing = append(missing, "recipientTeam")
	}
	if r.Email == "" {
		missing = append(missing, "email")
	}
	if r.Code == "" {
		missing = append(missing, "code")
	}
	if r.Kind == KindEnigma && r.Answer == "" {
		missing = append(missing, "answer")
	}
	if len(missing) == 0 {
		return nil
	}
	return ErrValidation(fmt.Sprintf("missing or invalid %s parameter", strings.Join(missing, ", ")))
}

// Attempt builds the audit row for this request.
func (r RedeemRequest) Attempt(status Outcome, at time.Time) Attempt {
	a := Attempt{
		Kind:        r.Kind,
		Code:        r.Code,
		TeamName:    r.RecipientTeam,
		PlayerEmail: r.Email,
		Status:      status,
		Date:        at,
	}
	if r.Kind == KindEnigma {
		a.Answer = r.Answer
	}
	return a
}

// Redemption describes a successful claim for notification sinks.
type Redemption struct {
	Kind        CodeKind  `json:"kind"`
	Player      Name      `json:"player"`
	Email       string    `json:"email"`
	Team        string    `json:"team"`
	Code        string    `json:"code"`
	Description string    `json:"description"`
	Answer      string    `json:"answer,omitempty"`
	Points      int       `json:"points"`
	RedeemedAt  time.Time `json:"redeemed_at"`
}
