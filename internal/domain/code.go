package domain

import (
	"fmt"
	"time"
)

// CodeKind distinguishes the two redeemable code tables.
type CodeKind int

const (
	KindGift CodeKind = iota
	KindEnigma
)

func (k CodeKind) String() string {
	switch k {
	case KindGift:
		return "gift"
	case KindEnigma:
		return "enigma"
	default:
		return "unknown"
	}
}

// Code is a gifts or enigmas row. The claim columns are nil while unclaimed.
type Code struct {
	Kind        CodeKind
	Code        string
	Description string
	Points      int
	Answer      string // enigmas only
	TeamName    *string
	PlayerEmail *string
	RedeemDate  *time.Time
}

// Claimed reports whether a team already owns the code.
func (c *Code) Claimed() bool {
	return c.TeamName != nil
}

// AnswerMatches compares a submitted answer to the stored one. The check is
// exact: case and surrounding whitespace matter.
func (c *Code) AnswerMatches(submitted string) bool {
	return c.Answer == submitted
}

// Attempt is one append-only row of gift_attempts or enigma_attempts.
type Attempt struct {
	Kind        CodeKind
	Code        string
	Answer      string // enigmas only
	TeamName    string
	PlayerEmail string
	Status      Outcome
	Date        time.Time
}

func (k CodeKind) MarshalText() ([]byte, error) {
	if k != KindGift && k != KindEnigma {
		return nil, fmt.Errorf("unknown code kind %d", int(k))
	}
	return []byte(k.String()), nil
}

func (k *CodeKind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "gift":
		*k = KindGift
	case "enigma":
		*k = KindEnigma
	default:
		return fmt.Errorf("unknown code kind %q", text)
	}
	return nil
}
