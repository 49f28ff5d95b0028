package domain

import (
	"encoding/json"
	"fmt"
)

// Outcome is the closed set of results a redemption can end with. None of them
// is an error: each is reported to the client with a 200.
type Outcome int

const (
	OutcomeOK Outcome = iota + 1
	OutcomePlayerNotExisting
	OutcomeTeamNotExisting
	OutcomeNotFound
	OutcomeBadAnswer
	OutcomeUsed
)

// Outcomes lists every outcome in declaration order.
var Outcomes = []Outcome{
	OutcomeOK,
	OutcomePlayerNotExisting,
	OutcomeTeamNotExisting,
	OutcomeNotFound,
	OutcomeBadAnswer,
	OutcomeUsed,
}

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "OK"
	case OutcomePlayerNotExisting:
		return "PLAYER_NOT_EXISTING"
	case OutcomeTeamNotExisting:
		return "TEAM_NOT_EXISTING"
	case OutcomeNotFound:
		return "NOT_FOUND"
	case OutcomeBadAnswer:
		return "BAD_ANSWER"
	case OutcomeUsed:
		return "USED"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

func (o Outcome) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.String())
}
