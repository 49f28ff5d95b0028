package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// TeamTotal is one row of the aggregated points query.
type TeamTotal struct {
	Name   string
	Points int
}

// RosterPlayer is a player as shown on the leaderboard.
type RosterPlayer struct {
	TeamName string `json:"-"`
	Name     Name   `json:"name"`
	Semester string `json:"semester"`
}

// ClaimedGift is a redeemed gift joined to the player who claimed it.
type ClaimedGift struct {
	TeamName    string       `json:"-"`
	Code        string       `json:"code"`
	Description string       `json:"description"`
	Points      int          `json:"points"`
	RedeemDate  time.Time    `json:"redeemDate"`
	Player      RosterPlayer `json:"player"`
}

// ClaimedEnigma is a solved enigma; unlike gifts it reveals the answer.
type ClaimedEnigma struct {
	TeamName    string       `json:"-"`
	Code        string       `json:"code"`
	Answer      string       `json:"answer"`
	Description string       `json:"description"`
	Points      int          `json:"points"`
	RedeemDate  time.Time    `json:"redeemDate"`
	Player      RosterPlayer `json:"player"`
}

// TeamView is everything the leaderboard shows for one team.
type TeamView struct {
	Points            int              `json:"points"`
	Players           []RosterPlayer   `json:"players"`
	Gifts             []ClaimedGift    `json:"gifts"`
	Enigmas           []ClaimedEnigma  `json:"enigmas"`
	ActivitiesResults []ActivityResult `json:"activities_results"`
}

func newTeamView(points int) *TeamView {
	return &TeamView{
		Points:            points,
		Players:           []RosterPlayer{},
		Gifts:             []ClaimedGift{},
		Enigmas:           []ClaimedEnigma{},
		ActivitiesResults: []ActivityResult{},
	}
}

// TeamBoard maps team names to their view and remembers ranking order, which
// is kept when encoded as a JSON object.
type TeamBoard struct {
	order  []string
	byName map[string]*TeamView
}

// NewTeamBoard creates an empty board.
func NewTeamBoard() *TeamBoard {
	return &TeamBoard{byName: make(map[string]*TeamView)}
}

// Add appends a team with the given points. Adding a name twice keeps the
// first position and overwrites the points.
func (b *TeamBoard) Add(name string, points int) *TeamView {
	if v, ok := b.byName[name]; ok {
		v.Points = points
		return v
	}
	v := newTeamView(points)
	b.order = append(b.order, name)
	b.byName[name] = v
	return v
}

// Get returns the view for a team.
func (b *TeamBoard) Get(name string) (*TeamView, bool) {
	v, ok := b.byName[name]
	return v, ok
}

// Names returns team names in ranking order.
func (b *TeamBoard) Names() []string {
	return append([]string(nil), b.order...)
}

func (b *TeamBoard) Len() int { return len(b.order) }

func (b *TeamBoard) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range b.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(b.byName[name])
		if err != nil {
			return nil, fmt.Errorf("marshal team %s: %w", name, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (b *TeamBoard) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("teams: expected object, got %v", tok)
	}
	b.order = nil
	b.byName = make(map[string]*TeamView)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("teams: expected key, got %v", tok)
		}
		v := newTeamView(0)
		if err := dec.Decode(v); err != nil {
			return fmt.Errorf("teams: decode %s: %w", name, err)
		}
		b.order = append(b.order, name)
		b.byName[name] = v
	}
	_, err = dec.Token()
	return err
}

// Leaderboard is the full read model served on GET /teams.
type Leaderboard struct {
	Teams                 *TeamBoard   `json:"teams"`
	Benefactors           []Benefactor `json:"benefactors"`
	AvailableGiftsCount   int          `json:"availableGiftsCount"`
	AvailableEnigmasCount int          `json:"availableEnigmasCount"`
}
