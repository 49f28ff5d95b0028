package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/huntclub/hunt-api/internal/domain"
)

const (
	giftIcon   = "https://cdn0.iconfinder.com/data/icons/small-n-flat/24/678132-gift-64.png"
	enigmaIcon = "https://cdn2.iconfinder.com/data/icons/mixed-rounded-flat-icon/512/magnifier_glass-64.png"
)

var teamHearts = map[string]string{
	"Jaune": ":yellow_heart:",
	"Bleu":  ":blue_heart:",
	"Vert":  ":green_heart:",
	"Rouge": ":heart:",
}

// SlackMessage is the incoming-webhook payload.
type SlackMessage struct {
	IconURL     string            `json:"icon_url"`
	Text        string            `json:"text"`
	Attachments []SlackAttachment `json:"attachments"`
}

type SlackAttachment struct {
	Fallback string       `json:"fallback"`
	Text     string       `json:"text"`
	Color    string       `json:"color"`
	Fields   []SlackField `json:"fields"`
}

type SlackField struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}

// TeamLabel decorates known team colours with their heart emoji.
func TeamLabel(team string) string {
	if heart, ok := teamHearts[team]; ok {
		return heart + " " + team
	}
	return team
}

// BuildSlackMessage renders a redemption the way the event staff channel expects it.
func BuildSlackMessage(r domain.Redemption) SlackMessage {
	fields := []SlackField{
		{Title: "Prénom", Value: r.Player.First, Short: true},
		{Title: "Nom", Value: r.Player.Last, Short: true},
		{Title: "E-mail", Value: r.Email, Short: true},
		{Title: "Équipe", Value: TeamLabel(r.Team), Short: true},
		{Title: "Code", Value: r.Code, Short: true},
	}

	msg := SlackMessage{IconURL: giftIcon, Text: "Un cadeau vient d'être ouvert."}
	attachment := SlackAttachment{
		Fallback: "Voir sur PC pour plus d'informations",
		Text:     "Informations sur le cadeau",
		Color:    "#f1c40f",
	}
	if r.Kind == domain.KindEnigma {
		msg.IconURL = enigmaIcon
		msg.Text = "Une énigme vient d'être résolue."
		attachment.Text = "Informations sur l'énigme"
		attachment.Color = "#334d5c"
		fields = append(fields, SlackField{Title: "Réponse", Value: r.Answer, Short: true})
	}
	attachment.Fields = append(fields, SlackField{Title: "Description", Value: r.Description, Short: false})
	msg.Attachments = []SlackAttachment{attachment}
	return msg
}

// SlackSink posts to a Slack incoming webhook.
type SlackSink struct {
	hookURL string
	client  *http.Client
}

// NewSlackSink creates a sink for the given webhook URL.
func NewSlackSink(hookURL string) *SlackSink {
	return &SlackSink{
		hookURL: hookURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *SlackSink) Name() string { return "slack" }

func (s *SlackSink) Send(ctx context.Context, r domain.Redemption) error {
	body, err := json.Marshal(BuildSlackMessage(r))
	if err != nil {
		return fmt.Errorf("marshal slack message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.hookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("webhook returned %d: %s", resp.StatusCode, bytes.TrimSpace(snippet))
	}
	return nil
}
