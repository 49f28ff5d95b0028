package notify

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/huntclub/hunt-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleGift() domain.Redemption {
	return domain.Redemption{
		Kind:        domain.KindGift,
		Player:      domain.Name{First: "Ada", Last: "Lovelace"},
		Email:       "a@x.com",
		Team:        "Bleu",
		Code:        "G1",
		Description: "Un bonnet",
		Points:      10,
		RedeemedAt:  time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
	}
}

type recordingSink struct {
	name  string
	err   error
	block chan struct{}
	mu    sync.Mutex
	got   []domain.Redemption
	calls atomic.Int32
}

func (s *recordingSink) Name() string { return s.name }

func (s *recordingSink) Send(ctx context.Context, r domain.Redemption) error {
	s.calls.Add(1)
	if s.block != nil {
		select {
		case <-s.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	s.mu.Lock()
	s.got = append(s.got, r)
	s.mu.Unlock()
	return s.err
}

// --- Dispatcher Tests ---

func TestDispatcher_DeliversToEverySink(t *testing.T) {
	a := &recordingSink{name: "a"}
	b := &recordingSink{name: "b"}
	d := NewDispatcher([]Sink{a, b}, time.Second, noopLogger())

	d.Notify(context.Background(), sampleGift())
	require.NoError(t, d.Close(context.Background()))

	assert.Len(t, a.got, 1)
	assert.Len(t, b.got, 1)
	assert.Equal(t, "G1", b.got[0].Code)
}

func TestDispatcher_FailureDoesNotStopOtherSinks(t *testing.T) {
	failing := &recordingSink{name: "failing", err: errors.New("boom")}
	ok := &recordingSink{name: "ok"}
	d := NewDispatcher([]Sink{failing, ok}, time.Second, noopLogger())

	d.Notify(context.Background(), sampleGift())
	require.NoError(t, d.Close(context.Background()))

	assert.Equal(t, int32(1), failing.calls.Load())
	assert.Len(t, ok.got, 1)
}

func TestDispatcher_NotifyDoesNotBlock(t *testing.T) {
	slow := &recordingSink{name: "slow", block: make(chan struct{})}
	d := NewDispatcher([]Sink{slow}, time.Minute, noopLogger())

	start := time.Now()
	d.Notify(context.Background(), sampleGift())
	assert.Less(t, time.Since(start), 100*time.Millisecond)

	close(slow.block)
	require.NoError(t, d.Close(context.Background()))
	assert.Len(t, slow.got, 1)
}

func TestDispatcher_CancelledRequestContextStillDelivers(t *testing.T) {
	sink := &recordingSink{name: "s", block: make(chan struct{})}
	d := NewDispatcher([]Sink{sink}, time.Minute, noopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	d.Notify(ctx, sampleGift())
	cancel()
	close(sink.block)

	require.NoError(t, d.Close(context.Background()))
	assert.Len(t, sink.got, 1)
}

func TestDispatcher_TimeoutBoundsSend(t *testing.T) {
	stuck := &recordingSink{name: "stuck", block: make(chan struct{})}
	d := NewDispatcher([]Sink{stuck}, 20*time.Millisecond, noopLogger())

	d.Notify(context.Background(), sampleGift())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, d.Close(ctx))
	assert.Empty(t, stuck.got)
}

func TestDispatcher_CircuitOpensOnRepeatedFailures(t *testing.T) {
	failing := &recordingSink{name: "failing", err: errors.New("boom")}
	d := NewDispatcher([]Sink{failing}, time.Second, noopLogger())

	for i := 0; i < 8; i++ {
		d.Notify(context.Background(), sampleGift())
		require.NoError(t, d.Close(context.Background()))
	}

	assert.Equal(t, int32(5), failing.calls.Load())
}

func TestDispatcher_NoSinksIsNoop(t *testing.T) {
	d := NewDispatcher(nil, time.Second, noopLogger())
	d.Notify(context.Background(), sampleGift())
	assert.NoError(t, d.Close(context.Background()))
}

func TestDispatcher_CloseHonoursDeadline(t *testing.T) {
	slow := &recordingSink{name: "slow", block: make(chan struct{})}
	d := NewDispatcher([]Sink{slow}, time.Minute, noopLogger())
	d.Notify(context.Background(), sampleGift())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, d.Close(ctx), context.DeadlineExceeded)

	close(slow.block)
	require.NoError(t, d.Close(context.Background()))
}

// --- Slack Tests ---

func TestTeamLabel(t *testing.T) {
	assert.Equal(t, ":yellow_heart: Jaune", TeamLabel("Jaune"))
	assert.Equal(t, ":blue_heart: Bleu", TeamLabel("Bleu"))
	assert.Equal(t, ":green_heart: Vert", TeamLabel("Vert"))
	assert.Equal(t, ":heart: Rouge", TeamLabel("Rouge"))
	assert.Equal(t, "Violet", TeamLabel("Violet"))
}

func TestBuildSlackMessage_Gift(t *testing.T) {
	msg := BuildSlackMessage(sampleGift())

	assert.Equal(t, giftIcon, msg.IconURL)
	require.Len(t, msg.Attachments, 1)
	att := msg.Attachments[0]
	assert.Equal(t, "#f1c40f", att.Color)

	titles := make([]string, 0, len(att.Fields))
	for _, f := range att.Fields {
		titles = append(titles, f.Title)
	}
	assert.Equal(t, []string{"Prénom", "Nom", "E-mail", "Équipe", "Code", "Description"}, titles)
	assert.Equal(t, ":blue_heart: Bleu", att.Fields[3].Value)
	assert.False(t, att.Fields[5].Short)
}

func TestBuildSlackMessage_EnigmaCarriesAnswer(t *testing.T) {
	r := sampleGift()
	r.Kind = domain.KindEnigma
	r.Answer = "42"

	msg := BuildSlackMessage(r)

	assert.Equal(t, enigmaIcon, msg.IconURL)
	att := msg.Attachments[0]
	assert.Equal(t, "#334d5c", att.Color)
	require.Len(t, att.Fields, 7)
	assert.Equal(t, "Réponse", att.Fields[5].Title)
	assert.Equal(t, "42", att.Fields[5].Value)
	assert.Equal(t, "Description", att.Fields[6].Title)
}

func TestSlackSink_Send(t *testing.T) {
	var received SlackMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	sink := NewSlackSink(srv.URL)
	assert.Equal(t, "slack", sink.Name())
	require.NoError(t, sink.Send(context.Background(), sampleGift()))
	assert.Equal(t, "Un cadeau vient d'être ouvert.", received.Text)
}

func TestSlackSink_Non2xxIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("no_service"))
	}))
	defer srv.Close()

	err := NewSlackSink(srv.URL).Send(context.Background(), sampleGift())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
	assert.Contains(t, err.Error(), "no_service")
}

// --- Kafka Tests ---

type fakePublisher struct {
	key, value []byte
	err        error
}

func (p *fakePublisher) Publish(_ context.Context, key, value []byte) error {
	p.key, p.value = key, value
	return p.err
}

func TestKafkaSink_PublishesEnvelopeKeyedByTeam(t *testing.T) {
	pub := &fakePublisher{}
	sink := NewKafkaSink(pub)
	assert.Equal(t, "kafka", sink.Name())

	require.NoError(t, sink.Send(context.Background(), sampleGift()))

	assert.Equal(t, []byte("Bleu"), pub.key)
	var evt domain.Event
	require.NoError(t, json.Unmarshal(pub.value, &evt))
	assert.Equal(t, domain.EventGiftRedeemed, evt.EventType)
	assert.Equal(t, "G1", evt.AggregateID)
}

func TestKafkaSink_UnencodableRedemptionIsNotPublished(t *testing.T) {
	pub := &fakePublisher{}
	r := sampleGift()
	r.Kind = domain.CodeKind(0)

	require.Error(t, NewKafkaSink(pub).Send(context.Background(), r))
	assert.Nil(t, pub.value)
}

func TestKafkaSink_PublishError(t *testing.T) {
	sink := NewKafkaSink(&fakePublisher{err: errors.New("broker down")})
	err := sink.Send(context.Background(), sampleGift())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker down")
}
