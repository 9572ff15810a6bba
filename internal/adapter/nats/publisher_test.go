package natspub

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"soulboard/internal/core/domain"
)

type fakeStream struct {
	subject string
	payload []byte
	opts    int
	err     error
}

func (f *fakeStream) Publish(_ context.Context, subject string, payload []byte, opts ...jetstream.PublishOpt) (*jetstream.PubAck, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.subject = subject
	f.payload = payload
	f.opts = len(opts)
	return &jetstream.PubAck{Stream: "SOULBOARD", Sequence: 7}, nil
}

func TestPublishWrapsCloudEvent(t *testing.T) {
	js := &fakeStream{}
	p := NewEventPublisher(js, "soulboard.events.", nil)
	p.newID = func() string { return "evt-1" }

	at := time.Date(2026, 5, 4, 3, 2, 1, 0, time.UTC)
	err := p.Publish(context.Background(), domain.Event{
		Name:       domain.EventFeesCalculated,
		OccurredAt: at,
		Data: domain.FeesCalculated{
			Campaign:         domain.CampaignKey{Advertiser: "adv", CampaignID: 3},
			TotalDistributed: 9605,
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "soulboard.events.fees_calculated", js.subject)
	assert.Equal(t, 1, js.opts)

	var got map[string]any
	require.NoError(t, json.Unmarshal(js.payload, &got))
	assert.Equal(t, "1.0", got["specversion"])
	assert.Equal(t, "evt-1", got["id"])
	assert.Equal(t, "soulboard/core", got["source"])
	assert.Equal(t, "io.soulboard.fees_calculated", got["type"])
	assert.Equal(t, "application/json", got["datacontenttype"])
	assert.Equal(t, "2026-05-04T03:02:01Z", got["time"])

	data, ok := got["data"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 9605, data["total_distributed"])
}

func TestPublishErrors(t *testing.T) {
	p := NewEventPublisher(&fakeStream{err: errors.New("no responders")}, "x", nil)

	err := p.Publish(context.Background(), domain.Event{Name: domain.EventCampaignCreated})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "campaign_created")

	err = p.Publish(context.Background(), domain.Event{})
	require.Error(t, err)
}

func TestEnsureSubjectList(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		subjects []string
		want     []string
	}{
		{"adds subject when list empty", nil, []string{"soulboard.events.>"}},
		{"keeps list when covered", []string{"soulboard.>"}, []string{"soulboard.>"}},
		{"keeps list when equal", []string{"soulboard.events.>"}, []string{"soulboard.events.>"}},
		{"appends when unmatched", []string{"logs.*"}, []string{"logs.*", "soulboard.events.>"}},
		{"single token wildcard does not cover", []string{"soulboard.*"}, []string{"soulboard.*", "soulboard.events.>"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := ensureSubjectList(append([]string(nil), tc.subjects...), SubjectFilter("soulboard.events"))
			assert.Equal(t, tc.want, got)
		})
	}
}
