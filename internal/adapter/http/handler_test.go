package httpadapter

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"soulboard/internal/adapter/logpub"
	"soulboard/internal/adapter/memory"
	"soulboard/internal/adapter/usecase"
	"soulboard/internal/core/domain"
)

type client struct {
	t   *testing.T
	srv *httptest.Server
}

func newClient(t *testing.T) *client {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := usecase.NewMarketplaceUseCase(memory.NewStore(), logpub.New(logger, slog.LevelDebug), logger, usecase.Options{Operator: "operator"})
	srv := httptest.NewServer(NewHandler(svc, logger).Router())
	t.Cleanup(srv.Close)
	return &client{t: t, srv: srv}
}

// call sends body as JSON on behalf of principal and decodes the reply into
// out when it is non-nil.
func (c *client) call(method, path, principal string, body any, out any) int {
	c.t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(c.t, err)
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, c.srv.URL+"/api/v1"+path, rd)
	require.NoError(c.t, err)
	if principal != "" {
		req.Header.Set(PrincipalHeader, principal)
	}
	resp, err := c.srv.Client().Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(c.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func (c *client) ok(method, path, principal string, body any, out any) {
	c.t.Helper()
	status := c.call(method, path, principal, body, out)
	require.Less(c.t, status, 300, "%s %s returned %d", method, path, status)
}

func TestSettlementOverHTTP(t *testing.T) {
	c := newClient(t)

	c.ok(http.MethodPost, "/registry", "operator", nil, nil)
	for i, p := range []string{"alice", "bob"} {
		c.ok(http.MethodPost, "/providers", p, map[string]string{"name": p, "location": "Mall", "contact": "c"}, nil)
		c.ok(http.MethodPost, "/providers/me/devices", p, map[string]uint32{"device_id": uint32(i + 1)}, nil)
		c.ok(http.MethodPost, "/feeds", "oracle", map[string]uint32{"device_id": uint32(i + 1)}, nil)
	}
	c.ok(http.MethodPost, "/accounts/adv/credits", "operator", map[string]uint64{"amount": 10_000}, nil)
	c.ok(http.MethodPost, "/campaigns", "adv", map[string]any{
		"campaign_id": 7, "name": "Spring", "description": "d",
		"running_days": 2, "hours_per_day": 1, "base_fee_per_hour": 100,
	}, nil)

	var camp domain.Campaign
	c.ok(http.MethodPost, "/campaigns/adv/7/budget", "adv", map[string]uint64{"amount": 10_000}, &camp)
	assert.Equal(t, uint64(200), camp.PlatformFee)

	c.ok(http.MethodPost, "/campaigns/adv/7/locations", "adv", map[string]any{"location": "alice", "device_id": 1}, nil)
	c.ok(http.MethodPost, "/campaigns/adv/7/locations", "adv", map[string]any{"location": "bob", "device_id": 2}, &camp)
	assert.Equal(t, 2, camp.Performance.Len())

	c.ok(http.MethodPost, "/feeds/1/entries", "oracle", domain.FeedEntry{NewestEntryID: 1, DeltaViews: 300}, nil)
	c.ok(http.MethodPost, "/feeds/2/entries", "oracle", domain.FeedEntry{NewestEntryID: 1, DeltaViews: 700}, nil)
	var row domain.ProviderPerformance
	c.ok(http.MethodPost, "/campaigns/adv/7/performance/1", "adv", nil, &row)
	assert.Equal(t, uint64(300), row.TotalViews)
	c.ok(http.MethodPost, "/campaigns/adv/7/performance/2", "adv", nil, nil)

	c.ok(http.MethodPost, "/campaigns/adv/7/complete", "adv", nil, &camp)
	assert.Equal(t, domain.CampaignCompleted, camp.Status)

	var summary struct {
		TotalDistributed uint64 `json:"total_distributed"`
	}
	c.ok(http.MethodPost, "/campaigns/adv/7/distribution", "adv", nil, &summary)
	assert.Equal(t, uint64(9605), summary.TotalDistributed)

	var paid withdrawResponse
	c.ok(http.MethodPost, "/campaigns/adv/7/withdrawals", "bob", nil, &paid)
	assert.Equal(t, uint64(6645), paid.Amount)

	var bal balanceResponse
	c.ok(http.MethodGet, "/accounts/bob", "", nil, &bal)
	assert.Equal(t, uint64(6645), bal.Balance)

	escrow := url.PathEscape(string(domain.CampaignKey{Advertiser: "adv", CampaignID: 7}.EscrowAccount()))
	c.ok(http.MethodGet, "/accounts/"+escrow, "", nil, &bal)
	assert.Equal(t, uint64(10_000-6645), bal.Balance)

	var list []domain.ProviderMetadata
	c.ok(http.MethodGet, "/providers", "", nil, &list)
	require.Len(t, list, 2)
	assert.Zero(t, list[0].AvailableDevices)

	var p domain.Provider
	c.ok(http.MethodGet, "/providers/bob", "", nil, &p)
	assert.Equal(t, uint64(6645), p.TotalEarnings)
}

func TestErrorStatuses(t *testing.T) {
	c := newClient(t)
	c.ok(http.MethodPost, "/registry", "operator", nil, nil)
	c.ok(http.MethodPost, "/providers", "alice", map[string]string{"name": "a"}, nil)
	c.ok(http.MethodPost, "/providers/me/devices", "alice", map[string]uint32{"device_id": 1}, nil)
	c.ok(http.MethodPost, "/campaigns", "adv", map[string]any{"campaign_id": 1, "name": "c"}, nil)

	tests := []struct {
		name      string
		method    string
		path      string
		principal string
		body      any
		want      int
	}{
		{"missing caller", http.MethodPost, "/campaigns/adv/1/complete", "", nil, http.StatusUnauthorized},
		{"wrong advertiser", http.MethodPost, "/campaigns/adv/1/complete", "bob", nil, http.StatusForbidden},
		{"non operator credit", http.MethodPost, "/accounts/adv/credits", "adv", map[string]uint64{"amount": 1}, http.StatusForbidden},
		{"bad campaign id", http.MethodGet, "/campaigns/adv/minus-one", "", nil, http.StatusBadRequest},
		{"unknown field", http.MethodPost, "/campaigns/adv/1/budget", "adv", map[string]any{"amount": 1, "x": 2}, http.StatusBadRequest},
		{"name too long", http.MethodPatch, "/providers/me", "alice", map[string]string{"name": string(bytes.Repeat([]byte("n"), 33))}, http.StatusBadRequest},
		{"unknown campaign", http.MethodGet, "/campaigns/adv/2", "", nil, http.StatusNotFound},
		{"unknown device", http.MethodPost, "/campaigns/adv/1/locations", "adv", map[string]any{"location": "alice", "device_id": 9}, http.StatusNotFound},
		{"withdraw outsider", http.MethodPost, "/campaigns/adv/1/withdrawals", "bob", nil, http.StatusNotFound},
		{"distribute active", http.MethodPost, "/campaigns/adv/1/distribution", "adv", nil, http.StatusConflict},
		{"duplicate provider", http.MethodPost, "/providers", "alice", map[string]string{"name": "a"}, http.StatusConflict},
		{"duplicate campaign", http.MethodPost, "/campaigns", "adv", map[string]any{"campaign_id": 1, "name": "c"}, http.StatusConflict},
		{"unbook available", http.MethodDelete, "/campaigns/adv/1/locations/alice/devices/1", "adv", nil, http.StatusConflict},
		{"fund without balance", http.MethodPost, "/campaigns/adv/1/budget", "adv", map[string]uint64{"amount": 5}, http.StatusUnprocessableEntity},
		{"bad device state", http.MethodPut, "/providers/me/devices/1/state", "alice", map[string]string{"state": "broken"}, http.StatusBadRequest},
		{"book via state", http.MethodPut, "/providers/me/devices/1/state", "alice", map[string]string{"state": "booked"}, http.StatusConflict},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var body errorBody
			status := c.call(tc.method, tc.path, tc.principal, tc.body, &body)
			assert.Equal(t, tc.want, status)
			assert.NotEmpty(t, body.Error)
		})
	}
}

func TestDeviceStateRoundTrip(t *testing.T) {
	c := newClient(t)
	c.ok(http.MethodPost, "/registry", "operator", nil, nil)
	c.ok(http.MethodPost, "/providers", "alice", map[string]string{"name": "a"}, nil)
	c.ok(http.MethodPost, "/providers/me/devices", "alice", map[string]uint32{"device_id": 4}, nil)

	assert.Equal(t, http.StatusNoContent, c.call(http.MethodPut, "/providers/me/devices/4/state", "alice", map[string]string{"state": "paused"}, nil))

	var p domain.Provider
	c.ok(http.MethodGet, "/providers/alice", "", nil, &p)
	require.Equal(t, 1, p.Devices.Len())
	assert.Equal(t, domain.DevicePaused, p.Devices.At(0).State)
	assert.Zero(t, p.AvailableDevices)
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, statusOf(errors.New("boom")))
	assert.Equal(t, http.StatusNotFound, statusOf(fmt.Errorf("get: %w", domain.ErrFeedNotFound)))
	assert.Equal(t, http.StatusUnprocessableEntity, statusOf(domain.ErrNoViews))
	assert.Equal(t, http.StatusConflict, statusOf(domain.ErrRegistryFull))
	assert.Equal(t, http.StatusForbidden, statusOf(domain.ErrBadAuthority))
}

func TestHealthz(t *testing.T) {
	c := newClient(t)
	resp, err := c.srv.Client().Get(c.srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
