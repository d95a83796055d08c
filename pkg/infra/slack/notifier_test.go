package slack_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/ledgerkit/txcleanup/pkg/domain/model"
	"github.com/ledgerkit/txcleanup/pkg/infra/slack"
)

func TestWebhook_Notify(t *testing.T) {
	bodies := make(chan map[string]any, 2)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if r.Method != http.MethodPost || json.NewDecoder(r.Body).Decode(&body) != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		bodies <- body
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	n := slack.NewWebhook(server.URL, slack.WithHTTPClient(server.Client()))
	ctx := context.Background()

	gt.NoError(t, n.Notify(ctx, nil))
	gt.Equal(t, len(bodies), 0)

	err := n.Notify(ctx, model.UsageReport{
		{Date: model.Date(2020, 1, 1), Rule: "old card format", Stale: true},
	})
	gt.NoError(t, err)
	gt.Equal(t, len(bodies), 1)

	received := <-bodies
	text, ok := received["text"].(string)
	gt.True(t, ok)
	gt.String(t, text).Contains("old card format")
	gt.String(t, text).Contains("2020-01-01")
}

func TestWebhook_NotifyError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	n := slack.NewWebhook(server.URL)
	err := n.Notify(context.Background(), model.UsageReport{{Date: model.Date(2020, 1, 1), Rule: "x"}})
	gt.Error(t, err)
}

func TestNop(t *testing.T) {
	gt.NoError(t, slack.Nop{}.Notify(context.Background(), model.UsageReport{{Rule: "x"}}))
}
