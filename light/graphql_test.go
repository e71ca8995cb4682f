package light_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iotaledger/iota-trust/light"
)

func TestGraphQLLastCheckpointOfEpoch(t *testing.T) {
	chain := makeChain(t, 3)
	gql := newGraphQLServer(t, chain)
	c := light.NewGraphQLClient(gql.URL, time.Second)
	ctx := context.Background()

	seq, err := c.LastCheckpointOfEpoch(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, lastOfEpoch(1), seq)

	_, err = c.LastCheckpointOfEpoch(ctx, 3)
	assert.ErrorContains(t, err, "epoch not closed")
}

func TestGraphQLBadResponses(t *testing.T) {
	testCases := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, ""},
		{"not json", http.StatusOK, "<html>"},
		{"no epoch", http.StatusOK, `{"data":{"epoch":null}}`},
		{"no nodes", http.StatusOK, `{"data":{"epoch":{"checkpoints":{"nodes":[]}}}}`},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			_, err := light.NewGraphQLClient(srv.URL, time.Second).LastCheckpointOfEpoch(context.Background(), 0)
			assert.Error(t, err)
		})
	}
}
