package light

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const lastCheckpointOfEpochQuery = `query ($epochID: Int) {
  epoch(id: $epochID) {
    checkpoints(last: 1) {
      nodes {
        sequenceNumber
      }
    }
  }
}`

// GraphQLClient asks the GraphQL service of a full node for the last
// checkpoint of an epoch.
type GraphQLClient struct {
	url    string
	client *http.Client
}

// NewGraphQLClient returns a client posting queries to url.
func NewGraphQLClient(url string, timeout time.Duration) *GraphQLClient {
	return &GraphQLClient{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

func (c *GraphQLClient) String() string {
	return c.url
}

type graphqlRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}

type graphqlResponse struct {
	Data *struct {
		Epoch *struct {
			Checkpoints struct {
				Nodes []struct {
					SequenceNumber uint64 `json:"sequenceNumber"`
				} `json:"nodes"`
			} `json:"checkpoints"`
		} `json:"epoch"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// LastCheckpointOfEpoch returns the sequence number of the last checkpoint
// of epoch.
func (c *GraphQLClient) LastCheckpointOfEpoch(ctx context.Context, epoch uint64) (uint64, error) {
	body, err := json.Marshal(graphqlRequest{
		Query:     lastCheckpointOfEpochQuery,
		Variables: map[string]interface{}{"epochID": epoch},
	})
	if err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("graphql query for epoch %d: %w", epoch, err)
	}
	defer resp.Body.Close()

	bz, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, err
	}
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("graphql query for epoch %d: %s", epoch, resp.Status)
	}

	var res graphqlResponse
	if err := json.Unmarshal(bz, &res); err != nil {
		return 0, fmt.Errorf("graphql query for epoch %d: %w", epoch, err)
	}
	if len(res.Errors) > 0 {
		msgs := make([]string, 0, len(res.Errors))
		for _, e := range res.Errors {
			msgs = append(msgs, e.Message)
		}
		return 0, fmt.Errorf("graphql query for epoch %d: %s", epoch, strings.Join(msgs, "; "))
	}
	if res.Data == nil || res.Data.Epoch == nil || len(res.Data.Epoch.Checkpoints.Nodes) == 0 {
		return 0, fmt.Errorf("graphql query for epoch %d: %w", epoch, errors.New("no checkpoint in response"))
	}
	return res.Data.Epoch.Checkpoints.Nodes[0].SequenceNumber, nil
}
