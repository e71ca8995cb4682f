package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	rpctypes "github.com/iotaledger/iota-trust/rpc/jsonrpc/types"
)

const defaultTimeout = 30 * time.Second

// Client is a JSON-RPC 2.0 client, which sends POST HTTP requests to the
// remote server.
//
// Client is safe for concurrent use by multiple goroutines.
type Client struct {
	address string
	client  *http.Client

	mtx       sync.Mutex
	nextReqID int
}

// New returns a client for remote, an http or https URL. A zero timeout
// means the default of 30s.
func New(remote string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(remote)
	if err != nil {
		return nil, fmt.Errorf("invalid remote %s: %w", remote, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid remote %s: scheme must be http or https", remote)
	}
	if timeout == 0 {
		timeout = defaultTimeout
	}
	return &Client{
		address: u.String(),
		client:  &http.Client{Timeout: timeout},
	}, nil
}

// Address returns the remote URL.
func (c *Client) Address() string {
	return c.address
}

// Call issues a POST HTTP request with method and positional params and
// decodes the result into result, which may be nil.
func (c *Client) Call(ctx context.Context, method string, params []interface{}, result interface{}) error {
	id := c.nextRequestID()

	request, err := rpctypes.ParamsToRequest(id, method, params)
	if err != nil {
		return fmt.Errorf("failed to encode params: %w", err)
	}

	requestBytes, err := json.Marshal(request)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	httpRequest, err := http.NewRequestWithContext(ctx, http.MethodPost, c.address, bytes.NewReader(requestBytes))
	if err != nil {
		return fmt.Errorf("request setup failed: %w", err)
	}
	httpRequest.Header.Set("Content-Type", "application/json")

	httpResponse, err := c.client.Do(httpRequest)
	if err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}
	defer httpResponse.Body.Close()

	responseBytes, err := io.ReadAll(httpResponse.Body)
	if err != nil {
		return fmt.Errorf("%s: failed to read response body: %w", method, err)
	}
	if httpResponse.StatusCode != http.StatusOK && len(responseBytes) == 0 {
		return fmt.Errorf("%s: unexpected status %s", method, httpResponse.Status)
	}

	if err := decodeResponse(responseBytes, id, result); err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}
	return nil
}

func (c *Client) nextRequestID() rpctypes.JSONRPCIntID {
	c.mtx.Lock()
	id := c.nextReqID
	c.nextReqID++
	c.mtx.Unlock()
	return rpctypes.JSONRPCIntID(id)
}
