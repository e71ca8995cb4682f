package http

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/iotaledger/iota-trust/light/provider"
	rpcclient "github.com/iotaledger/iota-trust/rpc/jsonrpc/client"
	rpctypes "github.com/iotaledger/iota-trust/rpc/jsonrpc/types"
	"github.com/iotaledger/iota-trust/types"
)

// This is brittle: the node reports unknown items with free text errors.
var regexpNotFound = regexp.MustCompile(`(?i)(could not find|not found|does not exist|notExists)`)

const (
	defaultMaxRetryAttempts = 5
	defaultRetryBase        = 250 * time.Millisecond
	defaultTimeout          = 30 * time.Second
)

// Option sets a parameter of the provider.
type Option func(*httpProvider)

// MaxRetryAttempts sets how often a request that got no response is
// retried. 0 disables retries.
func MaxRetryAttempts(n uint64) Option {
	return func(p *httpProvider) { p.maxRetryAttempts = n }
}

// RetryBase sets the first backoff interval. It doubles on every retry.
func RetryBase(d time.Duration) Option {
	return func(p *httpProvider) { p.retryBase = d }
}

// Timeout bounds every request.
func Timeout(d time.Duration) Option {
	return func(p *httpProvider) { p.timeout = d }
}

// httpProvider talks JSON-RPC to a full node for lookups and reads the
// CBOR encoded checkpoints from its REST API at /api/v1/checkpoints.
type httpProvider struct {
	remote string
	rpc    *rpcclient.Client
	rest   *http.Client

	timeout          time.Duration
	maxRetryAttempts uint64
	retryBase        time.Duration
}

var _ provider.Provider = (*httpProvider)(nil)

// New creates a HTTP provider for the node at remote. If no scheme is
// provided in the remote URL, http will be used by default.
func New(remote string, opts ...Option) (provider.Provider, error) {
	// Ensure URL scheme is set (default HTTP) when not provided.
	if !strings.Contains(remote, "://") {
		remote = "http://" + remote
	}
	remote = strings.TrimSuffix(remote, "/")

	p := &httpProvider{
		remote:           remote,
		timeout:          defaultTimeout,
		maxRetryAttempts: defaultMaxRetryAttempts,
		retryBase:        defaultRetryBase,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.retryBase <= 0 {
		return nil, fmt.Errorf("retry base must be positive, got %v", p.retryBase)
	}

	rpc, err := rpcclient.New(remote, p.timeout)
	if err != nil {
		return nil, err
	}
	p.rpc = rpc
	p.rest = &http.Client{Timeout: p.timeout}
	return p, nil
}

func (p *httpProvider) String() string {
	return fmt.Sprintf("http{%s}", p.remote)
}

type transactionBlockResponse struct {
	Digest     string  `json:"digest"`
	Checkpoint *string `json:"checkpoint"`
}

func (p *httpProvider) TransactionCheckpoint(
	ctx context.Context,
	digest types.TransactionDigest,
) (types.CheckpointSequenceNumber, error) {
	var res transactionBlockResponse
	err := p.call(ctx, "iota_getTransactionBlock", []interface{}{digest.String(), map[string]bool{}}, &res)
	if err != nil {
		return 0, err
	}
	if res.Checkpoint == nil {
		return 0, fmt.Errorf("transaction %v is not checkpointed: %w", digest, provider.ErrNotFound)
	}
	return parseUint(*res.Checkpoint)
}

func (p *httpProvider) LatestCheckpoint(ctx context.Context) (types.CheckpointSequenceNumber, error) {
	var res string
	if err := p.call(ctx, "iota_getLatestCheckpointSequenceNumber", nil, &res); err != nil {
		return 0, err
	}
	return parseUint(res)
}

type checkpointResponse struct {
	Epoch          string `json:"epoch"`
	SequenceNumber string `json:"sequenceNumber"`
	Digest         string `json:"digest"`
}

func (p *httpProvider) CheckpointEpoch(ctx context.Context, seq types.CheckpointSequenceNumber) (types.EpochID, error) {
	var res checkpointResponse
	err := p.call(ctx, "iota_getCheckpoint", []interface{}{strconv.FormatUint(seq, 10)}, &res)
	if err != nil {
		return 0, err
	}
	return parseUint(res.Epoch)
}

type objectResponse struct {
	Data *struct {
		ObjectID string `json:"objectId"`
		Bcs      *struct {
			BcsBytes string `json:"bcsBytes"`
		} `json:"bcs"`
	} `json:"data"`
	Error *struct {
		Code string `json:"code"`
	} `json:"error"`
}

func (p *httpProvider) Object(ctx context.Context, id types.ObjectID) (*types.Object, error) {
	var res objectResponse
	err := p.call(ctx, "iota_getObject", []interface{}{id.String(), map[string]bool{"showBcs": true}}, &res)
	if err != nil {
		return nil, err
	}
	if res.Error != nil {
		if regexpNotFound.MatchString(res.Error.Code) {
			return nil, fmt.Errorf("object %v: %w", id, provider.ErrNotFound)
		}
		return nil, provider.ErrBadResponse{Reason: fmt.Errorf("object %v: %s", id, res.Error.Code)}
	}
	if res.Data == nil || res.Data.Bcs == nil {
		return nil, provider.ErrBadResponse{Reason: fmt.Errorf("object %v: no bcs data", id)}
	}

	bz, err := base64.StdEncoding.DecodeString(res.Data.Bcs.BcsBytes)
	if err != nil {
		return nil, provider.ErrBadResponse{Reason: err}
	}
	obj := new(types.Object)
	if err := types.Unmarshal(bz, obj); err != nil {
		return nil, provider.ErrBadResponse{Reason: err}
	}
	if obj.ID() != id {
		return nil, provider.ErrBadResponse{Reason: fmt.Errorf("asked for object %v, got %v", id, obj.ID())}
	}
	return obj, nil
}

func (p *httpProvider) CheckpointSummary(
	ctx context.Context,
	seq types.CheckpointSequenceNumber,
) (*types.CertifiedCheckpointSummary, error) {
	summary := new(types.CertifiedCheckpointSummary)
	if err := p.get(ctx, fmt.Sprintf("/api/v1/checkpoints/%d", seq), summary); err != nil {
		return nil, err
	}
	if summary.SequenceNumber() != seq {
		return nil, provider.ErrBadResponse{
			Reason: fmt.Errorf("asked for checkpoint %d, got %d", seq, summary.SequenceNumber()),
		}
	}
	return summary, nil
}

func (p *httpProvider) FullCheckpoint(ctx context.Context, seq types.CheckpointSequenceNumber) (*types.CheckpointData, error) {
	data := new(types.CheckpointData)
	if err := p.get(ctx, fmt.Sprintf("/api/v1/checkpoints/%d/full", seq), data); err != nil {
		return nil, err
	}
	if got := data.CheckpointSummary.SequenceNumber(); got != seq {
		return nil, provider.ErrBadResponse{Reason: fmt.Errorf("asked for checkpoint %d, got %d", seq, got)}
	}
	return data, nil
}

// call issues a JSON-RPC request, retrying while the node does not answer.
func (p *httpProvider) call(ctx context.Context, method string, params []interface{}, result interface{}) error {
	return p.withRetry(ctx, func(ctx context.Context) error {
		err := p.rpc.Call(ctx, method, params, result)
		if err == nil {
			return nil
		}
		var rpcErr *rpctypes.RPCError
		switch {
		case errors.As(err, &rpcErr) && regexpNotFound.MatchString(rpcErr.Message):
			return fmt.Errorf("%s: %w", method, provider.ErrNotFound)
		case errors.As(err, &rpcErr):
			return provider.ErrBadResponse{Reason: err}
		case errors.Is(err, context.Canceled):
			return err
		default:
			return fmt.Errorf("%w: %v", provider.ErrNoResponse, err)
		}
	})
}

// get reads a CBOR encoded REST resource into v.
func (p *httpProvider) get(ctx context.Context, path string, v interface{}) error {
	return p.withRetry(ctx, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.remote+path, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/cbor")

		resp, err := p.rest.Do(req)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			return fmt.Errorf("%w: %v", provider.ErrNoResponse, err)
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusNotFound:
			return fmt.Errorf("%s: %w", path, provider.ErrNotFound)
		case resp.StatusCode >= 500:
			return fmt.Errorf("%w: %s: %s", provider.ErrNoResponse, path, resp.Status)
		case resp.StatusCode != http.StatusOK:
			return provider.ErrBadResponse{Reason: fmt.Errorf("%s: %s", path, resp.Status)}
		}

		bz, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("%w: %v", provider.ErrNoResponse, err)
		}
		if err := types.Unmarshal(bz, v); err != nil {
			return provider.ErrBadResponse{Reason: err}
		}
		return nil
	})
}

func (p *httpProvider) withRetry(ctx context.Context, fn func(context.Context) error) error {
	backoff := retry.WithMaxRetries(p.maxRetryAttempts, retry.NewExponential(p.retryBase))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := fn(ctx)
		if errors.Is(err, provider.ErrNoResponse) {
			return retry.RetryableError(err)
		}
		return err
	})
}

func parseUint(s string) (uint64, error) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, provider.ErrBadResponse{Reason: err}
	}
	return n, nil
}
