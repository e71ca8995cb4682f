package http

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/sync/errgroup"

	"github.com/iotaledger/iota-trust/kvstore"
	"github.com/iotaledger/iota-trust/libs/log"
	"github.com/iotaledger/iota-trust/types"
)

const defaultTimeout = 10 * time.Second

// Store is a kvstore.Store that reads items from a REST key/value service
// at GET <base url>/<item type>/<encoded key>.
//
// Requests go over HTTP/2, with prior knowledge for plain http URLs, so a
// batch of keys is multiplexed over one connection. Any non-2xx answer means
// "not found". Items addressed by their own digest are checked against it
// and dropped on mismatch.
type Store struct {
	baseURL   *url.URL
	client    *http.Client
	transport *http2.Transport
	timeout   time.Duration
	logger    log.Logger
}

var _ kvstore.Store = (*Store)(nil)

// Option sets a Store parameter.
type Option func(*Store)

// WithTimeout bounds every request. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(s *Store) { s.timeout = d }
}

// WithLogger sets the logger.
func WithLogger(logger log.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// New returns a Store reading from baseURL.
func New(baseURL string, opts ...Option) (*Store, error) {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", baseURL, err)
	}

	transport := &http2.Transport{}
	switch u.Scheme {
	case "https":
	case "http":
		transport.AllowHTTP = true
		transport.DialTLS = func(network, addr string, _ *tls.Config) (net.Conn, error) {
			return net.Dial(network, addr)
		}
	default:
		return nil, fmt.Errorf("unsupported scheme %q in base url", u.Scheme)
	}

	s := &Store{
		baseURL:   u,
		client:    &http.Client{Transport: transport},
		transport: transport,
		timeout:   defaultTimeout,
		logger:    log.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("module", "http_kv_store")
	s.logger.Info("creating HttpKVStore", "base_url", u.String())
	return s, nil
}

// NewKV returns a Store wrapped for metrics under the label "http".
func NewKV(baseURL string, metrics *kvstore.Metrics, opts ...Option) (*kvstore.TransactionKVStore, error) {
	s, err := New(baseURL, opts...)
	if err != nil {
		return nil, err
	}
	return kvstore.New("http", metrics, s), nil
}

// Close drops idle connections.
func (s *Store) Close() {
	s.transport.CloseIdleConnections()
}

func (s *Store) url(k kvstore.Key) string {
	itemType, encoded := kvstore.ToPathElements(k)
	return s.baseURL.ResolveReference(&url.URL{Path: itemType.String() + "/" + encoded}).String()
}

// fetch returns the body stored under k, or nil if the service does not
// have it. Only transport failures are errors.
func (s *Store) fetch(ctx context.Context, k kvstore.Key) ([]byte, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	u := s.url(k)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %v: %w", k, err)
	}
	defer resp.Body.Close()

	s.logger.Debug("got response", "url", u, "status", resp.StatusCode, "len", resp.ContentLength)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, nil
	}

	bz, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %v: %w", k, err)
	}
	if len(bz) == 0 {
		return nil, nil
	}
	return bz, nil
}

type fetchResult struct {
	bz  []byte
	err error
}

// multiFetch fetches all keys concurrently. Results are in key order.
func (s *Store) multiFetch(ctx context.Context, keys []kvstore.Key) []fetchResult {
	results := make([]fetchResult, len(keys))
	if len(keys) == 0 {
		return results
	}

	var g errgroup.Group
	g.SetLimit(len(keys))
	for i, k := range keys {
		i, k := i, k
		g.Go(func() error {
			bz, err := s.fetch(ctx, k)
			results[i] = fetchResult{bz: bz, err: err}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// body returns the fetched bytes, logging and dropping fetch errors.
func (s *Store) body(k kvstore.Key, r fetchResult) []byte {
	if r.err != nil {
		s.logger.Error("error fetching key", "key", k, "err", r.err)
		return nil
	}
	return r.bz
}

func decode[T any](s *Store, k kvstore.Key, bz []byte) *T {
	if bz == nil {
		return nil
	}
	v := new(T)
	if err := types.Unmarshal(bz, v); err != nil {
		s.logger.Error("error deserializing data", "key", k, "err", err)
		return nil
	}
	return v
}

func decodeChecked[T any, D comparable](s *Store, k kvstore.Key, bz []byte, want D, digestOf func(*T) D) *T {
	v := decode[T](s, k, bz)
	if v == nil {
		return nil
	}
	if got := digestOf(v); got != want {
		s.logger.Error("digest mismatch", "key", k, "expected", want, "got", got)
		return nil
	}
	return v
}

func (s *Store) MultiGet(
	ctx context.Context,
	txKeys []types.TransactionDigest,
	fxKeys []types.TransactionDigest,
) ([]*types.Transaction, []*types.TransactionEffects, error) {
	keys := make([]kvstore.Key, 0, len(txKeys)+len(fxKeys))
	for _, d := range txKeys {
		keys = append(keys, kvstore.TransactionKey(d))
	}
	for _, d := range fxKeys {
		keys = append(keys, kvstore.TransactionEffectsKey(d))
	}

	fetches := s.multiFetch(ctx, keys)

	txs := make([]*types.Transaction, len(txKeys))
	for i, d := range txKeys {
		k := keys[i]
		txs[i] = decodeChecked(s, k, s.body(k, fetches[i]), d,
			func(tx *types.Transaction) types.TransactionDigest { return tx.Digest() })
	}

	fxs := make([]*types.TransactionEffects, len(fxKeys))
	for i, d := range fxKeys {
		j := len(txKeys) + i
		k := keys[j]
		fxs[i] = decodeChecked(s, k, s.body(k, fetches[j]), d,
			func(fx *types.TransactionEffects) types.TransactionDigest { return fx.TransactionDigest })
	}

	return txs, fxs, nil
}

func (s *Store) MultiGetCheckpoints(
	ctx context.Context,
	summaries []types.CheckpointSequenceNumber,
	contents []types.CheckpointSequenceNumber,
	summariesByDigest []types.CheckpointDigest,
) ([]*types.CertifiedCheckpointSummary, []*types.CheckpointContents, []*types.CertifiedCheckpointSummary, error) {
	keys := make([]kvstore.Key, 0, len(summaries)+len(contents)+len(summariesByDigest))
	for _, seq := range summaries {
		keys = append(keys, kvstore.CheckpointSummaryKey(seq))
	}
	for _, seq := range contents {
		keys = append(keys, kvstore.CheckpointContentsKey(seq))
	}
	for _, d := range summariesByDigest {
		keys = append(keys, kvstore.CheckpointSummaryByDigestKey(d))
	}

	fetches := s.multiFetch(ctx, keys)

	sums := make([]*types.CertifiedCheckpointSummary, len(summaries))
	for i := range summaries {
		sums[i] = decode[types.CertifiedCheckpointSummary](s, keys[i], s.body(keys[i], fetches[i]))
	}

	offset := len(summaries)
	conts := make([]*types.CheckpointContents, len(contents))
	for i := range contents {
		j := offset + i
		conts[i] = decode[types.CheckpointContents](s, keys[j], s.body(keys[j], fetches[j]))
	}

	offset += len(contents)
	byDigest := make([]*types.CertifiedCheckpointSummary, len(summariesByDigest))
	for i, d := range summariesByDigest {
		j := offset + i
		byDigest[i] = decodeChecked(s, keys[j], s.body(keys[j], fetches[j]), d,
			func(sum *types.CertifiedCheckpointSummary) types.CheckpointDigest { return sum.Digest() })
	}

	return sums, conts, byDigest, nil
}

func (s *Store) GetTransactionPerpetualCheckpoint(
	ctx context.Context,
	digest types.TransactionDigest,
) (*types.CheckpointSequenceNumber, error) {
	k := kvstore.TransactionToCheckpointKey(digest)
	bz, err := s.fetch(ctx, k)
	if err != nil {
		return nil, err
	}
	return decode[types.CheckpointSequenceNumber](s, k, bz), nil
}

func (s *Store) GetObject(
	ctx context.Context,
	id types.ObjectID,
	version types.SequenceNumber,
) (*types.Object, error) {
	k := kvstore.NewObjectKey(id, version)
	bz, err := s.fetch(ctx, k)
	if err != nil {
		return nil, err
	}
	return decode[types.Object](s, k, bz), nil
}

func (s *Store) MultiGetTransactionsPerpetualCheckpoints(
	ctx context.Context,
	digests []types.TransactionDigest,
) ([]*types.CheckpointSequenceNumber, error) {
	keys := make([]kvstore.Key, len(digests))
	for i, d := range digests {
		keys[i] = kvstore.TransactionToCheckpointKey(d)
	}

	fetches := s.multiFetch(ctx, keys)
	out := make([]*types.CheckpointSequenceNumber, len(digests))
	for i, k := range keys {
		out[i] = decode[types.CheckpointSequenceNumber](s, k, s.body(k, fetches[i]))
	}
	return out, nil
}

func (s *Store) MultiGetEventsByTxDigests(
	ctx context.Context,
	digests []types.TransactionDigest,
) ([]*types.TransactionEvents, error) {
	keys := make([]kvstore.Key, len(digests))
	for i, d := range digests {
		keys[i] = kvstore.EventsByTransactionDigestKey(d)
	}

	fetches := s.multiFetch(ctx, keys)
	out := make([]*types.TransactionEvents, len(digests))
	for i, k := range keys {
		out[i] = decode[types.TransactionEvents](s, k, s.body(k, fetches[i]))
	}
	return out, nil
}
