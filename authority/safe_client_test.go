package authority_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/discard"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	dbm "github.com/tendermint/tm-db"

	"github.com/iotaledger/iota-trust/authority"
	"github.com/iotaledger/iota-trust/authority/mocks"
	"github.com/iotaledger/iota-trust/crypto/ed25519"
	"github.com/iotaledger/iota-trust/internal/committee"
	"github.com/iotaledger/iota-trust/libs/log"
	"github.com/iotaledger/iota-trust/types"
)

// countingCounter is a metrics.Counter that keeps one total per label set.
type countingCounter struct {
	mtx    *sync.Mutex
	counts map[string]float64
	lvs    []string
}

func newCountingCounter() *countingCounter {
	return &countingCounter{mtx: &sync.Mutex{}, counts: map[string]float64{}}
}

func (c *countingCounter) With(lvs ...string) metrics.Counter {
	return &countingCounter{
		mtx:    c.mtx,
		counts: c.counts,
		lvs:    append(append([]string{}, c.lvs...), lvs...),
	}
}

func (c *countingCounter) Add(delta float64) {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	c.counts[strings.Join(c.lvs, ",")] += delta
}

func (c *countingCounter) value(lvs ...string) float64 {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	return c.counts[strings.Join(lvs, ",")]
}

type fixture struct {
	committee *types.Committee
	keys      []ed25519.PrivKey
	validator types.AuthorityName

	raw      *mocks.AuthorityAPI
	client   *authority.SafeClient
	requests *countingCounter
	oks      *countingCounter
	logs     *bytes.Buffer

	tx      types.CheckpointTransaction
	cert    types.CertifiedTransaction
	effects types.SignedTransactionEffects
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	c, keys := types.MakeCommittee(0, 4)
	store, err := committee.NewStoreWithGenesis(dbm.NewMemDB(), c)
	require.NoError(t, err)

	f := &fixture{
		committee: c,
		keys:      keys,
		validator: types.NameOf(keys[0]),
		raw:       mocks.NewAuthorityAPI(t),
		requests:  newCountingCounter(),
		oks:       newCountingCounter(),
		logs:      &bytes.Buffer{},
	}

	logger, err := log.NewLogger(f.logs, log.LogFormatJSON, log.LogLevelDebug)
	require.NoError(t, err)

	m := &authority.Metrics{
		TotalRequests:    f.requests,
		TotalOkResponses: f.oks,
		Latency:          discard.NewHistogram(),
	}
	f.client = authority.NewSafeClient(f.raw, store, f.validator, m, logger)

	f.tx = types.MakeCheckpointTransaction(0, 2)
	f.cert, err = types.CertifyTransaction(f.tx.Transaction, c, keys)
	require.NoError(t, err)
	f.effects = f.sign(f.tx.Effects, 0, keys[0])
	return f
}

func (f *fixture) sign(e types.TransactionEffects, epoch types.EpochID, key ed25519.PrivKey) types.SignedTransactionEffects {
	signed, err := types.SignEffects(e, epoch, key)
	if err != nil {
		panic(err)
	}
	return signed
}

func (f *fixture) fullResponse() *authority.HandleCertificateResponseV1 {
	events := *f.tx.Events
	return &authority.HandleCertificateResponseV1{
		SignedEffects: f.effects,
		Events:        &events,
		InputObjects:  append([]types.Object(nil), f.tx.InputObjects...),
		OutputObjects: append([]types.Object(nil), f.tx.OutputObjects...),
	}
}

func (f *fixture) certRequest() authority.HandleCertificateRequestV1 {
	return authority.HandleCertificateRequestV1{
		Certificate:          f.cert,
		IncludeEvents:        true,
		IncludeInputObjects:  true,
		IncludeOutputObjects: true,
	}
}

func (f *fixture) addr() string {
	return f.validator.ShortString()
}

func requireSuspicion(t *testing.T, err error) {
	t.Helper()
	var suspicion types.ErrByzantineAuthoritySuspicion
	require.True(t, errors.As(err, &suspicion), "expected byzantine suspicion, got %v", err)
}

func TestHandleCertificateV1Accepts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.raw.On("HandleCertificateV1", mock.Anything, f.certRequest()).Return(f.fullResponse(), nil)

	resp, err := f.client.HandleCertificateV1(ctx, f.certRequest())
	require.NoError(t, err)
	require.Equal(t, f.tx.Effects.Digest(), resp.SignedEffects.Digest())

	resp, err = f.client.HandleCertificateV1Expecting(ctx, f.certRequest(), f.tx.Effects.Digest())
	require.NoError(t, err)
	require.NotNil(t, resp)
}

func TestHandleCertificateV1RejectsTampering(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(f *fixture, resp *authority.HandleCertificateResponseV1)
	}{
		{
			"signed by another validator",
			func(f *fixture, resp *authority.HandleCertificateResponseV1) {
				resp.SignedEffects = f.sign(f.tx.Effects, 0, f.keys[1])
			},
		},
		{
			"effects of another transaction",
			func(f *fixture, resp *authority.HandleCertificateResponseV1) {
				e := f.tx.Effects
				e.TransactionDigest = types.RandomTransactionDigest()
				resp.SignedEffects = f.sign(e, 0, f.keys[0])
			},
		},
		{
			"events do not match digest",
			func(f *fixture, resp *authority.HandleCertificateResponseV1) {
				resp.Events.Data = append(append([]types.Event(nil), resp.Events.Data...), types.RandomEvent())
			},
		},
		{
			"events without events digest",
			func(f *fixture, resp *authority.HandleCertificateResponseV1) {
				e := f.tx.Effects
				e.EventsDigest = nil
				resp.SignedEffects = f.sign(e, 0, f.keys[0])
			},
		},
		{
			"injected output object",
			func(f *fixture, resp *authority.HandleCertificateResponseV1) {
				resp.OutputObjects = append(resp.OutputObjects, types.RandomObject(f.tx.Effects.LamportVersion))
			},
		},
		{
			"output object with other contents",
			func(f *fixture, resp *authority.HandleCertificateResponseV1) {
				resp.OutputObjects[0].Data.Contents = []byte("forged")
			},
		},
		{
			"input object at wrong version",
			func(f *fixture, resp *authority.HandleCertificateResponseV1) {
				resp.InputObjects[0].Data.Version++
			},
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			resp := f.fullResponse()
			tc.mutate(f, resp)
			f.raw.On("HandleCertificateV1", mock.Anything, mock.Anything).Return(resp, nil)

			_, err := f.client.HandleCertificateV1(context.Background(), f.certRequest())
			requireSuspicion(t, err)
			require.Contains(t, f.logs.String(), `"level":"error"`)
		})
	}
}

func TestHandleCertificateV1ExpectedEffectsDigest(t *testing.T) {
	f := newFixture(t)
	f.raw.On("HandleCertificateV1", mock.Anything, mock.Anything).Return(f.fullResponse(), nil)

	_, err := f.client.HandleCertificateV1Expecting(context.Background(), f.certRequest(),
		types.TransactionEffectsDigest(types.RandomDigest()))
	requireSuspicion(t, err)
}

func TestHandleCertificateV1EventsMatching(t *testing.T) {
	t.Run("no events returned", func(t *testing.T) {
		f := newFixture(t)
		resp := f.fullResponse()
		resp.Events = nil
		f.raw.On("HandleCertificateV1", mock.Anything, mock.Anything).Return(resp, nil)

		_, err := f.client.HandleCertificateV1(context.Background(), f.certRequest())
		require.NoError(t, err)
	})

	t.Run("empty events without digest", func(t *testing.T) {
		f := newFixture(t)
		e := f.tx.Effects
		e.EventsDigest = nil
		resp := f.fullResponse()
		resp.SignedEffects = f.sign(e, 0, f.keys[0])
		resp.Events = &types.TransactionEvents{}
		f.raw.On("HandleCertificateV1", mock.Anything, mock.Anything).Return(resp, nil)

		_, err := f.client.HandleCertificateV1(context.Background(), f.certRequest())
		require.NoError(t, err)
	})

	t.Run("objects not returned", func(t *testing.T) {
		f := newFixture(t)
		resp := f.fullResponse()
		resp.InputObjects = nil
		resp.OutputObjects = nil
		f.raw.On("HandleCertificateV1", mock.Anything, mock.Anything).Return(resp, nil)

		_, err := f.client.HandleCertificateV1(context.Background(), f.certRequest())
		require.NoError(t, err)
	})
}

func TestEpochChangeErrorsAreLoggedAtDebug(t *testing.T) {
	f := newFixture(t)
	resp := f.fullResponse()
	// Signed in an epoch the local committee store does not know yet.
	resp.SignedEffects = f.sign(f.tx.Effects, 1, f.keys[0])
	f.raw.On("HandleCertificateV1", mock.Anything, mock.Anything).Return(resp, nil)

	_, err := f.client.HandleCertificateV1(context.Background(), f.certRequest())
	var missing types.ErrMissingCommitteeAtEpoch
	require.True(t, errors.As(err, &missing))
	require.EqualValues(t, 1, missing.Epoch)

	require.Contains(t, f.logs.String(), `"level":"debug"`)
	require.NotContains(t, f.logs.String(), `"level":"error"`)
}

func TestHandleTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("signed", func(t *testing.T) {
		f := newFixture(t)
		signed, err := types.SignTransaction(f.tx.Transaction, 0, f.keys[0])
		require.NoError(t, err)
		f.raw.On("HandleTransaction", mock.Anything, f.tx.Transaction, "").Return(&authority.HandleTransactionResponse{
			Status: authority.TransactionStatus{Signed: &signed.AuthSig},
		}, nil)

		info, err := f.client.HandleTransaction(ctx, f.tx.Transaction, "")
		require.NoError(t, err)
		require.IsType(t, &authority.SignedTransactionInfo{}, info)
		require.Equal(t, f.tx.Transaction.Digest(), info.TransactionDigest())
	})

	t.Run("executed with certificate", func(t *testing.T) {
		f := newFixture(t)
		f.raw.On("HandleTransaction", mock.Anything, mock.Anything, mock.Anything).Return(&authority.HandleTransactionResponse{
			Status: authority.TransactionStatus{Executed: &authority.ExecutedStatus{
				Certificate: &f.cert.AuthSig,
				Effects:     f.effects,
				Events:      *f.tx.Events,
			}},
		}, nil)

		info, err := f.client.HandleTransaction(ctx, f.tx.Transaction, "127.0.0.1:9000")
		require.NoError(t, err)
		withCert, ok := info.(*authority.ExecutedWithCertInfo)
		require.True(t, ok)
		require.Equal(t, f.tx.Effects.Digest(), withCert.Effects.Digest())
	})

	t.Run("executed without certificate", func(t *testing.T) {
		f := newFixture(t)
		f.raw.On("HandleTransaction", mock.Anything, mock.Anything, mock.Anything).Return(&authority.HandleTransactionResponse{
			Status: authority.TransactionStatus{Executed: &authority.ExecutedStatus{
				Effects: f.effects,
				Events:  *f.tx.Events,
			}},
		}, nil)

		info, err := f.client.HandleTransaction(ctx, f.tx.Transaction, "")
		require.NoError(t, err)
		require.IsType(t, &authority.ExecutedWithoutCertInfo{}, info)
	})

	t.Run("executed with a certificate lacking quorum", func(t *testing.T) {
		f := newFixture(t)
		weak, err := types.CertifyTransaction(f.tx.Transaction, f.committee, f.keys[:2])
		require.NoError(t, err)
		f.raw.On("HandleTransaction", mock.Anything, mock.Anything, mock.Anything).Return(&authority.HandleTransactionResponse{
			Status: authority.TransactionStatus{Executed: &authority.ExecutedStatus{
				Certificate: &weak.AuthSig,
				Effects:     f.effects,
			}},
		}, nil)

		_, err = f.client.HandleTransaction(ctx, f.tx.Transaction, "")
		var certErr types.ErrFailedToVerifyTxCertWithExecutedEffects
		require.True(t, errors.As(err, &certErr))
		require.Equal(t, f.validator, certErr.ValidatorName)
	})

	t.Run("ambiguous status", func(t *testing.T) {
		f := newFixture(t)
		f.raw.On("HandleTransaction", mock.Anything, mock.Anything, mock.Anything).Return(&authority.HandleTransactionResponse{}, nil)

		_, err := f.client.HandleTransaction(ctx, f.tx.Transaction, "")
		requireSuspicion(t, err)
	})

	t.Run("transport error", func(t *testing.T) {
		f := newFixture(t)
		boom := errors.New("connection refused")
		f.raw.On("HandleTransaction", mock.Anything, mock.Anything, mock.Anything).Return(nil, boom)

		_, err := f.client.HandleTransaction(ctx, f.tx.Transaction, "")
		require.ErrorIs(t, err, boom)
	})
}

func TestHandleTransactionInfoRequest(t *testing.T) {
	ctx := context.Background()
	method := "handle_transaction_info_request"

	t.Run("ok", func(t *testing.T) {
		f := newFixture(t)
		req := authority.TransactionInfoRequest{TransactionDigest: f.tx.Transaction.Digest()}
		f.raw.On("HandleTransactionInfoRequest", mock.Anything, req).Return(&authority.TransactionInfoResponse{
			Transaction: f.tx.Transaction,
			Status: authority.TransactionStatus{Executed: &authority.ExecutedStatus{
				Certificate: &f.cert.AuthSig,
				Effects:     f.effects,
				Events:      *f.tx.Events,
			}},
		}, nil)

		_, err := f.client.HandleTransactionInfoRequest(ctx, req)
		require.NoError(t, err)
		require.EqualValues(t, 1, f.requests.value("address", f.addr(), "method", method))
		require.EqualValues(t, 1, f.oks.value("address", f.addr(), "method", method))
	})

	t.Run("wrong transaction", func(t *testing.T) {
		f := newFixture(t)
		req := authority.TransactionInfoRequest{TransactionDigest: types.RandomTransactionDigest()}
		f.raw.On("HandleTransactionInfoRequest", mock.Anything, req).Return(&authority.TransactionInfoResponse{
			Transaction: f.tx.Transaction,
			Status: authority.TransactionStatus{Executed: &authority.ExecutedStatus{
				Effects: f.effects,
			}},
		}, nil)

		_, err := f.client.HandleTransactionInfoRequest(ctx, req)
		requireSuspicion(t, err)
		require.EqualValues(t, 1, f.requests.value("address", f.addr(), "method", method))
		require.Zero(t, f.oks.value("address", f.addr(), "method", method))
	})
}

func TestHandleObjectInfoRequest(t *testing.T) {
	ctx := context.Background()
	method := "handle_object_info_request"

	f := newFixture(t)
	obj := f.tx.OutputObjects[0]
	other := types.RandomObject(1)

	f.raw.On("HandleObjectInfoRequest", mock.Anything, authority.ObjectInfoRequest{ObjectID: obj.ID()}).
		Return(&authority.ObjectInfoResponse{Object: obj}, nil)
	f.raw.On("HandleObjectInfoRequest", mock.Anything, authority.ObjectInfoRequest{ObjectID: other.ID()}).
		Return(&authority.ObjectInfoResponse{Object: obj}, nil)

	resp, err := f.client.HandleObjectInfoRequest(ctx, authority.ObjectInfoRequest{ObjectID: obj.ID()})
	require.NoError(t, err)
	require.Equal(t, obj.ID(), resp.Object.ID())

	_, err = f.client.HandleObjectInfoRequest(ctx, authority.ObjectInfoRequest{ObjectID: other.ID()})
	requireSuspicion(t, err)

	require.EqualValues(t, 2, f.requests.value("address", f.addr(), "method", method))
	require.EqualValues(t, 1, f.oks.value("address", f.addr(), "method", method))
}

func TestHandleSystemStateObject(t *testing.T) {
	f := newFixture(t)
	state := &types.SystemState{Epoch: 3, ProtocolVersion: 1}
	f.raw.On("HandleSystemStateObject", mock.Anything, authority.SystemStateRequest{}).Return(state, nil)

	got, err := f.client.HandleSystemStateObject(context.Background())
	require.NoError(t, err)
	require.Equal(t, state, got)
}
