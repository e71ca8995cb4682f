package authoritygrpc_test

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	dbm "github.com/tendermint/tm-db"

	"github.com/iotaledger/iota-trust/authority"
	authoritygrpc "github.com/iotaledger/iota-trust/authority/grpc"
	"github.com/iotaledger/iota-trust/authority/mocks"
	"github.com/iotaledger/iota-trust/internal/committee"
	"github.com/iotaledger/iota-trust/libs/log"
	"github.com/iotaledger/iota-trust/types"
)

func startServer(t *testing.T, api authority.AuthorityAPI, timeout time.Duration) *authoritygrpc.Client {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	srv := authoritygrpc.NewServer(api)
	go func() {
		_ = srv.Serve(lis)
	}()
	t.Cleanup(srv.Stop)

	client, err := authoritygrpc.Dial("bufnet", timeout,
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, client.Close())
	})
	return client
}

func TestTransactionInfoRoundTrip(t *testing.T) {
	c, keys := types.MakeCommittee(0, 4)
	tx := types.MakeCheckpointTransaction(0, 1)
	cert, err := types.CertifyTransaction(tx.Transaction, c, keys)
	require.NoError(t, err)
	effects, err := types.SignEffects(tx.Effects, 0, keys[0])
	require.NoError(t, err)

	api := mocks.NewAuthorityAPI(t)
	api.On("HandleTransactionInfoRequest", mock.Anything, mock.Anything).Return(&authority.TransactionInfoResponse{
		Transaction: tx.Transaction,
		Status: authority.TransactionStatus{Executed: &authority.ExecutedStatus{
			Certificate: &cert.AuthSig,
			Effects:     effects,
			Events:      *tx.Events,
		}},
	}, nil)

	client := startServer(t, api, time.Second)

	resp, err := client.HandleTransactionInfoRequest(context.Background(),
		authority.TransactionInfoRequest{TransactionDigest: tx.Transaction.Digest()})
	require.NoError(t, err)
	require.Equal(t, tx.Transaction.Digest(), resp.Transaction.Digest())
	require.Nil(t, resp.Status.Signed)
	require.NotNil(t, resp.Status.Executed)
	require.Equal(t, effects.Digest(), resp.Status.Executed.Effects.Digest())
	require.Equal(t, tx.Events.Digest(), resp.Status.Executed.Events.Digest())

	// The decoded response still carries a valid quorum certificate.
	decoded := types.CertifiedTransaction{Data: resp.Transaction, AuthSig: *resp.Status.Executed.Certificate}
	require.NoError(t, decoded.VerifyCommitteeSigsOnly(c))
}

func TestSafeClientOverGRPC(t *testing.T) {
	c, keys := types.MakeCommittee(0, 4)
	store, err := committee.NewStoreWithGenesis(dbm.NewMemDB(), c)
	require.NoError(t, err)

	tx := types.MakeCheckpointTransaction(0, 2)
	cert, err := types.CertifyTransaction(tx.Transaction, c, keys)
	require.NoError(t, err)
	effects, err := types.SignEffects(tx.Effects, 0, keys[0])
	require.NoError(t, err)

	forged := append([]types.Object(nil), tx.OutputObjects...)
	forged = append(forged, types.RandomObject(tx.Effects.LamportVersion))

	api := mocks.NewAuthorityAPI(t)
	api.On("HandleCertificateV1", mock.Anything, mock.Anything).Return(&authority.HandleCertificateResponseV1{
		SignedEffects: effects,
		Events:        tx.Events,
		OutputObjects: forged,
	}, nil)

	safe := authority.NewSafeClient(startServer(t, api, time.Second), store, types.NameOf(keys[0]),
		authority.NopMetrics(), log.NewNopLogger())

	_, err = safe.HandleCertificateV1(context.Background(), authority.HandleCertificateRequestV1{
		Certificate:          cert,
		IncludeEvents:        true,
		IncludeOutputObjects: true,
	})
	var suspicion types.ErrByzantineAuthoritySuspicion
	require.True(t, errors.As(err, &suspicion), "got %v", err)
}

func TestErrorMapping(t *testing.T) {
	api := mocks.NewAuthorityAPI(t)
	digest := types.RandomTransactionDigest()
	api.On("HandleTransactionInfoRequest", mock.Anything, authority.TransactionInfoRequest{TransactionDigest: digest}).
		Return(nil, types.ErrTransactionNotFound{Digest: digest})
	api.On("HandleSystemStateObject", mock.Anything, mock.Anything).
		Return(nil, types.ErrValidatorHaltedAtEpochEnd)

	client := startServer(t, api, time.Second)
	ctx := context.Background()

	_, err := client.HandleTransactionInfoRequest(ctx, authority.TransactionInfoRequest{TransactionDigest: digest})
	require.Equal(t, codes.NotFound, status.Code(err))

	_, err = client.HandleSystemStateObject(ctx, authority.SystemStateRequest{})
	require.ErrorIs(t, err, types.ErrValidatorHaltedAtEpochEnd)
	require.True(t, types.IndividualErrorIndicatesEpochChange(err))
}

func TestCallTimeout(t *testing.T) {
	api := mocks.NewAuthorityAPI(t)
	api.On("HandleSystemStateObject", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			<-args.Get(0).(context.Context).Done()
		}).
		Return(nil, context.DeadlineExceeded)

	client := startServer(t, api, 50*time.Millisecond)

	start := time.Now()
	_, err := client.HandleSystemStateObject(context.Background(), authority.SystemStateRequest{})
	require.Equal(t, codes.DeadlineExceeded, status.Code(err))
	require.Less(t, time.Since(start), 5*time.Second)
}
