package authority

import (
	"context"
	"fmt"

	"github.com/go-kit/kit/metrics"

	"github.com/iotaledger/iota-trust/libs/log"
	"github.com/iotaledger/iota-trust/types"
)

// SafeClient wraps the raw client of one validator and checks every response
// against the request and the committee before handing it to the caller.
// Check failures are reported as ErrByzantineAuthoritySuspicion. SafeClient
// never retries; that is up to the caller, who usually asks another
// validator.
type SafeClient struct {
	client         AuthorityAPI
	committeeStore CommitteeStore
	address        types.AuthorityName
	metrics        *clientMetrics
	logger         log.Logger
}

// NewSafeClient returns a SafeClient for the validator named address.
// committeeStore is shared and only read.
func NewSafeClient(
	client AuthorityAPI,
	committeeStore CommitteeStore,
	address types.AuthorityName,
	m *Metrics,
	logger log.Logger,
) *SafeClient {
	if m == nil {
		m = NopMetrics()
	}
	return &SafeClient{
		client:         client,
		committeeStore: committeeStore,
		address:        address,
		metrics:        newClientMetrics(m, address.ShortString()),
		logger:         logger.With("module", "safe_client", "authority", address.ShortString()),
	}
}

// Address returns the name of the validator this client talks to.
func (c *SafeClient) Address() types.AuthorityName {
	return c.address
}

// AuthorityClient returns the underlying raw client.
func (c *SafeClient) AuthorityClient() AuthorityAPI {
	return c.client
}

// HandleTransaction submits tx and checks the returned status.
func (c *SafeClient) HandleTransaction(
	ctx context.Context,
	tx types.Transaction,
	clientAddr string,
) (PlainTransactionInfoResponse, error) {
	defer metrics.NewTimer(c.metrics.handleTransactionTimer).ObserveDuration()

	digest := tx.Digest()
	resp, err := c.client.HandleTransaction(ctx, tx, clientAddr)
	if err != nil {
		return nil, err
	}

	info, err := c.checkTransactionInfo(digest, tx, resp.Status)
	if err != nil {
		return nil, c.checkError(err, "Client error in handle_transaction")
	}
	return info, nil
}

// HandleCertificateV1 executes a certificate and checks the returned
// effects, events and objects.
func (c *SafeClient) HandleCertificateV1(
	ctx context.Context,
	req HandleCertificateRequestV1,
) (*HandleCertificateResponseV1, error) {
	return c.handleCertificateV1(ctx, req, nil)
}

// HandleCertificateV1Expecting is like HandleCertificateV1 but also requires
// the effects to have the given digest.
func (c *SafeClient) HandleCertificateV1Expecting(
	ctx context.Context,
	req HandleCertificateRequestV1,
	expected types.TransactionEffectsDigest,
) (*HandleCertificateResponseV1, error) {
	return c.handleCertificateV1(ctx, req, &expected)
}

func (c *SafeClient) handleCertificateV1(
	ctx context.Context,
	req HandleCertificateRequestV1,
	expected *types.TransactionEffectsDigest,
) (*HandleCertificateResponseV1, error) {
	defer metrics.NewTimer(c.metrics.handleCertificateTimer).ObserveDuration()

	digest := req.Certificate.Digest()
	resp, err := c.client.HandleCertificateV1(ctx, req)
	if err != nil {
		return nil, err
	}

	verified, err := c.verifyCertificateResponseV1(digest, resp, expected)
	if err != nil {
		return nil, c.checkError(err, "Client error in handle_certificate")
	}
	return verified, nil
}

// HandleObjectInfoRequest fetches an object and checks that it is the one
// requested.
func (c *SafeClient) HandleObjectInfoRequest(
	ctx context.Context,
	req ObjectInfoRequest,
) (*VerifiedObjectInfoResponse, error) {
	c.metrics.totalRequestsObjInfo.Add(1)
	defer metrics.NewTimer(c.metrics.handleObjInfoTimer).ObserveDuration()

	resp, err := c.client.HandleObjectInfoRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	verified, err := c.checkObjectResponse(req, resp)
	if err != nil {
		c.logger.Error("Client error in handle_object_info_request", "err", err)
		return nil, err
	}

	c.metrics.totalOkObjInfo.Add(1)
	return verified, nil
}

// HandleTransactionInfoRequest fetches a transaction and its status and
// checks both against the requested digest.
func (c *SafeClient) HandleTransactionInfoRequest(
	ctx context.Context,
	req TransactionInfoRequest,
) (PlainTransactionInfoResponse, error) {
	c.metrics.totalRequestsTxInfo.Add(1)
	defer metrics.NewTimer(c.metrics.handleTxInfoTimer).ObserveDuration()

	resp, err := c.client.HandleTransactionInfoRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	info, err := c.checkTransactionInfo(req.TransactionDigest, resp.Transaction, resp.Status)
	if err != nil {
		return nil, c.checkError(err, "Client error in handle_transaction_info_request")
	}

	c.metrics.totalOkTxInfo.Add(1)
	return info, nil
}

// HandleSystemStateObject returns the validator's system state as is. The
// system state is covered by checkpoint signatures, not by this client.
func (c *SafeClient) HandleSystemStateObject(ctx context.Context) (*types.SystemState, error) {
	return c.client.HandleSystemStateObject(ctx, SystemStateRequest{})
}

// checkError logs err at debug level when it looks like a benign epoch
// change race, and at error level otherwise. err is returned unchanged.
func (c *SafeClient) checkError(err error, msg string) error {
	if types.IndividualErrorIndicatesEpochChange(err) {
		c.logger.Debug(msg, "err", err)
	} else {
		c.logger.Error(msg, "err", err)
	}
	return err
}

func (c *SafeClient) suspicion(format string, args ...interface{}) error {
	return types.ErrByzantineAuthoritySuspicion{
		Authority: c.address,
		Reason:    fmt.Sprintf(format, args...),
	}
}

func (c *SafeClient) getCommittee(epoch types.EpochID) (*types.Committee, error) {
	committee, err := c.committeeStore.GetCommittee(epoch)
	if err != nil {
		return nil, err
	}
	if committee == nil {
		return nil, types.ErrMissingCommitteeAtEpoch{Epoch: epoch}
	}
	return committee, nil
}

func (c *SafeClient) checkSignedEffectsPlain(
	digest types.TransactionDigest,
	effects types.SignedTransactionEffects,
	expected *types.TransactionEffectsDigest,
) (types.SignedTransactionEffects, error) {
	if effects.AuthSig.Authority != c.address {
		return effects, c.suspicion("Unexpected validator address in the signed effects signature: %v",
			effects.AuthSig.Authority.ShortString())
	}
	if effects.Data.TransactionDigest != digest {
		return effects, c.suspicion("Unexpected tx digest in the signed effects")
	}
	if expected != nil && effects.Digest() != *expected {
		return effects, c.suspicion("Effects digest does not match with expected digest")
	}
	if _, err := c.getCommittee(effects.Epoch()); err != nil {
		return effects, err
	}
	return effects, nil
}

func (c *SafeClient) checkTransactionInfo(
	digest types.TransactionDigest,
	tx types.Transaction,
	status TransactionStatus,
) (PlainTransactionInfoResponse, error) {
	if tx.Digest() != digest {
		return nil, c.suspicion("Signed transaction digest does not match with expected digest")
	}

	switch {
	case status.Signed != nil && status.Executed == nil:
		if _, err := c.getCommittee(status.Signed.Epoch); err != nil {
			return nil, err
		}
		return &SignedTransactionInfo{
			Transaction: types.SignedTransaction{Data: tx, AuthSig: *status.Signed},
		}, nil

	case status.Executed != nil && status.Signed == nil:
		executed := status.Executed
		effects, err := c.checkSignedEffectsPlain(digest, executed.Effects, nil)
		if err != nil {
			return nil, err
		}

		if executed.Certificate == nil {
			return &ExecutedWithoutCertInfo{Transaction: tx, Effects: effects, Events: executed.Events}, nil
		}

		committee, err := c.getCommittee(executed.Certificate.Epoch)
		if err != nil {
			return nil, err
		}
		cert := types.CertifiedTransaction{Data: tx, AuthSig: *executed.Certificate}
		if err := cert.VerifyCommitteeSigsOnly(committee); err != nil {
			return nil, types.ErrFailedToVerifyTxCertWithExecutedEffects{ValidatorName: c.address, Err: err}
		}
		return &ExecutedWithCertInfo{Certificate: cert, Effects: effects, Events: executed.Events}, nil

	default:
		return nil, c.suspicion("Transaction status must be exactly one of signed or executed")
	}
}

func (c *SafeClient) verifyCertificateResponseV1(
	digest types.TransactionDigest,
	resp *HandleCertificateResponseV1,
	expected *types.TransactionEffectsDigest,
) (*HandleCertificateResponseV1, error) {
	effects, err := c.checkSignedEffectsPlain(digest, resp.SignedEffects, expected)
	if err != nil {
		return nil, err
	}

	eventsDigest := effects.Data.EventsDigest
	switch {
	case resp.Events == nil:
		// Events were not requested or not returned.
	case eventsDigest == nil:
		if !resp.Events.IsEmpty() {
			return nil, c.suspicion("Returned events but no event digest present in effects")
		}
	default:
		if resp.Events.Digest() != *eventsDigest {
			return nil, c.suspicion("Returned events don't match events digest in effects")
		}
	}

	if resp.InputObjects != nil {
		if err := c.checkObjects(resp.InputObjects, effects.Data.OldObjectMetadata(), "input"); err != nil {
			return nil, err
		}
	}
	if resp.OutputObjects != nil {
		if err := c.checkObjects(resp.OutputObjects, effects.Data.AllChangedObjects(), "output"); err != nil {
			return nil, err
		}
	}

	return resp, nil
}

// checkObjects requires the reference of every returned object to be in
// expected.
func (c *SafeClient) checkObjects(objects []types.Object, expected []types.ObjectRef, kind string) error {
	byID := make(map[types.ObjectID]types.ObjectRef, len(expected))
	for _, ref := range expected {
		byID[ref.ObjectID] = ref
	}
	for i := range objects {
		ref := objects[i].ComputeObjectReference()
		want, ok := byID[ref.ObjectID]
		if !ok || want != ref {
			return c.suspicion("Returned %s object %v is not in the effects", kind, ref)
		}
	}
	return nil
}

func (c *SafeClient) checkObjectResponse(req ObjectInfoRequest, resp *ObjectInfoResponse) (*VerifiedObjectInfoResponse, error) {
	if resp.Object.ID() != req.ObjectID {
		return nil, c.suspicion("Object id mismatch in the response")
	}
	return &VerifiedObjectInfoResponse{Object: resp.Object}, nil
}
