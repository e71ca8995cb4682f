package authority

import (
	"context"

	"github.com/iotaledger/iota-trust/types"
)

//go:generate mockery --case underscore --name AuthorityAPI

// AuthorityAPI is the raw RPC surface of a single validator. Nothing it
// returns is trusted; SafeClient checks every response.
type AuthorityAPI interface {
	// HandleTransaction submits a transaction for signing. clientAddr is the
	// address of the original submitter, or "" if unknown.
	HandleTransaction(ctx context.Context, tx types.Transaction, clientAddr string) (*HandleTransactionResponse, error)

	// HandleCertificateV1 executes a certificate and returns its effects.
	HandleCertificateV1(ctx context.Context, req HandleCertificateRequestV1) (*HandleCertificateResponseV1, error)

	// HandleObjectInfoRequest returns an object.
	HandleObjectInfoRequest(ctx context.Context, req ObjectInfoRequest) (*ObjectInfoResponse, error)

	// HandleTransactionInfoRequest returns a transaction and its status.
	HandleTransactionInfoRequest(ctx context.Context, req TransactionInfoRequest) (*TransactionInfoResponse, error)

	// HandleSystemStateObject returns the current system state.
	HandleSystemStateObject(ctx context.Context, req SystemStateRequest) (*types.SystemState, error)
}

// CommitteeStore resolves the committee of an epoch. It returns nil when the
// epoch is unknown.
type CommitteeStore interface {
	GetCommittee(epoch types.EpochID) (*types.Committee, error)
}

// ExecutedStatus is the status of a transaction that has been executed.
type ExecutedStatus struct {
	// Certificate is the quorum signature of the certificate, if the
	// validator still has it.
	Certificate *types.AuthorityQuorumSignInfo `json:"certificate,omitempty"`
	Effects     types.SignedTransactionEffects `json:"effects"`
	Events      types.TransactionEvents        `json:"events"`
}

// TransactionStatus is either Signed or Executed; exactly one is set.
type TransactionStatus struct {
	Signed   *types.AuthoritySignInfo `json:"signed,omitempty"`
	Executed *ExecutedStatus          `json:"executed,omitempty"`
}

type HandleTransactionResponse struct {
	Status TransactionStatus `json:"status"`
}

type HandleCertificateRequestV1 struct {
	Certificate          types.CertifiedTransaction `json:"certificate"`
	IncludeEvents        bool                       `json:"includeEvents"`
	IncludeInputObjects  bool                       `json:"includeInputObjects"`
	IncludeOutputObjects bool                       `json:"includeOutputObjects"`
	IncludeAuxiliaryData bool                       `json:"includeAuxiliaryData"`
}

// HandleCertificateResponseV1 carries the signed effects of a certificate.
// A nil Events, InputObjects or OutputObjects means the validator did not
// return them.
type HandleCertificateResponseV1 struct {
	SignedEffects types.SignedTransactionEffects `json:"signedEffects"`
	Events        *types.TransactionEvents       `json:"events,omitempty"`
	InputObjects  []types.Object                 `json:"inputObjects,omitempty"`
	OutputObjects []types.Object                 `json:"outputObjects,omitempty"`
	AuxiliaryData []byte                         `json:"auxiliaryData,omitempty"`
}

type ObjectInfoRequest struct {
	ObjectID types.ObjectID `json:"objectId"`
	// Version selects a past version; nil selects the latest.
	Version *types.SequenceNumber `json:"version,omitempty"`
}

type ObjectInfoResponse struct {
	Object           types.Object             `json:"object"`
	Layout           []byte                   `json:"layout,omitempty"`
	LockForDebugging *types.SignedTransaction `json:"lockForDebugging,omitempty"`
}

// VerifiedObjectInfoResponse is an ObjectInfoResponse that passed SafeClient
// checks.
type VerifiedObjectInfoResponse struct {
	Object types.Object `json:"object"`
}

type TransactionInfoRequest struct {
	TransactionDigest types.TransactionDigest `json:"transactionDigest"`
}

type TransactionInfoResponse struct {
	Transaction types.Transaction `json:"transaction"`
	Status      TransactionStatus `json:"status"`
}

type SystemStateRequest struct{}

// PlainTransactionInfoResponse is a validated transaction status. It is one
// of *SignedTransactionInfo, *ExecutedWithCertInfo or
// *ExecutedWithoutCertInfo.
type PlainTransactionInfoResponse interface {
	TransactionDigest() types.TransactionDigest
	isPlainTransactionInfoResponse()
}

// SignedTransactionInfo is returned when the validator signed but has not
// executed the transaction.
type SignedTransactionInfo struct {
	Transaction types.SignedTransaction
}

// ExecutedWithCertInfo is returned when the validator executed the
// transaction and still holds its certificate.
type ExecutedWithCertInfo struct {
	Certificate types.CertifiedTransaction
	Effects     types.SignedTransactionEffects
	Events      types.TransactionEvents
}

// ExecutedWithoutCertInfo is returned when the validator executed the
// transaction but no longer holds its certificate.
type ExecutedWithoutCertInfo struct {
	Transaction types.Transaction
	Effects     types.SignedTransactionEffects
	Events      types.TransactionEvents
}

func (r *SignedTransactionInfo) TransactionDigest() types.TransactionDigest {
	return r.Transaction.Digest()
}

func (r *ExecutedWithCertInfo) TransactionDigest() types.TransactionDigest {
	return r.Certificate.Digest()
}

func (r *ExecutedWithoutCertInfo) TransactionDigest() types.TransactionDigest {
	return r.Transaction.Digest()
}

func (*SignedTransactionInfo) isPlainTransactionInfoResponse()   {}
func (*ExecutedWithCertInfo) isPlainTransactionInfoResponse()    {}
func (*ExecutedWithoutCertInfo) isPlainTransactionInfoResponse() {}
