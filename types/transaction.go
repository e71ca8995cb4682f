package types

// TransactionData is the part of a transaction the sender signs.
type TransactionData struct {
	Sender     IotaAddress `json:"sender"`
	GasPayment []ObjectRef `json:"gasPayment"`
	GasBudget  uint64      `json:"gasBudget"`
	GasPrice   uint64      `json:"gasPrice"`
	Inputs     []ObjectRef `json:"inputs"`
	// Payload is the programmable transaction, opaque at this layer.
	Payload    []byte  `json:"payload"`
	Expiration EpochID `json:"expiration,omitempty"`
}

func (d *TransactionData) Digest() TransactionDigest {
	return TransactionDigest(DigestOf("TransactionData", d))
}

// Transaction is sender-signed transaction data.
type Transaction struct {
	Data         TransactionData `json:"data"`
	TxSignatures [][]byte        `json:"txSignatures"`
}

// Digest identifies the transaction. Sender signatures are not part of it.
func (t *Transaction) Digest() TransactionDigest {
	return t.Data.Digest()
}

// SignedTransaction is a transaction signed by one validator.
type SignedTransaction struct {
	Data    Transaction       `json:"data"`
	AuthSig AuthoritySignInfo `json:"authSig"`
}

func (t *SignedTransaction) Digest() TransactionDigest {
	return t.Data.Digest()
}

func (t *SignedTransaction) Epoch() EpochID {
	return t.AuthSig.Epoch
}

// CertifiedTransaction is a transaction signed by a quorum.
type CertifiedTransaction struct {
	Data    Transaction             `json:"data"`
	AuthSig AuthorityQuorumSignInfo `json:"authSig"`
}

func (t *CertifiedTransaction) Digest() TransactionDigest {
	return t.Data.Digest()
}

func (t *CertifiedTransaction) Epoch() EpochID {
	return t.AuthSig.Epoch
}

// VerifyCommitteeSigsOnly checks the quorum signature but not the sender
// signatures.
func (t *CertifiedTransaction) VerifyCommitteeSigsOnly(committee *Committee) error {
	return t.AuthSig.VerifySecure(IntentScopeSenderSignedTransaction, Digest(t.Digest()), committee)
}
