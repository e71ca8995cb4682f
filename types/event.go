package types

// Event is emitted by a Move call during execution.
type Event struct {
	PackageID         ObjectID    `json:"packageId"`
	TransactionModule string      `json:"transactionModule"`
	Sender            IotaAddress `json:"sender"`
	Type              string      `json:"type"`
	Contents          []byte      `json:"contents"`
}

// TransactionEvents are all events of one transaction, in emission order.
type TransactionEvents struct {
	Data []Event `json:"data"`
}

func (e *TransactionEvents) Digest() TransactionEventsDigest {
	return TransactionEventsDigest(DigestOf("TransactionEvents", e))
}

func (e *TransactionEvents) IsEmpty() bool {
	return e == nil || len(e.Data) == 0
}
