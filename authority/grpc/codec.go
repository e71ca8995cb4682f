package authoritygrpc

import (
	"google.golang.org/grpc/encoding"

	"github.com/iotaledger/iota-trust/types"
)

// CodecName is the content subtype validators speak: deterministic CBOR of
// the authority message types.
const CodecName = "cbor"

func init() {
	encoding.RegisterCodec(codec{})
}

type codec struct{}

func (codec) Marshal(v interface{}) ([]byte, error) {
	return types.Marshal(v)
}

func (codec) Unmarshal(data []byte, v interface{}) error {
	return types.Unmarshal(data, v)
}

func (codec) Name() string {
	return CodecName
}
