package client

import (
	"encoding/json"
	"errors"
	"fmt"

	rpctypes "github.com/iotaledger/iota-trust/rpc/jsonrpc/types"
)

// decodeResponse decodes the response to the call with expectedID into
// result. An error member is returned as a *rpctypes.RPCError.
func decodeResponse(bz []byte, expectedID rpctypes.JSONRPCIntID, result interface{}) error {
	var response rpctypes.RPCResponse
	if err := json.Unmarshal(bz, &response); err != nil {
		return fmt.Errorf("error unmarshaling: %w", err)
	}
	if response.Error != nil {
		return response.Error
	}

	switch {
	case response.ID == nil:
		return errors.New("wrong ID: no ID")
	case *response.ID != expectedID:
		return fmt.Errorf("wrong ID: response ID (%v) does not match request ID (%v)", *response.ID, expectedID)
	}

	if result == nil {
		return nil
	}
	if err := json.Unmarshal(response.Result, result); err != nil {
		return fmt.Errorf("error unmarshaling result: %w", err)
	}
	return nil
}
