// Package types holds the JSON-RPC 2.0 envelopes exchanged with the JSON-RPC
// endpoint of a full node.
package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Version is the only protocol version spoken.
const Version = "2.0"

// Error codes answered by full nodes.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
	// CodeServerError is used for failures of the called method itself.
	CodeServerError = -32000
)

// JSONRPCIntID identifies a request. Requests are only ever sent with
// numeric ids, so string ids are rejected when decoding.
type JSONRPCIntID int64

func (id JSONRPCIntID) String() string { return strconv.FormatInt(int64(id), 10) }

// UnmarshalJSON accepts integral JSON numbers. null leaves id untouched.
func (id *JSONRPCIntID) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	// json.Number also takes quoted numerals
	var n json.Number
	if len(data) == 0 || data[0] == '"' || json.Unmarshal(data, &n) != nil {
		return fmt.Errorf("json-rpc id %s is not a number", data)
	}
	v, err := n.Int64()
	if err != nil {
		// the id SHOULD NOT contain a fractional part; truncate it
		f, ferr := n.Float64()
		if ferr != nil {
			return fmt.Errorf("json-rpc id %s: %w", data, err)
		}
		v = int64(f)
	}
	*id = JSONRPCIntID(v)
	return nil
}

// RPCRequest is a call with positional params.
type RPCRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      JSONRPCIntID    `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
}

// ParamsToRequest encodes params into a request. A nil params is sent as an
// empty array since nodes reject a missing params member.
func ParamsToRequest(id JSONRPCIntID, method string, params []interface{}) (RPCRequest, error) {
	if params == nil {
		params = []interface{}{}
	}
	payload, err := json.Marshal(params)
	if err != nil {
		return RPCRequest{}, err
	}
	return RPCRequest{JSONRPC: Version, ID: id, Method: method, Params: payload}, nil
}

func (req RPCRequest) String() string {
	return fmt.Sprintf("RPCRequest{%v %s/%s}", req.ID, req.Method, req.Params)
}

// RPCError is the error member of a failed call. It is returned as is by the
// client so callers can match on Code.
type RPCError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (err RPCError) Error() string {
	if len(err.Data) > 0 {
		return fmt.Sprintf("RPC error %d - %s: %s", err.Code, err.Message, err.Data)
	}
	return fmt.Sprintf("RPC error %d - %s", err.Code, err.Message)
}

// RPCResponse answers an RPCRequest. ID is nil when the node could not
// read the id of the request.
type RPCResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      *JSONRPCIntID   `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

func (resp RPCResponse) String() string {
	id := "null"
	if resp.ID != nil {
		id = resp.ID.String()
	}
	if resp.Error != nil {
		return fmt.Sprintf("RPCResponse{%s %v}", id, resp.Error)
	}
	return fmt.Sprintf("RPCResponse{%s %s}", id, resp.Result)
}

// NewRPCSuccessResponse encodes res as the result of call id.
func NewRPCSuccessResponse(id JSONRPCIntID, res interface{}) RPCResponse {
	result, err := json.Marshal(res)
	if err != nil {
		return NewRPCErrorResponse(id, CodeInternalError, "Internal error: error marshaling response: "+err.Error())
	}
	return RPCResponse{JSONRPC: Version, ID: &id, Result: result}
}

func NewRPCErrorResponse(id JSONRPCIntID, code int, msg string) RPCResponse {
	return RPCResponse{JSONRPC: Version, ID: &id, Error: &RPCError{Code: code, Message: msg}}
}

func RPCMethodNotFoundError(id JSONRPCIntID) RPCResponse {
	return NewRPCErrorResponse(id, CodeMethodNotFound, "Method not found")
}

func RPCInvalidParamsError(id JSONRPCIntID, err error) RPCResponse {
	return NewRPCErrorResponse(id, CodeInvalidParams, "Invalid params: "+err.Error())
}
