package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rpctypes "github.com/iotaledger/iota-trust/rpc/jsonrpc/types"
)

func echoServer(t *testing.T, handle func(req rpctypes.RPCRequest) rpctypes.RPCResponse) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpctypes.RPCRequest
		if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&req)) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		assert.Equal(t, "2.0", req.JSONRPC)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		_ = json.NewEncoder(w).Encode(handle(req))
	}))
}

func TestClientCall(t *testing.T) {
	srv := echoServer(t, func(req rpctypes.RPCRequest) rpctypes.RPCResponse {
		switch req.Method {
		case "iota_getLatestCheckpointSequenceNumber":
			return rpctypes.NewRPCSuccessResponse(req.ID, "1234")
		case "echo":
			var params []string
			if err := json.Unmarshal(req.Params, &params); err != nil {
				return rpctypes.RPCInvalidParamsError(req.ID, err)
			}
			return rpctypes.NewRPCSuccessResponse(req.ID, params)
		default:
			return rpctypes.RPCMethodNotFoundError(req.ID)
		}
	})
	defer srv.Close()

	c, err := New(srv.URL, 0)
	require.NoError(t, err)
	ctx := context.Background()

	var seq string
	require.NoError(t, c.Call(ctx, "iota_getLatestCheckpointSequenceNumber", nil, &seq))
	assert.Equal(t, "1234", seq)

	var echoed []string
	require.NoError(t, c.Call(ctx, "echo", []interface{}{"a", "b"}, &echoed))
	assert.Equal(t, []string{"a", "b"}, echoed)

	err = c.Call(ctx, "nope", nil, nil)
	require.Error(t, err)
	var rpcErr *rpctypes.RPCError
	require.ErrorAs(t, err, &rpcErr)
	assert.Equal(t, rpctypes.CodeMethodNotFound, rpcErr.Code)
}

func TestClientRejectsWrongID(t *testing.T) {
	srv := echoServer(t, func(req rpctypes.RPCRequest) rpctypes.RPCResponse {
		return rpctypes.NewRPCSuccessResponse(rpctypes.JSONRPCIntID(-1), "x")
	})
	defer srv.Close()

	c, err := New(srv.URL, 0)
	require.NoError(t, err)

	var out string
	err = c.Call(context.Background(), "anything", nil, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "wrong ID")
}

func TestDecodeResponseIDs(t *testing.T) {
	testCases := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"match", `{"jsonrpc":"2.0","id":7,"result":"x"}`, ""},
		{"fractional", `{"jsonrpc":"2.0","id":7.0,"result":"x"}`, ""},
		{"missing", `{"jsonrpc":"2.0","result":"x"}`, "no ID"},
		{"null", `{"jsonrpc":"2.0","id":null,"result":"x"}`, "no ID"},
		{"string", `{"jsonrpc":"2.0","id":"7","result":"x"}`, "not a number"},
		{"object", `{"jsonrpc":"2.0","id":{"n":7},"result":"x"}`, "not a number"},
		{"error wins", `{"jsonrpc":"2.0","id":null,"error":{"code":-32700,"message":"Parse error"}}`, "Parse error"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var out string
			err := decodeResponse([]byte(tc.body), 7, &out)
			if tc.wantErr == "" {
				require.NoError(t, err)
				assert.Equal(t, "x", out)
				return
			}
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestClientHTTPFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c, err := New(srv.URL, 0)
	require.NoError(t, err)
	assert.Error(t, c.Call(context.Background(), "anything", nil, nil))

	_, err = New("tcp://127.0.0.1:9000", 0)
	assert.Error(t, err)
}
