package authoritygrpc

import (
	"context"
	"time"

	grpc_middleware "github.com/grpc-ecosystem/go-grpc-middleware"
	grpc_prometheus "github.com/grpc-ecosystem/go-grpc-prometheus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/iotaledger/iota-trust/authority"
	"github.com/iotaledger/iota-trust/types"
)

// Client is an authority.AuthorityAPI backed by a gRPC connection to one
// validator.
type Client struct {
	conn    grpc.ClientConnInterface
	closer  func() error
	timeout time.Duration
}

var _ authority.AuthorityAPI = (*Client)(nil)

// NewClient returns a Client over an existing connection. A positive timeout
// bounds every call.
func NewClient(conn grpc.ClientConnInterface, timeout time.Duration) *Client {
	return &Client{conn: conn, timeout: timeout, closer: func() error { return nil }}
}

// Dial connects to the validator at addr. Calls are instrumented with
// grpc_prometheus and bounded by timeout when it is positive.
func Dial(addr string, timeout time.Duration, opts ...grpc.DialOption) (*Client, error) {
	dialOpts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(grpc_middleware.ChainUnaryClient(
			grpc_prometheus.UnaryClientInterceptor,
			timeoutInterceptor(timeout),
		)),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(CodecName)),
	}
	conn, err := grpc.Dial(addr, append(dialOpts, opts...)...)
	if err != nil {
		return nil, err
	}
	return &Client{conn: conn, closer: conn.Close}, nil
}

// NewServer returns a gRPC server serving api, instrumented with
// grpc_prometheus.
func NewServer(api authority.AuthorityAPI, opts ...grpc.ServerOption) *grpc.Server {
	opts = append(opts, grpc.ChainUnaryInterceptor(grpc_prometheus.UnaryServerInterceptor))
	s := grpc.NewServer(opts...)
	RegisterAuthorityServer(s, api)
	grpc_prometheus.Register(s)
	return s
}

func timeoutInterceptor(timeout time.Duration) grpc.UnaryClientInterceptor {
	return func(
		ctx context.Context,
		method string,
		req, reply interface{},
		cc *grpc.ClientConn,
		invoker grpc.UnaryInvoker,
		opts ...grpc.CallOption,
	) error {
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		return invoker(ctx, method, req, reply, cc, opts...)
	}
}

// Close closes the connection if the client owns it.
func (c *Client) Close() error {
	return c.closer()
}

func (c *Client) invoke(ctx context.Context, method string, req, resp interface{}) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	err := c.conn.Invoke(ctx, method, req, resp, grpc.CallContentSubtype(CodecName))
	return fromStatus(err)
}

func (c *Client) HandleTransaction(
	ctx context.Context,
	tx types.Transaction,
	clientAddr string,
) (*authority.HandleTransactionResponse, error) {
	resp := new(authority.HandleTransactionResponse)
	req := &transactionRequest{Transaction: tx, ClientAddr: clientAddr}
	if err := c.invoke(ctx, methodTransaction, req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) HandleCertificateV1(
	ctx context.Context,
	req authority.HandleCertificateRequestV1,
) (*authority.HandleCertificateResponseV1, error) {
	resp := new(authority.HandleCertificateResponseV1)
	if err := c.invoke(ctx, methodCertificateV1, &req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) HandleObjectInfoRequest(
	ctx context.Context,
	req authority.ObjectInfoRequest,
) (*authority.ObjectInfoResponse, error) {
	resp := new(authority.ObjectInfoResponse)
	if err := c.invoke(ctx, methodObjectInfo, &req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) HandleTransactionInfoRequest(
	ctx context.Context,
	req authority.TransactionInfoRequest,
) (*authority.TransactionInfoResponse, error) {
	resp := new(authority.TransactionInfoResponse)
	if err := c.invoke(ctx, methodTransactionInfo, &req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) HandleSystemStateObject(
	ctx context.Context,
	req authority.SystemStateRequest,
) (*types.SystemState, error) {
	resp := new(types.SystemState)
	if err := c.invoke(ctx, methodSystemStateObject, &req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}
