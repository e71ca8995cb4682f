package authoritygrpc

import (
	"context"
	"errors"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"

	"github.com/iotaledger/iota-trust/authority"
	"github.com/iotaledger/iota-trust/types"
)

const serviceName = "iota.Validator"

const (
	methodTransaction       = "/" + serviceName + "/Transaction"
	methodCertificateV1     = "/" + serviceName + "/HandleCertificateV1"
	methodObjectInfo        = "/" + serviceName + "/ObjectInfo"
	methodTransactionInfo   = "/" + serviceName + "/TransactionInfo"
	methodSystemStateObject = "/" + serviceName + "/GetSystemStateObject"
)

// transactionRequest carries HandleTransaction arguments on the wire.
type transactionRequest struct {
	Transaction types.Transaction `json:"transaction"`
	ClientAddr  string            `json:"clientAddr,omitempty"`
}

// toStatus maps errors the client side needs to tell apart onto gRPC status
// codes.
func toStatus(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, types.ErrValidatorHaltedAtEpochEnd):
		return status.Error(codes.FailedPrecondition, types.ErrValidatorHaltedAtEpochEnd.Error())
	case types.IsNotFound(err):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

func fromStatus(err error) error {
	if err == nil {
		return nil
	}
	s, ok := status.FromError(err)
	if ok && s.Code() == codes.FailedPrecondition && s.Message() == types.ErrValidatorHaltedAtEpochEnd.Error() {
		return types.ErrValidatorHaltedAtEpochEnd
	}
	return err
}

// RegisterAuthorityServer exposes api on s under the validator service name.
func RegisterAuthorityServer(s *grpc.Server, api authority.AuthorityAPI) {
	s.RegisterService(&serviceDesc, api)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*authority.AuthorityAPI)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Transaction", Handler: transactionHandler},
		{MethodName: "HandleCertificateV1", Handler: certificateV1Handler},
		{MethodName: "ObjectInfo", Handler: objectInfoHandler},
		{MethodName: "TransactionInfo", Handler: transactionInfoHandler},
		{MethodName: "GetSystemStateObject", Handler: systemStateObjectHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "iota/validator",
}

func transactionHandler(
	srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor,
) (interface{}, error) {
	in := new(transactionRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		r := req.(*transactionRequest)
		clientAddr := r.ClientAddr
		if clientAddr == "" {
			if p, ok := peer.FromContext(ctx); ok && p.Addr != nil {
				clientAddr = p.Addr.String()
			}
		}
		resp, err := srv.(authority.AuthorityAPI).HandleTransaction(ctx, r.Transaction, clientAddr)
		return resp, toStatus(err)
	}
	if interceptor == nil {
		return handler(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodTransaction}
	return interceptor(ctx, in, info, handler)
}

func certificateV1Handler(
	srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor,
) (interface{}, error) {
	in := new(authority.HandleCertificateRequestV1)
	if err := dec(in); err != nil {
		return nil, err
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		resp, err := srv.(authority.AuthorityAPI).HandleCertificateV1(ctx, *req.(*authority.HandleCertificateRequestV1))
		return resp, toStatus(err)
	}
	if interceptor == nil {
		return handler(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodCertificateV1}
	return interceptor(ctx, in, info, handler)
}

func objectInfoHandler(
	srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor,
) (interface{}, error) {
	in := new(authority.ObjectInfoRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		resp, err := srv.(authority.AuthorityAPI).HandleObjectInfoRequest(ctx, *req.(*authority.ObjectInfoRequest))
		return resp, toStatus(err)
	}
	if interceptor == nil {
		return handler(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodObjectInfo}
	return interceptor(ctx, in, info, handler)
}

func transactionInfoHandler(
	srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor,
) (interface{}, error) {
	in := new(authority.TransactionInfoRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		resp, err := srv.(authority.AuthorityAPI).HandleTransactionInfoRequest(ctx, *req.(*authority.TransactionInfoRequest))
		return resp, toStatus(err)
	}
	if interceptor == nil {
		return handler(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodTransactionInfo}
	return interceptor(ctx, in, info, handler)
}

func systemStateObjectHandler(
	srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor,
) (interface{}, error) {
	in := new(authority.SystemStateRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		resp, err := srv.(authority.AuthorityAPI).HandleSystemStateObject(ctx, *req.(*authority.SystemStateRequest))
		return resp, toStatus(err)
	}
	if interceptor == nil {
		return handler(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodSystemStateObject}
	return interceptor(ctx, in, info, handler)
}
