package transcribe

import (
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// grpcStatusError adapts a gRPC status code to retry.HTTPStatusCoder so the
// shared retry.Policy can judge retryability without depending on gRPC.
type grpcStatusError struct {
	code int
	err  error
}

func (e *grpcStatusError) Error() string        { return e.err.Error() }
func (e *grpcStatusError) Unwrap() error        { return e.err }
func (e *grpcStatusError) HTTPStatusCode() int  { return e.code }

func withStatusCode(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	var httpCode int
	switch st.Code() {
	case codes.OK:
		return nil
	case codes.Canceled:
		httpCode = 499
	case codes.DeadlineExceeded:
		httpCode = 408
	case codes.ResourceExhausted:
		httpCode = 429
	case codes.Unavailable:
		httpCode = 503
	case codes.Internal, codes.Unknown, codes.DataLoss:
		httpCode = 500
	case codes.InvalidArgument, codes.NotFound, codes.AlreadyExists, codes.PermissionDenied, codes.Unauthenticated:
		httpCode = 400
	default:
		httpCode = 500
	}
	return &grpcStatusError{code: httpCode, err: err}
}
