package llm

import (
	"context"
	"errors"
	"net"
	"net/http"

	"google.golang.org/api/googleapi"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ErrEmptyResponse is returned when the provider answers successfully but with no text
var ErrEmptyResponse = errors.New("empty response from model")

// IsTransient reports whether a failed call is worth retrying: timeouts, rate limits,
// network failures and server-side errors. Caller cancellation, bad requests, auth
// failures and empty responses are not.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrEmptyResponse) || errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= http.StatusInternalServerError
	}

	if st, ok := status.FromError(unwrapStatus(err)); ok && st.Code() != codes.OK {
		return transientCode(st.Code())
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}

func transientCode(code codes.Code) bool {
	switch code {
	case codes.Unavailable, codes.ResourceExhausted, codes.DeadlineExceeded,
		codes.Aborted, codes.Internal, codes.Unknown:
		return true
	default:
		return false
	}
}

// unwrapStatus finds the first error in the chain that carries a gRPC status
func unwrapStatus(err error) error {
	for e := err; e != nil; e = errors.Unwrap(e) {
		if _, ok := e.(interface{ GRPCStatus() *status.Status }); ok {
			return e
		}
	}
	return nil
}
