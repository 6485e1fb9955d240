package client

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/labagenda/internal/common"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// mapError turns a gRPC failure into one of the common sentinels, keeping
// the server's message for context.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return fmt.Errorf("rpc error: %w", err)
	}

	var target error
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		target = common.ErrUnauthenticated
		if st.Message() == common.ErrRefreshTokenExpired.Error() {
			target = common.ErrRefreshTokenExpired
		}
	case codes.Unavailable, codes.DeadlineExceeded, codes.Canceled:
		target = common.ErrRemoteUnavailable
	case codes.NotFound:
		target = common.ErrNotFound
	case codes.AlreadyExists:
		target = common.ErrAlreadyExists
	case codes.InvalidArgument:
		if field, reason, ok := strings.Cut(st.Message(), ": "); ok {
			return common.NewValidationError(field, reason)
		}
		target = common.ErrValidation
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
	return fmt.Errorf("%w: %s", target, st.Message())
}

// isTokenExpired reports whether the server rejected an expired access token.
func isTokenExpired(err error) bool {
	st, ok := status.FromError(err)
	return ok && st.Code() == codes.Unauthenticated && st.Message() == common.ErrTokenExpired.Error()
}

var errNoRefreshToken = errors.New("no refresh token")
