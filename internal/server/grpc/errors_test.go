package grpc

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/dmitrijs2005/labagenda/internal/common"
	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestToStatus(t *testing.T) {
	s, _, _ := newTestServer()

	tests := []struct {
		err  error
		code codes.Code
		msg  string
	}{
		{common.NewValidationError("email", "Email inválido"), codes.InvalidArgument, "email: Email inválido"},
		{fmt.Errorf("wrapped: %w", common.ErrRefreshTokenExpired), codes.Unauthenticated, "refresh token expired"},
		{common.ErrTokenExpired, codes.Unauthenticated, "token expired"},
		{common.ErrInvalidToken, codes.Unauthenticated, "unauthenticated"},
		{common.ErrUnauthenticated, codes.Unauthenticated, "unauthenticated"},
		{fmt.Errorf("aulas/x: %w", common.ErrNotFound), codes.NotFound, "not found"},
		{common.ErrAlreadyExists, codes.AlreadyExists, "already exists"},
		{context.DeadlineExceeded, codes.DeadlineExceeded, ""},
		{errors.New("pq: relation does not exist"), codes.Internal, "internal error"},
		{status.Error(codes.Unavailable, "down"), codes.Unavailable, "down"},
	}
	for _, tt := range tests {
		got := s.toStatus(context.Background(), tt.err)
		assert.Equal(t, tt.code, status.Code(got), tt.err.Error())
		if tt.msg != "" {
			assert.Equal(t, tt.msg, status.Convert(got).Message())
		}
	}
	assert.NoError(t, s.toStatus(context.Background(), nil))
}
