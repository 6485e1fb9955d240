// Package grpc exposes the identity and document services over gRPC using
// the JSON codec and service descriptors from internal/rpc.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/labagenda/internal/logging"
	"github.com/dmitrijs2005/labagenda/internal/rpc"
	"github.com/dmitrijs2005/labagenda/internal/server/models"
	"github.com/dmitrijs2005/labagenda/internal/server/services"
	"google.golang.org/grpc"
)

type userSvc interface {
	SignUp(ctx context.Context, email, password, displayName, lab string) (*services.AuthResult, error)
	SignIn(ctx context.Context, email, password string) (*services.AuthResult, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.AuthResult, error)
	SignOut(ctx context.Context, refreshToken string) error
	Whoami(ctx context.Context, userID string) (*models.User, error)
	SendPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	UpdateProfile(ctx context.Context, userID, displayName, lab string) (*models.User, error)
	ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error
	UserIDFromAccessToken(token string) (string, error)
}

type documentSvc interface {
	Query(ctx context.Context, ownerID, collection string, filter map[string]any) ([]*models.Document, error)
	Add(ctx context.Context, ownerID, collection string, fields map[string]any) (string, error)
	Set(ctx context.Context, ownerID, collection, id string, fields map[string]any, merge bool) error
	Get(ctx context.Context, ownerID, collection, id string) (*models.Document, error)
	Delete(ctx context.Context, ownerID, collection, id string) error
}

type GRPCServer struct {
	address   string
	users     userSvc
	documents documentSvc
	logger    logging.Logger
}

var (
	_ rpc.IdentityServer  = (*GRPCServer)(nil)
	_ rpc.DocumentsServer = (*GRPCServer)(nil)
)

func NewGRPCServer(a string, l logging.Logger, us userSvc, ds documentSvc) *GRPCServer {
	return &GRPCServer{
		address:   a,
		logger:    l.With("module", "grpc_server"),
		users:     us,
		documents: ds,
	}
}

// newServer builds the grpc.Server with both services and the interceptor
// chain registered.
func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.requestLogInterceptor, s.accessTokenInterceptor))
	rpc.RegisterIdentityServer(srv, s)
	rpc.RegisterDocumentsServer(srv, s)
	return srv
}

// Serve accepts connections on lis until ctx is done, then stops gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())
	return srv.Serve(lis)
}

func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}
