package grpc

import (
	"context"

	"github.com/dmitrijs2005/labagenda/internal/rpc"
	"github.com/dmitrijs2005/labagenda/internal/server/models"
	"github.com/dmitrijs2005/labagenda/internal/server/services"
)

func principal(u *models.User) rpc.Principal {
	return rpc.Principal{OwnerID: u.ID, Email: u.Email, DisplayName: u.DisplayName, Lab: u.Lab}
}

func authResponse(r *services.AuthResult) *rpc.AuthResponse {
	return &rpc.AuthResponse{
		AccessToken:  r.Tokens.AccessToken,
		RefreshToken: r.Tokens.RefreshToken,
		Principal:    principal(r.User),
	}
}

func (s *GRPCServer) SignUp(ctx context.Context, req *rpc.SignUpRequest) (*rpc.AuthResponse, error) {
	result, err := s.users.SignUp(ctx, req.Email, req.Password, req.DisplayName, req.Lab)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	s.logger.Info(ctx, "Registered", "user_id", result.User.ID)
	return authResponse(result), nil
}

func (s *GRPCServer) SignIn(ctx context.Context, req *rpc.SignInRequest) (*rpc.AuthResponse, error) {
	result, err := s.users.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return authResponse(result), nil
}

func (s *GRPCServer) Refresh(ctx context.Context, req *rpc.RefreshRequest) (*rpc.AuthResponse, error) {
	result, err := s.users.RefreshToken(ctx, req.RefreshToken)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return authResponse(result), nil
}

func (s *GRPCServer) SignOut(ctx context.Context, req *rpc.SignOutRequest) (*rpc.Empty, error) {
	if err := s.users.SignOut(ctx, req.RefreshToken); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.Empty{}, nil
}

func (s *GRPCServer) Whoami(ctx context.Context, _ *rpc.Empty) (*rpc.Principal, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	user, err := s.users.Whoami(ctx, userID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	p := principal(user)
	return &p, nil
}

func (s *GRPCServer) UpdateProfile(ctx context.Context, req *rpc.UpdateProfileRequest) (*rpc.Principal, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	user, err := s.users.UpdateProfile(ctx, userID, req.DisplayName, req.Lab)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	p := principal(user)
	return &p, nil
}

func (s *GRPCServer) ChangePassword(ctx context.Context, req *rpc.ChangePasswordRequest) (*rpc.Empty, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.users.ChangePassword(ctx, userID, req.CurrentPassword, req.NewPassword); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.Empty{}, nil
}

func (s *GRPCServer) SendPasswordReset(ctx context.Context, req *rpc.PasswordResetRequest) (*rpc.Empty, error) {
	if err := s.users.SendPasswordReset(ctx, req.Email); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.Empty{}, nil
}

func (s *GRPCServer) ResetPassword(ctx context.Context, req *rpc.ResetPasswordRequest) (*rpc.Empty, error) {
	if err := s.users.ResetPassword(ctx, req.Token, req.NewPassword); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.Empty{}, nil
}

func (s *GRPCServer) Query(ctx context.Context, req *rpc.QueryRequest) (*rpc.QueryResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	docs, err := s.documents.Query(ctx, userID, req.Collection, req.Filter)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	resp := &rpc.QueryResponse{Documents: make([]rpc.Document, 0, len(docs))}
	for _, d := range docs {
		resp.Documents = append(resp.Documents, rpc.Document{ID: d.ID, Fields: d.Fields})
	}
	return resp, nil
}

func (s *GRPCServer) Add(ctx context.Context, req *rpc.AddRequest) (*rpc.AddResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	id, err := s.documents.Add(ctx, userID, req.Collection, req.Fields)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.AddResponse{ID: id}, nil
}

func (s *GRPCServer) Set(ctx context.Context, req *rpc.SetRequest) (*rpc.Empty, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.documents.Set(ctx, userID, req.Collection, req.ID, req.Fields, req.Merge); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.Empty{}, nil
}

func (s *GRPCServer) Delete(ctx context.Context, req *rpc.DocumentRef) (*rpc.Empty, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.documents.Delete(ctx, userID, req.Collection, req.ID); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.Empty{}, nil
}

func (s *GRPCServer) Get(ctx context.Context, req *rpc.DocumentRef) (*rpc.Document, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	doc, err := s.documents.Get(ctx, userID, req.Collection, req.ID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.Document{ID: doc.ID, Fields: doc.Fields}, nil
}
