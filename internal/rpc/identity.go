package rpc

import (
	"context"

	"google.golang.org/grpc"
)

const (
	IdentityService = "agenda.v1.Identity"

	IdentitySignUp            = "/" + IdentityService + "/SignUp"
	IdentitySignIn            = "/" + IdentityService + "/SignIn"
	IdentityRefresh           = "/" + IdentityService + "/Refresh"
	IdentitySignOut           = "/" + IdentityService + "/SignOut"
	IdentityWhoami            = "/" + IdentityService + "/Whoami"
	IdentitySendPasswordReset = "/" + IdentityService + "/SendPasswordReset"
	IdentityResetPassword     = "/" + IdentityService + "/ResetPassword"
	IdentityUpdateProfile     = "/" + IdentityService + "/UpdateProfile"
	IdentityChangePassword    = "/" + IdentityService + "/ChangePassword"
)

// PublicMethods can be called without an access token.
var PublicMethods = map[string]bool{
	IdentitySignUp:            true,
	IdentitySignIn:            true,
	IdentityRefresh:           true,
	IdentitySignOut:           true,
	IdentitySendPasswordReset: true,
	IdentityResetPassword:     true,
}

type IdentityServer interface {
	SignUp(context.Context, *SignUpRequest) (*AuthResponse, error)
	SignIn(context.Context, *SignInRequest) (*AuthResponse, error)
	Refresh(context.Context, *RefreshRequest) (*AuthResponse, error)
	SignOut(context.Context, *SignOutRequest) (*Empty, error)
	Whoami(context.Context, *Empty) (*Principal, error)
	SendPasswordReset(context.Context, *PasswordResetRequest) (*Empty, error)
	ResetPassword(context.Context, *ResetPasswordRequest) (*Empty, error)
	UpdateProfile(context.Context, *UpdateProfileRequest) (*Principal, error)
	ChangePassword(context.Context, *ChangePasswordRequest) (*Empty, error)
}

var IdentityServiceDesc = grpc.ServiceDesc{
	ServiceName: IdentityService,
	HandlerType: (*IdentityServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "SignUp", Handler: unary(IdentitySignUp, IdentityServer.SignUp)},
		{MethodName: "SignIn", Handler: unary(IdentitySignIn, IdentityServer.SignIn)},
		{MethodName: "Refresh", Handler: unary(IdentityRefresh, IdentityServer.Refresh)},
		{MethodName: "SignOut", Handler: unary(IdentitySignOut, IdentityServer.SignOut)},
		{MethodName: "Whoami", Handler: unary(IdentityWhoami, IdentityServer.Whoami)},
		{MethodName: "SendPasswordReset", Handler: unary(IdentitySendPasswordReset, IdentityServer.SendPasswordReset)},
		{MethodName: "ResetPassword", Handler: unary(IdentityResetPassword, IdentityServer.ResetPassword)},
		{MethodName: "UpdateProfile", Handler: unary(IdentityUpdateProfile, IdentityServer.UpdateProfile)},
		{MethodName: "ChangePassword", Handler: unary(IdentityChangePassword, IdentityServer.ChangePassword)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "agenda/v1/identity",
}

func RegisterIdentityServer(s grpc.ServiceRegistrar, srv IdentityServer) {
	s.RegisterService(&IdentityServiceDesc, srv)
}

type IdentityClient interface {
	SignUp(ctx context.Context, in *SignUpRequest, opts ...grpc.CallOption) (*AuthResponse, error)
	SignIn(ctx context.Context, in *SignInRequest, opts ...grpc.CallOption) (*AuthResponse, error)
	Refresh(ctx context.Context, in *RefreshRequest, opts ...grpc.CallOption) (*AuthResponse, error)
	SignOut(ctx context.Context, in *SignOutRequest, opts ...grpc.CallOption) (*Empty, error)
	Whoami(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*Principal, error)
	SendPasswordReset(ctx context.Context, in *PasswordResetRequest, opts ...grpc.CallOption) (*Empty, error)
	ResetPassword(ctx context.Context, in *ResetPasswordRequest, opts ...grpc.CallOption) (*Empty, error)
	UpdateProfile(ctx context.Context, in *UpdateProfileRequest, opts ...grpc.CallOption) (*Principal, error)
	ChangePassword(ctx context.Context, in *ChangePasswordRequest, opts ...grpc.CallOption) (*Empty, error)
}

type identityClient struct {
	cc grpc.ClientConnInterface
}

func NewIdentityClient(cc grpc.ClientConnInterface) IdentityClient {
	return &identityClient{cc: cc}
}

func (c *identityClient) SignUp(ctx context.Context, in *SignUpRequest, opts ...grpc.CallOption) (*AuthResponse, error) {
	return invoke[AuthResponse](ctx, c.cc, IdentitySignUp, in, opts)
}

func (c *identityClient) SignIn(ctx context.Context, in *SignInRequest, opts ...grpc.CallOption) (*AuthResponse, error) {
	return invoke[AuthResponse](ctx, c.cc, IdentitySignIn, in, opts)
}

func (c *identityClient) Refresh(ctx context.Context, in *RefreshRequest, opts ...grpc.CallOption) (*AuthResponse, error) {
	return invoke[AuthResponse](ctx, c.cc, IdentityRefresh, in, opts)
}

func (c *identityClient) SignOut(ctx context.Context, in *SignOutRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, IdentitySignOut, in, opts)
}

func (c *identityClient) Whoami(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*Principal, error) {
	return invoke[Principal](ctx, c.cc, IdentityWhoami, in, opts)
}

func (c *identityClient) SendPasswordReset(ctx context.Context, in *PasswordResetRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, IdentitySendPasswordReset, in, opts)
}

func (c *identityClient) ResetPassword(ctx context.Context, in *ResetPasswordRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, IdentityResetPassword, in, opts)
}

func (c *identityClient) UpdateProfile(ctx context.Context, in *UpdateProfileRequest, opts ...grpc.CallOption) (*Principal, error) {
	return invoke[Principal](ctx, c.cc, IdentityUpdateProfile, in, opts)
}

func (c *identityClient) ChangePassword(ctx context.Context, in *ChangePasswordRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, IdentityChangePassword, in, opts)
}
