package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/labagenda/internal/client/models"
	"github.com/dmitrijs2005/labagenda/internal/client/remote"
	"github.com/dmitrijs2005/labagenda/internal/common"
	"github.com/dmitrijs2005/labagenda/internal/rpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
)

type GRPCClient struct {
	endpointURL string
	timeout     time.Duration
	conn        *grpc.ClientConn
	identity    rpc.IdentityClient
	documents   rpc.DocumentsClient

	mu           sync.Mutex
	accessToken  string
	refreshToken string
	onTokens     func(Tokens)

	refreshMu sync.Mutex
}

// NewGRPCClient dials lazily; the first call establishes the connection.
// timeout bounds each call; zero means no extra deadline.
func NewGRPCClient(endpointURL string, timeout time.Duration, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL, timeout: timeout}

	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.accessTokenInterceptor),
		grpc.WithDefaultCallOptions(rpc.CallOption()),
	}, opts...)

	conn, err := grpc.NewClient(endpointURL, opts...)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", endpointURL, err)
	}
	c.conn = conn
	c.identity = rpc.NewIdentityClient(conn)
	c.documents = rpc.NewDocumentsClient(conn)
	return c, nil
}

func (c *GRPCClient) Close() error {
	return c.conn.Close()
}

func (c *GRPCClient) Tokens() Tokens {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Tokens{AccessToken: c.accessToken, RefreshToken: c.refreshToken}
}

// SetTokens installs a pair without notifying OnTokensChanged.
func (c *GRPCClient) SetTokens(t Tokens) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accessToken, c.refreshToken = t.AccessToken, t.RefreshToken
}

// OnTokensChanged registers fn to run whenever the client obtains or drops
// a token pair on its own (sign-in, refresh, sign-out).
func (c *GRPCClient) OnTokensChanged(fn func(Tokens)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onTokens = fn
}

func (c *GRPCClient) storeTokens(t Tokens) {
	c.mu.Lock()
	c.accessToken, c.refreshToken = t.AccessToken, t.RefreshToken
	fn := c.onTokens
	c.mu.Unlock()
	if fn != nil {
		fn(t)
	}
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AccessTokenHeaderName)
	if token != "" {
		md.Set(common.AccessTokenHeaderName, token)
	}
	return metadata.NewOutgoingContext(ctx, md)
}

func (c *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	sent := c.Tokens().AccessToken
	err := invoker(withAccessToken(ctx, sent), method, req, reply, cc, opts...)
	if err == nil || rpc.PublicMethods[method] || !isTokenExpired(err) {
		return err
	}

	if rerr := c.refresh(ctx, sent); rerr != nil {
		return err
	}
	return invoker(withAccessToken(ctx, c.Tokens().AccessToken), method, req, reply, cc, opts...)
}

// refresh swaps the token pair unless another caller already replaced the
// access token that was rejected.
func (c *GRPCClient) refresh(ctx context.Context, rejected string) error {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	cur := c.Tokens()
	if cur.AccessToken != rejected {
		return nil
	}
	if cur.RefreshToken == "" {
		return errNoRefreshToken
	}

	resp, err := c.identity.Refresh(ctx, &rpc.RefreshRequest{RefreshToken: cur.RefreshToken})
	if err != nil {
		return err
	}
	c.storeTokens(Tokens{AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken})
	return nil
}

func (c *GRPCClient) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.timeout)
}

func toPrincipal(p rpc.Principal) models.Principal {
	return models.Principal{OwnerID: p.OwnerID, Email: p.Email, DisplayName: p.DisplayName, Lab: p.Lab}
}

func (c *GRPCClient) SignUp(ctx context.Context, email, password, displayName, lab string) (models.Principal, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	resp, err := c.identity.SignUp(ctx, &rpc.SignUpRequest{Email: email, Password: password, DisplayName: displayName, Lab: lab})
	if err != nil {
		return models.Principal{}, mapError(err)
	}
	c.storeTokens(Tokens{AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken})
	return toPrincipal(resp.Principal), nil
}

func (c *GRPCClient) SignIn(ctx context.Context, email, password string) (models.Principal, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	resp, err := c.identity.SignIn(ctx, &rpc.SignInRequest{Email: email, Password: password})
	if err != nil {
		return models.Principal{}, mapError(err)
	}
	c.storeTokens(Tokens{AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken})
	return toPrincipal(resp.Principal), nil
}

// SignOut revokes the refresh token on the server. Local tokens are dropped
// even when the call fails.
func (c *GRPCClient) SignOut(ctx context.Context) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	rt := c.Tokens().RefreshToken
	c.storeTokens(Tokens{})
	if rt == "" {
		return nil
	}
	if _, err := c.identity.SignOut(ctx, &rpc.SignOutRequest{RefreshToken: rt}); err != nil {
		return mapError(err)
	}
	return nil
}

func (c *GRPCClient) Whoami(ctx context.Context) (models.Principal, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	p, err := c.identity.Whoami(ctx, &rpc.Empty{})
	if err != nil {
		return models.Principal{}, mapError(err)
	}
	return toPrincipal(*p), nil
}

func (c *GRPCClient) SendPasswordReset(ctx context.Context, email string) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	_, err := c.identity.SendPasswordReset(ctx, &rpc.PasswordResetRequest{Email: email})
	return mapError(err)
}

func (c *GRPCClient) ResetPassword(ctx context.Context, token, newPassword string) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	_, err := c.identity.ResetPassword(ctx, &rpc.ResetPasswordRequest{Token: token, NewPassword: newPassword})
	return mapError(err)
}

func (c *GRPCClient) UpdateProfile(ctx context.Context, displayName, lab string) (models.Principal, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	p, err := c.identity.UpdateProfile(ctx, &rpc.UpdateProfileRequest{DisplayName: displayName, Lab: lab})
	if err != nil {
		return models.Principal{}, mapError(err)
	}
	return toPrincipal(*p), nil
}

func (c *GRPCClient) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	_, err := c.identity.ChangePassword(ctx, &rpc.ChangePasswordRequest{CurrentPassword: currentPassword, NewPassword: newPassword})
	return mapError(err)
}

func (c *GRPCClient) Query(ctx context.Context, collection string, filter remote.Filter) ([]remote.Document, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	resp, err := c.documents.Query(ctx, &rpc.QueryRequest{Collection: collection, Filter: filter})
	if err != nil {
		return nil, mapError(err)
	}
	out := make([]remote.Document, 0, len(resp.Documents))
	for _, d := range resp.Documents {
		out = append(out, remote.Document{ID: d.ID, Fields: d.Fields})
	}
	return out, nil
}

func (c *GRPCClient) Add(ctx context.Context, collection string, fields models.Fields) (string, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	resp, err := c.documents.Add(ctx, &rpc.AddRequest{Collection: collection, Fields: fields})
	if err != nil {
		return "", mapError(err)
	}
	return resp.ID, nil
}

func (c *GRPCClient) Set(ctx context.Context, collection, id string, fields models.Fields, merge bool) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	_, err := c.documents.Set(ctx, &rpc.SetRequest{Collection: collection, ID: id, Fields: fields, Merge: merge})
	return mapError(err)
}

func (c *GRPCClient) Delete(ctx context.Context, collection, id string) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	_, err := c.documents.Delete(ctx, &rpc.DocumentRef{Collection: collection, ID: id})
	return mapError(err)
}

func (c *GRPCClient) Get(ctx context.Context, collection, id string) (remote.Document, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	d, err := c.documents.Get(ctx, &rpc.DocumentRef{Collection: collection, ID: id})
	if err != nil {
		return remote.Document{}, mapError(err)
	}
	return remote.Document{ID: d.ID, Fields: d.Fields}, nil
}
