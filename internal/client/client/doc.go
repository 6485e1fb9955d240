// Package client is the agenda's gRPC transport to the backend.
//
// # Overview
//
// GRPCClient manages one connection and exposes two faces:
//  1. Identity calls (SignUp, SignIn, SignOut, Whoami, password reset), used
//     by identity.RemoteProvider.
//  2. A remote.DocumentStore (Query, Add, Set, Delete, Get), used by the
//     typed collection clients.
//
// An interceptor injects the access token on every call and, when the server
// reports it expired, refreshes the token pair once and retries.
//
// # Error Handling
//
// gRPC status codes are mapped to the sentinels in package common
// (ErrUnauthenticated, ErrRemoteUnavailable, ErrNotFound, ...), so callers
// never see transport types.
package client
