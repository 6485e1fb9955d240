// Package rpc is the wire contract between the agenda client and backend.
//
// Messages are plain Go structs encoded as JSON through a gRPC codec
// registered under the "json" content-subtype, and the two services are
// declared by hand with grpc.ServiceDesc. Both sides must dial or serve with
// CallContentSubtype(CodecName); the client helpers here do that for you.
package rpc
