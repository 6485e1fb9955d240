package rpc

import (
	"context"

	"google.golang.org/grpc"
)

const (
	DocumentsService = "agenda.v1.Documents"

	DocumentsQuery  = "/" + DocumentsService + "/Query"
	DocumentsAdd    = "/" + DocumentsService + "/Add"
	DocumentsSet    = "/" + DocumentsService + "/Set"
	DocumentsDelete = "/" + DocumentsService + "/Delete"
	DocumentsGet    = "/" + DocumentsService + "/Get"
)

// DocumentsServer serves the caller's own documents only; the owner comes
// from the access token, never from the request.
type DocumentsServer interface {
	Query(context.Context, *QueryRequest) (*QueryResponse, error)
	Add(context.Context, *AddRequest) (*AddResponse, error)
	Set(context.Context, *SetRequest) (*Empty, error)
	Delete(context.Context, *DocumentRef) (*Empty, error)
	Get(context.Context, *DocumentRef) (*Document, error)
}

var DocumentsServiceDesc = grpc.ServiceDesc{
	ServiceName: DocumentsService,
	HandlerType: (*DocumentsServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Query", Handler: unary(DocumentsQuery, DocumentsServer.Query)},
		{MethodName: "Add", Handler: unary(DocumentsAdd, DocumentsServer.Add)},
		{MethodName: "Set", Handler: unary(DocumentsSet, DocumentsServer.Set)},
		{MethodName: "Delete", Handler: unary(DocumentsDelete, DocumentsServer.Delete)},
		{MethodName: "Get", Handler: unary(DocumentsGet, DocumentsServer.Get)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "agenda/v1/documents",
}

func RegisterDocumentsServer(s grpc.ServiceRegistrar, srv DocumentsServer) {
	s.RegisterService(&DocumentsServiceDesc, srv)
}

type DocumentsClient interface {
	Query(ctx context.Context, in *QueryRequest, opts ...grpc.CallOption) (*QueryResponse, error)
	Add(ctx context.Context, in *AddRequest, opts ...grpc.CallOption) (*AddResponse, error)
	Set(ctx context.Context, in *SetRequest, opts ...grpc.CallOption) (*Empty, error)
	Delete(ctx context.Context, in *DocumentRef, opts ...grpc.CallOption) (*Empty, error)
	Get(ctx context.Context, in *DocumentRef, opts ...grpc.CallOption) (*Document, error)
}

type documentsClient struct {
	cc grpc.ClientConnInterface
}

func NewDocumentsClient(cc grpc.ClientConnInterface) DocumentsClient {
	return &documentsClient{cc: cc}
}

func (c *documentsClient) Query(ctx context.Context, in *QueryRequest, opts ...grpc.CallOption) (*QueryResponse, error) {
	return invoke[QueryResponse](ctx, c.cc, DocumentsQuery, in, opts)
}

func (c *documentsClient) Add(ctx context.Context, in *AddRequest, opts ...grpc.CallOption) (*AddResponse, error) {
	return invoke[AddResponse](ctx, c.cc, DocumentsAdd, in, opts)
}

func (c *documentsClient) Set(ctx context.Context, in *SetRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, DocumentsSet, in, opts)
}

func (c *documentsClient) Delete(ctx context.Context, in *DocumentRef, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, DocumentsDelete, in, opts)
}

func (c *documentsClient) Get(ctx context.Context, in *DocumentRef, opts ...grpc.CallOption) (*Document, error) {
	return invoke[Document](ctx, c.cc, DocumentsGet, in, opts)
}
