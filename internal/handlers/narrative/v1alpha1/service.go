// Package v1alpha1 exposes the narrative engine over gRPC.
//
// There are no generated stubs: the service and its file descriptor are
// registered by hand and every request and response is a
// google.protobuf.Struct.
package v1alpha1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// Descriptor names
const (
	Package     = "narrative.v1alpha1"
	ServiceName = Package + ".NarrativeService"
	ProtoFile   = "narrative/v1alpha1/narrative.proto"
)

// Method names
const (
	MethodCreateCharacter     = "CreateCharacter"
	MethodListCampaigns       = "ListCampaigns"
	MethodSelectCampaign      = "SelectCampaign"
	MethodStartSession        = "StartSession"
	MethodSubmitInput         = "SubmitInput"
	MethodCreateParty         = "CreateParty"
	MethodInvite              = "Invite"
	MethodRespondToInvitation = "RespondToInvitation"
	MethodListInvitations     = "ListInvitations"
	MethodGetParty            = "GetParty"
	MethodSubmitPartyInput    = "SubmitPartyInput"
)

// NarrativeServiceServer is the server API for the narrative service
type NarrativeServiceServer interface {
	CreateCharacter(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	ListCampaigns(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	SelectCampaign(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	StartSession(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	SubmitInput(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	CreateParty(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	Invite(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	RespondToInvitation(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	ListInvitations(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	GetParty(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	SubmitPartyInput(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

type unaryCall func(srv NarrativeServiceServer, ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)

var methods = []struct {
	name string
	call unaryCall
}{
	{MethodCreateCharacter, NarrativeServiceServer.CreateCharacter},
	{MethodListCampaigns, NarrativeServiceServer.ListCampaigns},
	{MethodSelectCampaign, NarrativeServiceServer.SelectCampaign},
	{MethodStartSession, NarrativeServiceServer.StartSession},
	{MethodSubmitInput, NarrativeServiceServer.SubmitInput},
	{MethodCreateParty, NarrativeServiceServer.CreateParty},
	{MethodInvite, NarrativeServiceServer.Invite},
	{MethodRespondToInvitation, NarrativeServiceServer.RespondToInvitation},
	{MethodListInvitations, NarrativeServiceServer.ListInvitations},
	{MethodGetParty, NarrativeServiceServer.GetParty},
	{MethodSubmitPartyInput, NarrativeServiceServer.SubmitPartyInput},
}

// ServiceDesc is the grpc.ServiceDesc for the narrative service
var ServiceDesc = buildServiceDesc()

func buildServiceDesc() grpc.ServiceDesc {
	desc := grpc.ServiceDesc{
		ServiceName: ServiceName,
		HandlerType: (*NarrativeServiceServer)(nil),
		Streams:     []grpc.StreamDesc{},
		Metadata:    ProtoFile,
	}
	for _, m := range methods {
		desc.Methods = append(desc.Methods, grpc.MethodDesc{
			MethodName: m.name,
			Handler:    unaryHandler(FullMethod(m.name), m.call),
		})
	}
	return desc
}

func unaryHandler(fullMethod string, call unaryCall) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(NarrativeServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(NarrativeServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// FullMethod returns the gRPC path of a method
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// RegisterNarrativeServiceServer registers srv on s
func RegisterNarrativeServiceServer(s grpc.ServiceRegistrar, srv NarrativeServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// Client calls the narrative service by method name
type Client struct {
	conn grpc.ClientConnInterface
}

// NewClient creates a Client on conn
func NewClient(conn grpc.ClientConnInterface) *Client {
	return &Client{conn: conn}
}

// Call invokes method with fields as the request
func (c *Client) Call(ctx context.Context, method string, fields map[string]any, opts ...grpc.CallOption) (*structpb.Struct, error) {
	req, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, err
	}

	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, FullMethod(method), req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
