package proto

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const ServiceName = "gophchat.ChatService"

const (
	ChatService_Ping_FullMethodName         = "/gophchat.ChatService/Ping"
	ChatService_Register_FullMethodName     = "/gophchat.ChatService/Register"
	ChatService_Login_FullMethodName        = "/gophchat.ChatService/Login"
	ChatService_RefreshToken_FullMethodName = "/gophchat.ChatService/RefreshToken"
	ChatService_Logout_FullMethodName       = "/gophchat.ChatService/Logout"
	ChatService_Profile_FullMethodName      = "/gophchat.ChatService/Profile"
	ChatService_Ask_FullMethodName          = "/gophchat.ChatService/Ask"
	ChatService_ListThreads_FullMethodName  = "/gophchat.ChatService/ListThreads"
	ChatService_ExportThread_FullMethodName = "/gophchat.ChatService/ExportThread"
)

// ChatServiceServer is the server API for the chat service.
type ChatServiceServer interface {
	Ping(context.Context, *PingRequest) (*PingResponse, error)
	Register(context.Context, *RegisterRequest) (*RegisterResponse, error)
	Login(context.Context, *LoginRequest) (*LoginResponse, error)
	RefreshToken(context.Context, *RefreshTokenRequest) (*RefreshTokenResponse, error)
	Logout(context.Context, *LogoutRequest) (*LogoutResponse, error)
	Profile(context.Context, *ProfileRequest) (*ProfileResponse, error)
	Ask(context.Context, *AskRequest) (*AskResponse, error)
	ListThreads(context.Context, *ListThreadsRequest) (*ListThreadsResponse, error)
	ExportThread(context.Context, *ExportThreadRequest) (*ExportThreadResponse, error)
}

// UnimplementedChatServiceServer can be embedded to have forward compatible
// implementations.
type UnimplementedChatServiceServer struct{}

func (UnimplementedChatServiceServer) Ping(context.Context, *PingRequest) (*PingResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Ping not implemented")
}
func (UnimplementedChatServiceServer) Register(context.Context, *RegisterRequest) (*RegisterResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Register not implemented")
}
func (UnimplementedChatServiceServer) Login(context.Context, *LoginRequest) (*LoginResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Login not implemented")
}
func (UnimplementedChatServiceServer) RefreshToken(context.Context, *RefreshTokenRequest) (*RefreshTokenResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method RefreshToken not implemented")
}
func (UnimplementedChatServiceServer) Logout(context.Context, *LogoutRequest) (*LogoutResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Logout not implemented")
}
func (UnimplementedChatServiceServer) Profile(context.Context, *ProfileRequest) (*ProfileResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Profile not implemented")
}
func (UnimplementedChatServiceServer) Ask(context.Context, *AskRequest) (*AskResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Ask not implemented")
}
func (UnimplementedChatServiceServer) ListThreads(context.Context, *ListThreadsRequest) (*ListThreadsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListThreads not implemented")
}
func (UnimplementedChatServiceServer) ExportThread(context.Context, *ExportThreadRequest) (*ExportThreadResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ExportThread not implemented")
}

func RegisterChatServiceServer(s grpc.ServiceRegistrar, srv ChatServiceServer) {
	s.RegisterService(&ChatService_ServiceDesc, srv)
}

// unaryHandler decodes the request into a fresh *Req and dispatches it
// through the server's interceptor chain.
func unaryHandler[Req, Resp any](fullMethod string, call func(ChatServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(ChatServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
			return call(srv.(ChatServiceServer), ctx, req.(*Req))
		})
	}
}

var ChatService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ChatServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Ping", Handler: unaryHandler(ChatService_Ping_FullMethodName, ChatServiceServer.Ping)},
		{MethodName: "Register", Handler: unaryHandler(ChatService_Register_FullMethodName, ChatServiceServer.Register)},
		{MethodName: "Login", Handler: unaryHandler(ChatService_Login_FullMethodName, ChatServiceServer.Login)},
		{MethodName: "RefreshToken", Handler: unaryHandler(ChatService_RefreshToken_FullMethodName, ChatServiceServer.RefreshToken)},
		{MethodName: "Logout", Handler: unaryHandler(ChatService_Logout_FullMethodName, ChatServiceServer.Logout)},
		{MethodName: "Profile", Handler: unaryHandler(ChatService_Profile_FullMethodName, ChatServiceServer.Profile)},
		{MethodName: "Ask", Handler: unaryHandler(ChatService_Ask_FullMethodName, ChatServiceServer.Ask)},
		{MethodName: "ListThreads", Handler: unaryHandler(ChatService_ListThreads_FullMethodName, ChatServiceServer.ListThreads)},
		{MethodName: "ExportThread", Handler: unaryHandler(ChatService_ExportThread_FullMethodName, ChatServiceServer.ExportThread)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "gophchat/chat.json",
}

// ChatServiceClient is the client API for the chat service. Every call is
// sent with the JSON content subtype.
type ChatServiceClient interface {
	Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error)
	Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*RegisterResponse, error)
	Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error)
	RefreshToken(ctx context.Context, in *RefreshTokenRequest, opts ...grpc.CallOption) (*RefreshTokenResponse, error)
	Logout(ctx context.Context, in *LogoutRequest, opts ...grpc.CallOption) (*LogoutResponse, error)
	Profile(ctx context.Context, in *ProfileRequest, opts ...grpc.CallOption) (*ProfileResponse, error)
	Ask(ctx context.Context, in *AskRequest, opts ...grpc.CallOption) (*AskResponse, error)
	ListThreads(ctx context.Context, in *ListThreadsRequest, opts ...grpc.CallOption) (*ListThreadsResponse, error)
	ExportThread(ctx context.Context, in *ExportThreadRequest, opts ...grpc.CallOption) (*ExportThreadResponse, error)
}

type chatServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewChatServiceClient(cc grpc.ClientConnInterface) ChatServiceClient {
	return &chatServiceClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *chatServiceClient) Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error) {
	return invoke[PingResponse](ctx, c.cc, ChatService_Ping_FullMethodName, in, opts)
}

func (c *chatServiceClient) Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*RegisterResponse, error) {
	return invoke[RegisterResponse](ctx, c.cc, ChatService_Register_FullMethodName, in, opts)
}

func (c *chatServiceClient) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error) {
	return invoke[LoginResponse](ctx, c.cc, ChatService_Login_FullMethodName, in, opts)
}

func (c *chatServiceClient) RefreshToken(ctx context.Context, in *RefreshTokenRequest, opts ...grpc.CallOption) (*RefreshTokenResponse, error) {
	return invoke[RefreshTokenResponse](ctx, c.cc, ChatService_RefreshToken_FullMethodName, in, opts)
}

func (c *chatServiceClient) Logout(ctx context.Context, in *LogoutRequest, opts ...grpc.CallOption) (*LogoutResponse, error) {
	return invoke[LogoutResponse](ctx, c.cc, ChatService_Logout_FullMethodName, in, opts)
}

func (c *chatServiceClient) Profile(ctx context.Context, in *ProfileRequest, opts ...grpc.CallOption) (*ProfileResponse, error) {
	return invoke[ProfileResponse](ctx, c.cc, ChatService_Profile_FullMethodName, in, opts)
}

func (c *chatServiceClient) Ask(ctx context.Context, in *AskRequest, opts ...grpc.CallOption) (*AskResponse, error) {
	return invoke[AskResponse](ctx, c.cc, ChatService_Ask_FullMethodName, in, opts)
}

func (c *chatServiceClient) ListThreads(ctx context.Context, in *ListThreadsRequest, opts ...grpc.CallOption) (*ListThreadsResponse, error) {
	return invoke[ListThreadsResponse](ctx, c.cc, ChatService_ListThreads_FullMethodName, in, opts)
}

func (c *chatServiceClient) ExportThread(ctx context.Context, in *ExportThreadRequest, opts ...grpc.CallOption) (*ExportThreadResponse, error) {
	return invoke[ExportThreadResponse](ctx, c.cc, ChatService_ExportThread_FullMethodName, in, opts)
}
