package grpc

import (
	"context"

	pb "github.com/dmitrijs2005/gophchat/internal/proto"
	"github.com/dmitrijs2005/gophchat/internal/server/models"
	"github.com/dmitrijs2005/gophchat/internal/server/services"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func (s *GRPCServer) principal(ctx context.Context) (models.Principal, error) {
	p, ok := principalFromContext(ctx)
	if !ok {
		return models.Principal{}, status.Error(codes.Unauthenticated, "missing token")
	}
	return p, nil
}

func (s *GRPCServer) Ping(ctx context.Context, req *pb.PingRequest) (*pb.PingResponse, error) {
	return &pb.PingResponse{Status: "OK"}, nil
}

func (s *GRPCServer) Register(ctx context.Context, req *pb.RegisterRequest) (*pb.RegisterResponse, error) {
	u, err := s.users.Register(ctx, req.Email, req.Password, req.Name, req.Role)
	if err != nil {
		return nil, toStatus(err)
	}
	return &pb.RegisterResponse{UserID: u.ID}, nil
}

func (s *GRPCServer) Login(ctx context.Context, req *pb.LoginRequest) (*pb.LoginResponse, error) {
	tokens, err := s.users.Login(ctx, req.Email, req.Password)
	if err != nil {
		return nil, toStatus(err)
	}
	return &pb.LoginResponse{AccessToken: tokens.AccessToken, RefreshToken: tokens.RefreshToken}, nil
}

func (s *GRPCServer) RefreshToken(ctx context.Context, req *pb.RefreshTokenRequest) (*pb.RefreshTokenResponse, error) {
	tokens, err := s.users.RefreshToken(ctx, req.RefreshToken)
	if err != nil {
		return nil, toStatus(err)
	}
	return &pb.RefreshTokenResponse{AccessToken: tokens.AccessToken, RefreshToken: tokens.RefreshToken}, nil
}

func (s *GRPCServer) Logout(ctx context.Context, req *pb.LogoutRequest) (*pb.LogoutResponse, error) {
	p, err := s.principal(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.users.Logout(ctx, p.UserID); err != nil {
		return nil, toStatus(err)
	}
	return &pb.LogoutResponse{}, nil
}

func (s *GRPCServer) Profile(ctx context.Context, req *pb.ProfileRequest) (*pb.ProfileResponse, error) {
	p, err := s.principal(ctx)
	if err != nil {
		return nil, err
	}
	u, err := s.users.Profile(ctx, p.UserID)
	if err != nil {
		return nil, toStatus(err)
	}
	return &pb.ProfileResponse{User: pb.UserFromModel(u)}, nil
}

func (s *GRPCServer) Ask(ctx context.Context, req *pb.AskRequest) (*pb.AskResponse, error) {
	p, err := s.principal(ctx)
	if err != nil {
		return nil, err
	}
	ex, err := s.chat.SubmitQuestion(ctx, p.UserID, req.Question)
	if err != nil {
		return nil, toStatus(err)
	}
	return &pb.AskResponse{Exchange: pb.ExchangeFromModel(ex)}, nil
}

func (s *GRPCServer) ListThreads(ctx context.Context, req *pb.ListThreadsRequest) (*pb.ListThreadsResponse, error) {
	p, err := s.principal(ctx)
	if err != nil {
		return nil, err
	}

	lr := services.ListThreadsRequest{UserIDs: req.UserIDs, Sort: req.Sort, Page: req.Page, Limit: req.Limit}
	if lr.Sort == "" {
		lr.Sort = services.DefaultSort
	}
	if lr.Page == 0 {
		lr.Page = services.DefaultPage
	}
	if lr.Limit == 0 {
		lr.Limit = services.DefaultLimit
	}

	threads, err := s.threads.ListThreads(ctx, p, lr)
	if err != nil {
		return nil, toStatus(err)
	}
	return &pb.ListThreadsResponse{Threads: pb.ThreadsFromModel(threads)}, nil
}

func (s *GRPCServer) ExportThread(ctx context.Context, req *pb.ExportThreadRequest) (*pb.ExportThreadResponse, error) {
	p, err := s.principal(ctx)
	if err != nil {
		return nil, err
	}
	url, err := s.export.ExportThread(ctx, p, req.ThreadID)
	if err != nil {
		return nil, toStatus(err)
	}
	return &pb.ExportThreadResponse{URL: url}, nil
}
