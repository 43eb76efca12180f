package client

import (
	"context"

	pb "github.com/dmitrijs2005/gophchat/internal/proto"
)

// Client is the API the CLI talks to.
type Client interface {
	Close() error
	Ping(ctx context.Context) error
	Register(ctx context.Context, email, password, name string) (int64, error)
	Login(ctx context.Context, email, password string) error
	Logout(ctx context.Context) error
	Profile(ctx context.Context) (*pb.User, error)
	Ask(ctx context.Context, question string) (*pb.Exchange, error)
	ListThreads(ctx context.Context, req *pb.ListThreadsRequest) ([]pb.Thread, error)
	ExportThread(ctx context.Context, threadID int64) (string, error)
	Tokens() (access, refresh string)
	SetTokens(access, refresh string)
}
