package grpc

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophchat/internal/common"
	"github.com/dmitrijs2005/gophchat/internal/logging"
	pb "github.com/dmitrijs2005/gophchat/internal/proto"
	"github.com/dmitrijs2005/gophchat/internal/server/auth"
	"github.com/dmitrijs2005/gophchat/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

func newTestServer(secret string) *GRPCServer {
	return NewGRPCServer("", logging.Nop{}, nil, nil, nil, nil, secret)
}

func withToken(token string) context.Context {
	return metadata.NewIncomingContext(context.Background(), metadata.Pairs(common.AccessTokenHeaderName, token))
}

func TestAccessTokenInterceptor_PublicAndForeignMethodsPass(t *testing.T) {
	s := newTestServer("secret")

	for _, m := range []string{pb.ChatService_Login_FullMethodName, pb.ChatService_Ping_FullMethodName, "/grpc.health.v1.Health/Check"} {
		called := false
		_, err := s.accessTokenInterceptor(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: m},
			func(ctx context.Context, req interface{}) (interface{}, error) {
				called = true
				return "ok", nil
			})
		require.NoError(t, err, m)
		assert.True(t, called, m)
	}
}

func TestAccessTokenInterceptor_Protected(t *testing.T) {
	s := newTestServer("secret")
	info := &grpc.UnaryServerInfo{FullMethod: pb.ChatService_Ask_FullMethodName}
	never := func(ctx context.Context, req interface{}) (interface{}, error) {
		t.Fatal("handler must not be called")
		return nil, nil
	}

	_, err := s.accessTokenInterceptor(context.Background(), nil, info, never)
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	expired, err := auth.GenerateToken(models.Principal{UserID: 1, Role: common.RoleMember}, []byte("secret"), -time.Minute)
	require.NoError(t, err)
	_, err = s.accessTokenInterceptor(withToken(expired), nil, info, never)
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
	assert.Equal(t, common.ErrTokenExpired.Error(), status.Convert(err).Message())

	foreign, err := auth.GenerateToken(models.Principal{UserID: 1}, []byte("other"), time.Minute)
	require.NoError(t, err)
	_, err = s.accessTokenInterceptor(withToken(foreign), nil, info, never)
	assert.Equal(t, common.ErrInvalidToken.Error(), status.Convert(err).Message())

	valid, err := auth.GenerateToken(models.Principal{UserID: 7, Role: common.RoleAdmin}, []byte("secret"), time.Minute)
	require.NoError(t, err)
	var got models.Principal
	_, err = s.accessTokenInterceptor(withToken(valid), nil, info, func(ctx context.Context, req interface{}) (interface{}, error) {
		got, _ = principalFromContext(ctx)
		return nil, nil
	})
	require.NoError(t, err)
	assert.Equal(t, models.Principal{UserID: 7, Role: common.RoleAdmin}, got)
}

func TestLoggingInterceptor_AssignsRequestID(t *testing.T) {
	s := newTestServer("secret")
	info := &grpc.UnaryServerInfo{FullMethod: pb.ChatService_Ping_FullMethodName}

	var seen string
	_, err := s.loggingInterceptor(context.Background(), nil, info, func(ctx context.Context, req interface{}) (interface{}, error) {
		seen = requestIDFromContext(ctx)
		return nil, status.Error(codes.NotFound, "x")
	})
	assert.Equal(t, codes.NotFound, status.Code(err))
	assert.Len(t, seen, 36)

	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(RequestIDHeader, "abc"))
	_, _ = s.loggingInterceptor(ctx, nil, info, func(ctx context.Context, req interface{}) (interface{}, error) {
		seen = requestIDFromContext(ctx)
		return nil, nil
	})
	assert.Equal(t, "abc", seen)
}

func TestToStatus(t *testing.T) {
	tests := []struct {
		err  error
		code codes.Code
	}{
		{common.ErrorNotFound, codes.NotFound},
		{common.ErrorForbidden, codes.PermissionDenied},
		{fmt.Errorf("%w: lock", common.ErrBusy), codes.Unavailable},
		{common.ErrTimeout, codes.DeadlineExceeded},
		{fmt.Errorf("%w: upstream", common.ErrGenerationFailed), codes.Unavailable},
		{common.ErrorValidation, codes.InvalidArgument},
		{common.ErrorUnauthorized, codes.Unauthenticated},
		{common.ErrRefreshTokenExpired, codes.Unauthenticated},
		{common.ErrorAlreadyExists, codes.AlreadyExists},
		{context.Canceled, codes.Canceled},
		{status.Error(codes.Aborted, "as is"), codes.Aborted},
		{errors.New("db exploded"), codes.Internal},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.code, status.Code(toStatus(tt.err)), "err=%v", tt.err)
	}

	assert.NoError(t, toStatus(nil))
	assert.Equal(t, common.ErrorInternal.Error(), status.Convert(toStatus(errors.New("secret dsn"))).Message())
}
