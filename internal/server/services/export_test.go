package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"regexp"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/gophchat/internal/common"
	"github.com/dmitrijs2005/gophchat/internal/logging"
	"github.com/dmitrijs2005/gophchat/internal/server/models"
	"github.com/dmitrijs2005/gophchat/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type exportCall struct {
	bucket, key string
	body        []byte
	expires     time.Duration
}

// stubS3 replaces the S3 seams for the duration of the test and records
// what ExportThread sends.
func stubS3(t *testing.T, putErr, presignErr error) *exportCall {
	t.Helper()
	origLoad, origNew, origPre := loadDefaultAWSConfig, newS3ClientFromConfig, newS3PresignClient
	origPut, origPresign := putObject, presignGetObject
	t.Cleanup(func() {
		loadDefaultAWSConfig, newS3ClientFromConfig, newS3PresignClient = origLoad, origNew, origPre
		putObject, presignGetObject = origPut, origPresign
	})

	call := &exportCall{}
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, nil
	}
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		var o s3.Options
		for _, fn := range optFns {
			fn(&o)
		}
		assert.True(t, o.UsePathStyle)
		assert.Equal(t, "http://127.0.0.1:9000/", aws.ToString(o.BaseEndpoint))
		return &s3.Client{}
	}
	newS3PresignClient = func(c *s3.Client) *s3.PresignClient { return &s3.PresignClient{} }
	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		call.bucket = aws.ToString(in.Bucket)
		call.key = aws.ToString(in.Key)
		call.body, _ = io.ReadAll(in.Body)
		if putErr != nil {
			return nil, putErr
		}
		return &s3.PutObjectOutput{}, nil
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		var o s3.PresignOptions
		for _, fn := range optFns {
			fn(&o)
		}
		call.expires = o.Expires
		if presignErr != nil {
			return nil, presignErr
		}
		return &v4.PresignedHTTPRequest{URL: "https://s3.local/" + aws.ToString(in.Key)}, nil
	}
	return call
}

func newExportFixture(t *testing.T) (*ExportService, *models.User, *models.Thread) {
	t.Helper()
	ctx := context.Background()
	m := repomanager.NewMemoryManager(nil)
	owner := seedUser(t, m, "alice@example.com", common.RoleMember)

	th, err := m.Repos().Threads.Create(ctx, owner.ID, t0)
	require.NoError(t, err)
	for _, q := range []string{"first", "second"} {
		_, err := m.Repos().Exchanges.Create(ctx, &models.Exchange{
			ThreadID: th.ID, UserID: owner.ID, Question: q, Answer: "re: " + q, CreatedAt: t0,
		})
		require.NoError(t, err)
	}

	s := NewExportService(m, testConfig(), logging.Nop{})
	s.now = func() time.Time { return t0.Add(time.Hour) }
	return s, owner, th
}

func TestExportThread_Owner(t *testing.T) {
	call := stubS3(t, nil, nil)
	s, owner, th := newExportFixture(t)

	url, err := s.ExportThread(context.Background(), models.Principal{UserID: owner.ID, Role: common.RoleMember}, th.ID)
	require.NoError(t, err)

	assert.Equal(t, "https://s3.local/"+call.key, url)
	assert.Equal(t, "transcripts", call.bucket)
	assert.Equal(t, ExportURLValidity, call.expires)

	var doc Transcript
	require.NoError(t, json.Unmarshal(call.body, &doc))
	assert.Equal(t, th.ID, doc.ThreadID)
	assert.Equal(t, owner.ID, doc.UserID)
	assert.True(t, doc.ExportedAt.Equal(t0.Add(time.Hour)))
	require.Len(t, doc.Exchanges, 2)
	assert.Equal(t, "first", doc.Exchanges[0].Question)
	assert.Equal(t, "re: second", doc.Exchanges[1].Answer)
}

func TestExportThread_Access(t *testing.T) {
	stubS3(t, nil, nil)
	s, owner, th := newExportFixture(t)
	ctx := context.Background()

	_, err := s.ExportThread(ctx, models.Principal{UserID: owner.ID + 1, Role: common.RoleAdmin}, th.ID)
	assert.NoError(t, err)

	_, err = s.ExportThread(ctx, models.Principal{UserID: owner.ID + 1, Role: common.RoleMember}, th.ID)
	assert.ErrorIs(t, err, common.ErrorForbidden)

	_, err = s.ExportThread(ctx, models.Principal{UserID: owner.ID, Role: common.RoleMember}, th.ID+100)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestExportThread_StorageErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("put", func(t *testing.T) {
		stubS3(t, errors.New("put-fail"), nil)
		s, owner, th := newExportFixture(t)
		_, err := s.ExportThread(ctx, models.Principal{UserID: owner.ID}, th.ID)
		assert.ErrorContains(t, err, "put-fail")
	})

	t.Run("presign", func(t *testing.T) {
		stubS3(t, nil, errors.New("presign-fail"))
		s, owner, th := newExportFixture(t)
		_, err := s.ExportThread(ctx, models.Principal{UserID: owner.ID}, th.ID)
		assert.ErrorContains(t, err, "presign-fail")
	})

	t.Run("config", func(t *testing.T) {
		stubS3(t, nil, nil)
		loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
			return aws.Config{}, errors.New("cfg-fail")
		}
		s, owner, th := newExportFixture(t)
		_, err := s.ExportThread(ctx, models.Principal{UserID: owner.ID}, th.ID)
		assert.ErrorContains(t, err, "cfg-fail")
	})
}

func TestTranscriptKey(t *testing.T) {
	re := regexp.MustCompile(`^threads/7/42/[0-9a-f-]{36}\.json$`)
	a, b := TranscriptKey(7, 42), TranscriptKey(7, 42)
	assert.Regexp(t, re, a)
	assert.NotEqual(t, a, b)
}
