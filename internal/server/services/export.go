package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophchat/internal/common"
	"github.com/dmitrijs2005/gophchat/internal/logging"
	sc "github.com/dmitrijs2005/gophchat/internal/server/config"
	"github.com/dmitrijs2005/gophchat/internal/server/models"
	"github.com/dmitrijs2005/gophchat/internal/server/repositories/repomanager"
	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ExportURLValidity is how long a transcript download link stays valid.
const ExportURLValidity = 15 * time.Minute

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in, optFns...)
	}

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// Transcript is the JSON document written for an exported thread.
type Transcript struct {
	ThreadID       int64                `json:"thread_id"`
	UserID         int64                `json:"user_id"`
	CreatedAt      time.Time            `json:"created_at"`
	LastActivityAt time.Time            `json:"last_activity_at"`
	ExportedAt     time.Time            `json:"exported_at"`
	Exchanges      []TranscriptExchange `json:"exchanges"`
}

type TranscriptExchange struct {
	ID        int64     `json:"id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	CreatedAt time.Time `json:"created_at"`
}

// ExportService writes thread transcripts to S3-compatible object storage
// and hands out presigned download links. It only reads the thread store.
type ExportService struct {
	repomanager repomanager.Manager
	config      *sc.Config
	logger      logging.Logger
	now         func() time.Time
}

func NewExportService(m repomanager.Manager, cfg *sc.Config, logger logging.Logger) *ExportService {
	return &ExportService{
		repomanager: m,
		config:      cfg,
		logger:      logger.With("module", "export"),
		now:         time.Now,
	}
}

// TranscriptKey returns the object key for a new transcript of a thread.
func TranscriptKey(userID, threadID int64) string {
	return fmt.Sprintf("threads/%d/%d/%v.json", userID, threadID, uuid.New())
}

func (s *ExportService) getClient(ctx context.Context) (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	}), nil
}

// ExportThread uploads the transcript of threadID and returns a presigned
// GET URL for it. Owners and admins may export; others get
// common.ErrorForbidden. Unknown threads yield common.ErrorNotFound.
func (s *ExportService) ExportThread(ctx context.Context, p models.Principal, threadID int64) (string, error) {
	repos := s.repomanager.Repos()

	thread, err := repos.Threads.GetByID(ctx, threadID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", err
		}
		return "", fmt.Errorf("error loading thread: %w", err)
	}
	if thread.UserID != p.UserID && !p.IsAdmin() {
		return "", fmt.Errorf("%w: thread %d belongs to another user", common.ErrorForbidden, threadID)
	}

	exchanges, err := repos.Exchanges.ListByThread(ctx, threadID)
	if err != nil {
		return "", fmt.Errorf("error loading exchanges: %w", err)
	}

	body, err := json.Marshal(s.transcript(thread, exchanges))
	if err != nil {
		return "", fmt.Errorf("error encoding transcript: %w", err)
	}

	client, err := s.getClient(ctx)
	if err != nil {
		return "", err
	}

	bucket := s.config.S3Bucket
	key := TranscriptKey(thread.UserID, thread.ID)

	if _, err := putObject(client, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	}); err != nil {
		return "", fmt.Errorf("error uploading transcript: %w", err)
	}

	req, err := presignGetObject(newS3PresignClient(client), ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(ExportURLValidity))
	if err != nil {
		return "", fmt.Errorf("error presigning transcript: %w", err)
	}

	s.logger.Info(ctx, "thread exported", "thread_id", threadID, "principal", p.UserID, "key", key)
	return req.URL, nil
}

func (s *ExportService) transcript(t *models.Thread, exchanges []models.Exchange) Transcript {
	out := Transcript{
		ThreadID:       t.ID,
		UserID:         t.UserID,
		CreatedAt:      t.CreatedAt,
		LastActivityAt: t.LastActivityAt,
		ExportedAt:     s.now(),
		Exchanges:      make([]TranscriptExchange, 0, len(exchanges)),
	}
	for _, e := range exchanges {
		out.Exchanges = append(out.Exchanges, TranscriptExchange{
			ID:        e.ID,
			Question:  e.Question,
			Answer:    e.Answer,
			CreatedAt: e.CreatedAt,
		})
	}
	return out
}
