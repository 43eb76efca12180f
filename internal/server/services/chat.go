package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/gophchat/internal/common"
	"github.com/dmitrijs2005/gophchat/internal/logging"
	"github.com/dmitrijs2005/gophchat/internal/server/config"
	"github.com/dmitrijs2005/gophchat/internal/server/conversation"
	"github.com/dmitrijs2005/gophchat/internal/server/llm"
	"github.com/dmitrijs2005/gophchat/internal/server/models"
	"github.com/dmitrijs2005/gophchat/internal/server/repositories/repomanager"
)

// MaxQuestionLength is the longest question, in runes, SubmitQuestion accepts.
const MaxQuestionLength = 8000

// ChatService records question/answer exchanges, grouping each user's
// messages into threads. A message extends the user's most recently active
// thread when that thread saw activity within the active window, otherwise
// it opens a new one.
//
// Every submission for a user runs under that user's exclusive lock, held
// from thread resolution until commit, so concurrent submissions are
// serialized and never create two active threads.
type ChatService struct {
	repomanager       repomanager.Manager
	generator         llm.Generator
	logger            logging.Logger
	activeWindow      time.Duration
	lockTimeout       time.Duration
	generationTimeout time.Duration
	now               func() time.Time
}

func NewChatService(m repomanager.Manager, g llm.Generator, cfg *config.Config, logger logging.Logger) *ChatService {
	return &ChatService{
		repomanager:       m,
		generator:         g,
		logger:            logger.With("module", "chat"),
		activeWindow:      cfg.ActiveWindow,
		lockTimeout:       cfg.LockTimeout,
		generationTimeout: cfg.GenerationTimeout,
		now:               time.Now,
	}
}

// WithClock replaces the clock used for activity timestamps.
func (s *ChatService) WithClock(now func() time.Time) *ChatService {
	s.now = now
	return s
}

// SubmitQuestion answers question in the context of the user's active
// thread and records the exchange.
//
// Errors: common.ErrorValidation for an empty or oversized question,
// common.ErrorNotFound for an unknown user, common.ErrBusy when the user's
// lock is not obtained within the lock timeout, common.ErrTimeout when the
// generator does not answer in time and common.ErrGenerationFailed when it
// fails. On any error nothing is persisted, including a thread created for
// this submission.
func (s *ChatService) SubmitQuestion(ctx context.Context, userID int64, question string) (*models.Exchange, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("%w: question must not be empty", common.ErrorValidation)
	}
	if utf8.RuneCountInString(question) > MaxQuestionLength {
		return nil, fmt.Errorf("%w: question exceeds %d characters", common.ErrorValidation, MaxQuestionLength)
	}

	var (
		result    *models.Exchange
		newThread bool
	)

	err := s.repomanager.WithTx(ctx, func(ctx context.Context, r repomanager.Repositories) error {
		if _, err := r.Users.GetByID(ctx, userID); err != nil {
			return err
		}
		if err := r.Users.LockByID(ctx, userID, s.lockTimeout); err != nil {
			return err
		}

		// Read the clock only once the lock is held, so a waiter sees the
		// activity of the holder it waited for.
		now := s.now()

		thread, created, err := s.resolveThread(ctx, r, userID, now)
		if err != nil {
			return err
		}
		newThread = created

		history, err := r.Exchanges.ListByThread(ctx, thread.ID)
		if err != nil {
			return err
		}

		answer, err := s.generate(ctx, conversation.BuildContext(history).WithQuestion(question))
		if err != nil {
			return err
		}

		ex, err := r.Exchanges.Create(ctx, &models.Exchange{
			ThreadID:  thread.ID,
			UserID:    userID,
			Question:  question,
			Answer:    answer,
			CreatedAt: now,
		})
		if err != nil {
			return err
		}

		if err := r.Threads.Touch(ctx, thread.ID, now); err != nil {
			return err
		}

		result = ex
		return nil
	})
	if err != nil {
		s.logger.Warn(ctx, "question not recorded", "user_id", userID, "error", err.Error(), "retryable", common.IsRetryable(err))
		return nil, err
	}

	s.logger.Info(ctx, "exchange recorded", "user_id", userID, "thread_id", result.ThreadID, "exchange_id", result.ID, "new_thread", newThread)
	return result, nil
}

// resolveThread returns the user's active thread at now, creating one when
// there is none. The caller must hold the user's lock.
func (s *ChatService) resolveThread(ctx context.Context, r repomanager.Repositories, userID int64, now time.Time) (*models.Thread, bool, error) {
	thread, err := r.Threads.FindActive(ctx, userID, now.Add(-s.activeWindow))
	if err == nil {
		return thread, false, nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, false, err
	}

	thread, err = r.Threads.Create(ctx, userID, now)
	if err != nil {
		return nil, false, err
	}
	return thread, true, nil
}

func (s *ChatService) generate(ctx context.Context, messages []llm.Message) (string, error) {
	gctx := ctx
	if s.generationTimeout > 0 {
		var cancel context.CancelFunc
		gctx, cancel = context.WithTimeout(ctx, s.generationTimeout)
		defer cancel()
	}

	answer, err := s.generator.Generate(gctx, messages)
	if err == nil {
		return answer, nil
	}

	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(gctx.Err(), context.DeadlineExceeded) {
		return "", fmt.Errorf("%w: no answer within %s", common.ErrTimeout, s.generationTimeout)
	}
	return "", fmt.Errorf("%w: %v", common.ErrGenerationFailed, err)
}
