package memory

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophchat/internal/common"
	"github.com/dmitrijs2005/gophchat/internal/server/models"
)

type RefreshTokensRepository struct {
	v view
}

func (r *RefreshTokensRepository) Create(_ context.Context, userID int64, token string, validity time.Duration) error {
	if err := r.v.check(); err != nil {
		return err
	}
	s := r.v.s
	now := s.Now()
	rt := models.RefreshToken{UserID: userID, Token: token, Expires: now.Add(validity), CreatedAt: now}

	if tx := r.v.tx; tx != nil {
		delete(tx.deletedTokens, token)
		tx.tokens[token] = rt
		return nil
	}

	s.mu.Lock()
	s.tokens[token] = rt
	s.mu.Unlock()
	return nil
}

func (r *RefreshTokensRepository) Find(_ context.Context, token string) (*models.RefreshToken, error) {
	if err := r.v.check(); err != nil {
		return nil, err
	}
	if tx := r.v.tx; tx != nil {
		if rt, ok := tx.tokens[token]; ok {
			return &rt, nil
		}
		if _, ok := tx.deletedTokens[token]; ok {
			return nil, common.ErrorNotFound
		}
	}

	s := r.v.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	rt, ok := s.tokens[token]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &rt, nil
}

func (r *RefreshTokensRepository) Delete(ctx context.Context, token string) error {
	if err := r.v.check(); err != nil {
		return err
	}
	if tx := r.v.tx; tx != nil {
		if _, err := r.Find(ctx, token); err != nil {
			return err
		}
		delete(tx.tokens, token)
		tx.deletedTokens[token] = struct{}{}
		return nil
	}

	s := r.v.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tokens[token]; !ok {
		return common.ErrorNotFound
	}
	delete(s.tokens, token)
	return nil
}

func (r *RefreshTokensRepository) DeleteByUser(_ context.Context, userID int64) error {
	if err := r.v.check(); err != nil {
		return err
	}
	s := r.v.s

	if tx := r.v.tx; tx != nil {
		for tok, rt := range tx.tokens {
			if rt.UserID == userID {
				delete(tx.tokens, tok)
			}
		}
		s.mu.RLock()
		for tok, rt := range s.tokens {
			if rt.UserID == userID {
				tx.deletedTokens[tok] = struct{}{}
			}
		}
		s.mu.RUnlock()
		return nil
	}

	s.mu.Lock()
	for tok, rt := range s.tokens {
		if rt.UserID == userID {
			delete(s.tokens, tok)
		}
	}
	s.mu.Unlock()
	return nil
}
