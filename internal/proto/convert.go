package proto

import "github.com/dmitrijs2005/gophchat/internal/server/models"

func UserFromModel(u *models.User) User {
	return User{ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role, CreatedAt: u.CreatedAt}
}

func ExchangeFromModel(e *models.Exchange) Exchange {
	return Exchange{
		ID:        e.ID,
		ThreadID:  e.ThreadID,
		UserID:    e.UserID,
		Question:  e.Question,
		Answer:    e.Answer,
		CreatedAt: e.CreatedAt,
	}
}

// ThreadsFromModel converts listed threads. The result and every Exchanges
// slice are non-nil so they encode as [] rather than null.
func ThreadsFromModel(ts []models.Thread) []Thread {
	out := make([]Thread, 0, len(ts))
	for _, t := range ts {
		th := Thread{
			ID:             t.ID,
			UserID:         t.UserID,
			LastActivityAt: t.LastActivityAt,
			CreatedAt:      t.CreatedAt,
			Exchanges:      make([]Exchange, 0, len(t.Exchanges)),
		}
		for i := range t.Exchanges {
			th.Exchanges = append(th.Exchanges, ExchangeFromModel(&t.Exchanges[i]))
		}
		out = append(out, th)
	}
	return out
}
