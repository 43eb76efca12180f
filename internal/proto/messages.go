package proto

import "time"

type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

type Exchange struct {
	ID        int64     `json:"id"`
	ThreadID  int64     `json:"threadId"`
	UserID    int64     `json:"userId"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	CreatedAt time.Time `json:"createdAt"`
}

type Thread struct {
	ID             int64      `json:"id"`
	UserID         int64      `json:"userId"`
	LastActivityAt time.Time  `json:"lastActivityAt"`
	CreatedAt      time.Time  `json:"createdAt"`
	Exchanges      []Exchange `json:"exchanges"`
}

type PingRequest struct{}

type PingResponse struct {
	Status string `json:"status"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
	Role     string `json:"role,omitempty"`
}

type RegisterResponse struct {
	UserID int64 `json:"userId"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type RefreshTokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type LogoutRequest struct{}

type LogoutResponse struct{}

type ProfileRequest struct{}

type ProfileResponse struct {
	User User `json:"user"`
}

type AskRequest struct {
	Question string `json:"question"`
}

type AskResponse struct {
	Exchange Exchange `json:"exchange"`
}

// ListThreadsRequest mirrors the HTTP query parameters. Zero values select
// the defaults: sort desc, page 1, limit 10.
type ListThreadsRequest struct {
	UserIDs []int64 `json:"userIds,omitempty"`
	Sort    string  `json:"sort,omitempty"`
	Page    int     `json:"page,omitempty"`
	Limit   int     `json:"limit,omitempty"`
}

type ListThreadsResponse struct {
	Threads []Thread `json:"threads"`
}

type ExportThreadRequest struct {
	ThreadID int64 `json:"threadId"`
}

type ExportThreadResponse struct {
	URL string `json:"url"`
}
