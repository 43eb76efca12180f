// Package models defines server-side data models persisted in the database.
package models

import (
	"time"

	"github.com/dmitrijs2005/gophchat/internal/common"
)

type User struct {
	ID           int64
	Email        string
	Name         string
	PasswordHash []byte
	Role         string
	CreatedAt    time.Time
}

// Principal is the authenticated caller of an operation.
type Principal struct {
	UserID int64
	Role   string
}

// IsAdmin reports whether the principal may read other users' threads.
func (p Principal) IsAdmin() bool {
	return p.Role == common.RoleAdmin
}
