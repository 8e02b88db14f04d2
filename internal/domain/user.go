package domain

import (
	"time"

	"github.com/google/uuid"
)

// User maps a stable internal identity to an external chat handle.
// The matching core only reads ChatID to address notifications.
type User struct {
	ID        uuid.UUID
	ChatID    int64
	CreatedAt time.Time
}
