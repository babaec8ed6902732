// Package userlog records login and logout events. Entries are append-only;
// nothing in the system updates or deletes them.
package userlog

import (
	"time"

	"github.com/google/uuid"
)

// Actions recorded in the log.
const (
	ActionLogin  = "login"
	ActionLogout = "logout"
)

// Entry is one immutable login/logout event.
type Entry struct {
	ID        int64     `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	Username  string    `json:"username"`
	Action    string    `json:"action"`
	IP        string    `json:"ip"`
	UserAgent string    `json:"userAgent"`
	CreatedAt time.Time `json:"createdAt"`
}
