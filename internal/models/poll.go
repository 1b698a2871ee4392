package models

import (
	"strings"
	"time"
)

// Poll types accepted by the API. Input is normalized to lowercase before the
// check, so "SINGLE" and "single" are the same type.
const (
	PollTypeSingle   = "single"
	PollTypeMultiple = "multiple"
	PollTypeText     = "text"
)

// Poll represents a votable item.
type Poll struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `json:"description"`
	AuthorID    uint      `gorm:"not null;index" json:"author_id"`
	CreatedAt   time.Time `json:"created_at"`
	StartAt     time.Time `json:"start_at"`
	FinishAt    time.Time `json:"finish_at"`
	PollType    string    `gorm:"not null;default:single" json:"poll_type"`
	Anonymously bool      `json:"anonymously"`
}

// ActiveAt reports whether the poll's voting window contains the given instant.
func (p *Poll) ActiveAt(now time.Time) bool {
	return !now.Before(p.StartAt) && now.Before(p.FinishAt)
}

// NormalizePollType lowercases the given poll type and reports whether it is
// one of the accepted values.
func NormalizePollType(pollType string) (string, bool) {
	normalized := strings.ToLower(pollType)
	switch normalized {
	case PollTypeSingle, PollTypeMultiple, PollTypeText:
		return normalized, true
	}
	return normalized, false
}

// PollPage is the list envelope returned by the poll listing endpoints.
type PollPage struct {
	Count   int64  `json:"count"`
	Next    string `json:"next"`
	Prev    string `json:"prev"`
	Results []Poll `json:"results"`
}
