package models

import (
	"time"

	"github.com/gofrs/uuid"
)

// Comment is the unit of user text passed through the filter, both over HTTP
// and on the moderation topic.
type Comment struct {
	ID        uuid.UUID `bson:"_id" json:"id"`
	PostID    uuid.UUID `bson:"post_id" json:"post_id"`
	ParentID  uuid.UUID `bson:"parent_id,omitempty" json:"parent_id,omitempty"`
	Author    string    `bson:"author" json:"author"`
	Text      string    `bson:"text" json:"text"`
	Published time.Time `bson:"published" json:"published"`
}

// LogEntry is one access log record shipped to Kafka and indexed by logkeeper.
type LogEntry struct {
	Timestamp  time.Time `json:"timestamp"`
	IP         string    `json:"ip"`
	StatusCode int       `json:"status_code"`
	RequestID  string    `json:"request_id"`
	Method     string    `json:"method"`
	Path       string    `json:"path"`
	Duration   float64   `json:"duration_sec"`
	Service    string    `json:"service"`
	Redactions int       `json:"redactions"`
}
