package model

import (
	"time"

	"github.com/google/uuid"
)

type Message struct {
	ID         uuid.UUID `db:"id" json:"id"`
	SenderID   uuid.UUID `db:"sender_id" json:"sender"`
	ReceiverID uuid.UUID `db:"receiver_id" json:"receiver"`
	Content    string    `db:"content" json:"content"`
	Timestamp  time.Time `db:"timestamp" json:"timestamp"`
	IsRead     bool      `db:"is_read" json:"is_read"`
}

type SendMessageRequest struct {
	Content string `json:"content" binding:"required,max=5000"`
}
