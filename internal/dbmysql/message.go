package dbmysql

import (
	"time"
)

// Message is one row of the messages table. Rows written by older clients
// may lack sender, receiver or created_at, so readers validate them.
type Message struct {
	ID         string     `gorm:"primaryKey;size:36" json:"id"`
	SenderID   string     `gorm:"index:idx_messages_sender;size:36" json:"sender_id"`
	ReceiverID string     `gorm:"index:idx_messages_receiver;size:36" json:"receiver_id"`
	Content    string     `gorm:"type:text;not null" json:"content"`
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
	ReadAt     *time.Time `json:"read_at,omitempty"`
}

func (Message) TableName() string {
	return "messages"
}
