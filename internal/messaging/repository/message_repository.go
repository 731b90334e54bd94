package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"venuehub/internal/dbmysql"
	"venuehub/internal/messaging"
)

// MessageRepository is the gorm-backed messaging.MessageStore.
type MessageRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db, now: time.Now}
}

func (r *MessageRepository) FetchReceived(ctx context.Context, viewerID string) ([]messaging.Message, error) {
	var rows []dbmysql.Message
	err := r.db.WithContext(ctx).
		Where("receiver_id = ?", viewerID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toDomain(rows), nil
}

func (r *MessageRepository) FetchAllInvolving(ctx context.Context, viewerID string) ([]messaging.Message, error) {
	var rows []dbmysql.Message
	err := r.db.WithContext(ctx).
		Where("sender_id = ? OR receiver_id = ?", viewerID, viewerID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toDomain(rows), nil
}

func (r *MessageRepository) Insert(ctx context.Context, senderID, receiverID, content string) (messaging.Message, error) {
	row := dbmysql.Message{
		ID:         uuid.NewString(),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
		CreatedAt:  r.now().UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return messaging.Message{}, err
	}
	return fromRow(row), nil
}

// MarkRead only touches rows that are still unread, so the returned count is
// the number of messages whose state actually changed.
func (r *MessageRepository) MarkRead(ctx context.Context, ids []string, at time.Time) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Model(&dbmysql.Message{}).
		Where("id IN ? AND read_at IS NULL", ids).
		Update("read_at", at)
	if res.Error != nil {
		return 0, res.Error
	}
	return int(res.RowsAffected), nil
}

func toDomain(rows []dbmysql.Message) []messaging.Message {
	out := make([]messaging.Message, 0, len(rows))
	for _, row := range rows {
		out = append(out, fromRow(row))
	}
	return out
}

func fromRow(row dbmysql.Message) messaging.Message {
	return messaging.Message{
		ID:         row.ID,
		SenderID:   row.SenderID,
		ReceiverID: row.ReceiverID,
		Content:    row.Content,
		CreatedAt:  row.CreatedAt,
		ReadAt:     row.ReadAt,
	}
}
