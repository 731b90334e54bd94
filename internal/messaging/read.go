package messaging

import (
	"errors"
	"strings"
	"time"
)

var errMissingCounterparty = errors.New("counterparty ID cannot be empty")

// UnreadFrom returns the ids of messages viewerID received from
// counterpartyID that have not been read yet.
func UnreadFrom(messages []Message, viewerID, counterpartyID string) []string {
	var ids []string
	for _, m := range messages {
		if m.SenderID == counterpartyID && m.IsUnreadFor(viewerID) {
			ids = append(ids, m.ID)
		}
	}
	return ids
}

// MarkThreadRead stamps at on every unread message viewerID received from
// counterpartyID and returns the number of messages changed. Messages from
// other counterparties are never touched, and a second call returns 0.
func MarkThreadRead(messages []Message, viewerID, counterpartyID string, at time.Time) (int, error) {
	viewerID, err := requireViewer(viewerID)
	if err != nil {
		return 0, err
	}
	counterpartyID = strings.TrimSpace(counterpartyID)
	if counterpartyID == "" {
		return 0, invalidArgument(errMissingCounterparty)
	}

	count := 0
	for i := range messages {
		m := &messages[i]
		if m.SenderID != counterpartyID || !m.IsUnreadFor(viewerID) {
			continue
		}
		readAt := at
		m.ReadAt = &readAt
		count++
	}
	return count, nil
}
