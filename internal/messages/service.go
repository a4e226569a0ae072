package messages

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/locallink/locallink-backend/internal/state"
	"github.com/locallink/locallink-backend/internal/users"
	pkgerrors "github.com/locallink/locallink-backend/pkg/errors"
)

// ErrEmptyMessageBody is returned for blank content.
var ErrEmptyMessageBody = pkgerrors.New(pkgerrors.CodeValidation, "message content is required")

// Service is the message log.
type Service interface {
	Send(ctx context.Context, sender users.User, receiverID, content string) (*Message, error)
	Conversation(ctx context.Context, a, b string) []Message
	Contacts(ctx context.Context, userID string) []string
	ReceivedCount(ctx context.Context, userID string) int
	Inbox(ctx context.Context, userID string) Inbox
}

type service struct {
	log   *state.Collection[Message]
	now   func() time.Time
	newID func() string
}

// NewService binds the message log to its collection.
func NewService(log *state.Collection[Message]) (Service, error) {
	if log == nil {
		return nil, fmt.Errorf("messages collection required")
	}
	return &service{log: log, now: time.Now, newID: uuid.NewString}, nil
}

func (s *service) Send(ctx context.Context, sender users.User, receiverID, content string) (*Message, error) {
	body := strings.TrimSpace(content)
	if body == "" {
		return nil, ErrEmptyMessageBody
	}
	receiverID = strings.TrimSpace(receiverID)
	if receiverID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "receiver is required")
	}
	msg := Message{
		ID:         s.newID(),
		SenderID:   sender.ID,
		ReceiverID: receiverID,
		Content:    body,
		Timestamp:  s.now().UnixMilli(),
		SenderName: sender.Name,
	}
	err := s.log.Update(ctx, func(all []Message) ([]Message, error) {
		return append(all, msg), nil
	})
	if err != nil && !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		return nil, err
	}
	return &msg, err
}

// Conversation returns messages between a and b, oldest first. Messages
// with equal timestamps keep their log order.
func (s *service) Conversation(_ context.Context, a, b string) []Message {
	var out []Message
	for _, msg := range s.log.Items() {
		if msg.Involves(a, b) {
			out = append(out, msg)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp < out[j].Timestamp })
	return out
}

// Contacts lists everyone userID has exchanged messages with, in the order
// they first appear in the log.
func (s *service) Contacts(_ context.Context, userID string) []string {
	seen := map[string]struct{}{}
	out := []string{}
	for _, msg := range s.log.Items() {
		var other string
		switch userID {
		case msg.SenderID:
			other = msg.ReceiverID
		case msg.ReceiverID:
			other = msg.SenderID
		default:
			continue
		}
		if _, ok := seen[other]; ok {
			continue
		}
		seen[other] = struct{}{}
		out = append(out, other)
	}
	return out
}

// ReceivedCount is the number of messages addressed to userID. There is no
// read tracking; the badge counts everything received.
func (s *service) ReceivedCount(_ context.Context, userID string) int {
	count := 0
	for _, msg := range s.log.Items() {
		if msg.ReceiverID == userID {
			count++
		}
	}
	return count
}

func (s *service) Inbox(ctx context.Context, userID string) Inbox {
	return Inbox{Contacts: s.Contacts(ctx, userID), ReceivedCount: s.ReceivedCount(ctx, userID)}
}
