package marketplace

import (
	"context"

	"github.com/locallink/locallink-backend/internal/messages"
	"github.com/locallink/locallink-backend/internal/preferences"
	"github.com/locallink/locallink-backend/internal/recommendations"
)

// Contact is a conversation partner as shown in the inbox.
type Contact struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role,omitempty"`
}

// Inbox is the signed-in user's contact list and received-message badge.
type Inbox struct {
	Contacts      []Contact `json:"contacts"`
	ReceivedCount int       `json:"receivedCount"`
}

func (m *Marketplace) SendMessage(ctx context.Context, receiverID, content string) (msg *messages.Message, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	defer func() { m.observe("messages.send", err) }()
	actor, err := m.actor()
	if err != nil {
		return nil, err
	}
	return m.messages.Send(ctx, actor, receiverID, content)
}

// Conversation returns the thread between the signed-in user and otherID,
// oldest first.
func (m *Marketplace) Conversation(ctx context.Context, otherID string) ([]messages.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	actor, err := m.actor()
	if err != nil {
		return nil, err
	}
	return m.messages.Conversation(ctx, actor.ID, otherID), nil
}

func (m *Marketplace) Inbox(ctx context.Context) (*Inbox, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	actor, err := m.actor()
	if err != nil {
		return nil, err
	}
	raw := m.messages.Inbox(ctx, actor.ID)
	inbox := &Inbox{Contacts: make([]Contact, 0, len(raw.Contacts)), ReceivedCount: raw.ReceivedCount}
	for _, id := range raw.Contacts {
		contact := Contact{ID: id, Name: id}
		if acct, err := m.users.FindByID(ctx, id); err == nil {
			contact.Name = acct.Name
			contact.Role = acct.Role.String()
		}
		inbox.Contacts = append(inbox.Contacts, contact)
	}
	return inbox, nil
}

// Recommend runs outside the state lock; the catalog it reads is a copy.
func (m *Marketplace) Recommend(ctx context.Context, query string) (r *recommendations.Result, err error) {
	defer func() { m.observe("recommendations.recommend", err) }()
	return m.recommendations.Recommend(ctx, query)
}

func (m *Marketplace) Preferences(ctx context.Context) preferences.Preferences {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.preferences.Get(ctx)
}

func (m *Marketplace) SetDarkMode(ctx context.Context, enabled bool) (p preferences.Preferences, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	defer func() { m.observe("preferences.set_dark_mode", err) }()
	return m.preferences.SetDarkMode(ctx, enabled)
}
