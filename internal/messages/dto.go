package messages

// Message is a directed, immutable note between two users. SenderName is
// captured when the message is sent.
type Message struct {
	ID         string `json:"id"`
	SenderID   string `json:"senderId"`
	ReceiverID string `json:"receiverId"`
	Content    string `json:"content"`
	Timestamp  int64  `json:"timestamp"`
	SenderName string `json:"senderName"`
}

// Involves reports whether the message is between a and b in either
// direction.
func (m Message) Involves(a, b string) bool {
	return (m.SenderID == a && m.ReceiverID == b) || (m.SenderID == b && m.ReceiverID == a)
}

// Inbox is the contact list with the received-message badge.
type Inbox struct {
	Contacts      []string `json:"contacts"`
	ReceivedCount int      `json:"receivedCount"`
}
