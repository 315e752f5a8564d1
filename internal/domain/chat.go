package domain

// ChatMessage is one entry of a room transcript. Messages are immutable
// once appended; transcript order is broadcast order.
type ChatMessage struct {
	SenderID    string `json:"sender_id"`
	DisplayName string `json:"display_name"`
	Body        string `json:"body"`
}
