package entity

import "time"

// Message is append-only; the server assigns CreatedAt on write and clients
// never mutate or delete messages.
type Message struct {
	ID          string `json:"id" firestore:"id"`
	ChatID      string `json:"chat_id" firestore:"chatId"`
	SenderID    string `json:"sender_id" firestore:"senderId"`
	RecipientID string `json:"to" firestore:"to"`

	Text     string `json:"text,omitempty" firestore:"text,omitempty"`
	ImageURL string `json:"image_url,omitempty" firestore:"imageUrl,omitempty"`
	FileURL  string `json:"file_url,omitempty" firestore:"fileUrl,omitempty"`
	FileName string `json:"file_name,omitempty" firestore:"fileName,omitempty"`
	FileType string `json:"file_type,omitempty" firestore:"fileType,omitempty"`

	CreatedAt time.Time `json:"timestamp" firestore:"createdAt"`
}

// Empty reports whether the message carries no payload at all. Empty sends
// are dropped before any write happens.
func (m *Message) Empty() bool {
	return m.Text == "" && m.ImageURL == "" && m.FileURL == ""
}
