package entity

import "time"

// Notification types. The route table in the notification usecase maps each
// type to a client screen.
const (
	NotificationTypeMessage      = "message"
	NotificationTypeOrderStatus  = "order_status"
	NotificationTypeFlightStatus = "flight_status"
	NotificationTypeRequest      = "request"
	NotificationTypeKyc          = "kyc"
)

type Notification struct {
	ID     string `json:"id" firestore:"id"`
	UserID string `json:"user_id" firestore:"userId"`
	Type   string `json:"type" firestore:"type"`
	Title  string `json:"title" firestore:"title"`
	Body   string `json:"body" firestore:"body"`

	Data map[string]interface{} `json:"data,omitempty" firestore:"data,omitempty"`
	Read bool                   `json:"read" firestore:"read"`

	CreatedAt time.Time `json:"timestamp" firestore:"createdAt"`
}
