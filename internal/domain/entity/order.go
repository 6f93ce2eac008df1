package entity

import "time"

// Order is a shipment arrangement between a sender and a traveling courier.
// A chat is attached server-side when the order is matched; clients never
// create chats themselves.
type Order struct {
	ID           string `json:"id" firestore:"id"`
	TrackingCode string `json:"tracking_code" firestore:"trackingCode"`
	SenderID     string `json:"sender_id" firestore:"senderId"`
	CourierID    string `json:"courier_id,omitempty" firestore:"courierId,omitempty"`
	FlightID     string `json:"flight_id,omitempty" firestore:"flightId,omitempty"`
	ChatID       string `json:"chat_id,omitempty" firestore:"chatId,omitempty"`

	Status string `json:"status" firestore:"status"` // "pending", "matched", "in_transit", "delivered", "cancelled"

	ItemType        string  `json:"item_type" firestore:"itemType"` // "document", "parcel"
	ItemDescription string  `json:"item_description" firestore:"itemDescription"`
	WeightKg        float64 `json:"weight_kg" firestore:"weightKg"`
	Reward          float64 `json:"reward" firestore:"reward"`

	OriginAirport      string `json:"origin_airport" firestore:"originAirport"`
	DestinationAirport string `json:"destination_airport" firestore:"destinationAirport"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}
