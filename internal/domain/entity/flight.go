package entity

import "time"

// Flight is a courier's declared trip that orders can be matched against.
type Flight struct {
	ID                 string    `json:"id" firestore:"id"`
	CourierID          string    `json:"courier_id" firestore:"courierId"`
	Airline            string    `json:"airline" firestore:"airline"`
	FlightNumber       string    `json:"flight_number" firestore:"flightNumber"`
	OriginAirport      string    `json:"origin_airport" firestore:"originAirport"`
	DestinationAirport string    `json:"destination_airport" firestore:"destinationAirport"`
	DepartureAt        time.Time `json:"departure_at" firestore:"departureAt"`
	CapacityKg         float64   `json:"capacity_kg" firestore:"capacityKg"`
	Status             string    `json:"status" firestore:"status"` // "open", "departed", "completed", "cancelled"

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}
