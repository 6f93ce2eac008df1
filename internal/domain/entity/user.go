package entity

import "time"

type User struct {
	ID       string `json:"id" firestore:"id"`
	Email    string `json:"email" firestore:"email"`
	Username string `json:"username" firestore:"username"`
	Phone    string `json:"phone" firestore:"phone"`
	Bio      string `json:"bio,omitempty" firestore:"bio,omitempty"`
	Role     string `json:"role" firestore:"role"`     // "user", "admin"
	Status   string `json:"status" firestore:"status"` // "active", "suspended"

	FullName           string    `json:"full_name,omitempty" firestore:"fullName,omitempty"`
	Address            string    `json:"address,omitempty" firestore:"address,omitempty"`
	DateOfBirth        time.Time `json:"date_of_birth,omitempty" firestore:"dateOfBirth,omitempty"`
	IdNumber           string    `json:"id_number,omitempty" firestore:"idNumber,omitempty"`
	IdCardImage        string    `json:"id_card_image,omitempty" firestore:"idCardImage,omitempty"`
	VerificationStatus string    `json:"verification_status" firestore:"verificationStatus"` // "unverified", "pending", "verified", "rejected"

	AvatarURL     string `json:"avatar_url,omitempty" firestore:"avatarURL,omitempty"`
	ExpoPushToken string `json:"expo_push_token,omitempty" firestore:"expoPushToken,omitempty"`

	// Presence is a last-writer-wins pair of fields; readers treat a fresh
	// lastSeen as online even after the flag was cleared.
	Online   bool      `json:"online" firestore:"online"`
	LastSeen time.Time `json:"last_seen" firestore:"lastSeen"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}
