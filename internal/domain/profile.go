package domain

import "time"

// AccountType of a profile.
type AccountType string

const (
	AccountCarrier AccountType = "carrier"
	AccountShipper AccountType = "shipper"
	AccountBoth    AccountType = "both"
)

// Profile is locally stored supplementary information about an external
// identity. ExternalID is unique across profiles.
type Profile struct {
	ID          string      `json:"id" bson:"id"`
	ExternalID  string      `json:"supabase_id" bson:"supabase_id"`
	Email       string      `json:"email" bson:"email"`
	FullName    string      `json:"full_name" bson:"full_name"`
	Company     string      `json:"company" bson:"company"`
	AccountType AccountType `json:"user_type" bson:"user_type"`
	Phone       string      `json:"phone" bson:"phone"`
	TaxID       string      `json:"nif" bson:"nif"`
	AvatarURL   string      `json:"avatar_url" bson:"avatar_url"`
	CreatedAt   time.Time   `json:"created_at" bson:"created_at"`
}
