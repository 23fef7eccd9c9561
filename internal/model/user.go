package model

import "time"

// User is an account together with its translation quota.
// PasswordHash is never serialized.
type User struct {
	ID             string         `json:"id"`
	FirstName      string         `json:"firstName"`
	LastName       string         `json:"lastName"`
	Email          string         `json:"email"`
	PasswordHash   string         `json:"-"`
	CharacterLimit int64          `json:"characterLimit"`
	PageLimit      int            `json:"pageLimit"`
	FileSizeLimit  int64          `json:"fileSizeLimit"`
	Subscriptions  []Subscription `json:"subscriptions"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

// Subscription records a checkout session started by a user.
type Subscription struct {
	ID                   string    `json:"id"`
	UserID               string    `json:"userId"`
	StripeSubscriptionID string    `json:"stripeSubscriptionId"`
	Status               string    `json:"status"`
	PriceID              string    `json:"priceId"`
	CurrentPeriodStart   time.Time `json:"currentPeriodStart"`
	CurrentPeriodEnd     time.Time `json:"currentPeriodEnd"`
	CreatedAt            time.Time `json:"createdAt"`
}
