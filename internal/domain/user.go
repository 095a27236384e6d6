package domain

import (
	"context"
	"errors"
	"time"
)

// Roles a user can register with. Auctioneers additionally carry
// payment details, see PaymentMethods.
const (
	RoleBidder     = "Bidder"
	RoleAuctioneer = "Auctioneer"
)

// ErrEmailTaken is returned by UserRepository.Create when the unique
// email index rejects the insert.
var ErrEmailTaken = errors.New("email already taken")

// ProfileImage is the externally hosted avatar: the object-store key and
// the URL it can be fetched from. JSON field names follow the public API.
type ProfileImage struct {
	PublicID string `gorm:"column:profile_image_public_id;size:191" json:"public_id"`
	URL      string `gorm:"column:profile_image_url;size:512" json:"url"`
}

type BankTransfer struct {
	BankAccountNumber string `gorm:"size:64" json:"bankAccountNumber,omitempty"`
	BankAccountName   string `gorm:"size:128" json:"bankAccountName,omitempty"`
	BankName          string `gorm:"size:128" json:"bankName,omitempty"`
}

type Easypaisa struct {
	EasypaisaAccountNumber string `gorm:"size:64" json:"easypaisaAccountNumber,omitempty"`
}

type Paypal struct {
	PaypalEmail string `gorm:"size:191" json:"paypalEmail,omitempty"`
}

// PaymentMethods is stored for every user; the sub-structs are only
// populated when the role is Auctioneer.
type PaymentMethods struct {
	BankTransfer BankTransfer `gorm:"embedded" json:"bankTransfer"`
	Easypaisa    Easypaisa    `gorm:"embedded" json:"easypaisa"`
	Paypal       Paypal       `gorm:"embedded" json:"paypal"`
}

// User is the sole persisted entity. Email carries a unique index so the
// store, not the pre-check query, is the final arbiter on duplicates.
type User struct {
	ID             string         `gorm:"primaryKey;size:36" json:"id"`
	UserName       string         `gorm:"size:64;not null" json:"userName"`
	Email          string         `gorm:"uniqueIndex;size:191;not null" json:"email"`
	PasswordHash   string         `gorm:"size:100;not null" json:"-"`
	Phone          string         `gorm:"size:32;not null" json:"phone"`
	Address        string         `gorm:"size:255;not null" json:"address"`
	Role           string         `gorm:"size:16;not null" json:"role"`
	ProfileImage   ProfileImage   `gorm:"embedded" json:"profileImage"`
	PaymentMethods PaymentMethods `gorm:"embedded" json:"paymentMethods"`
	MoneySpent     float64        `gorm:"not null;default:0" json:"moneySpent"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

func (User) TableName() string { return "users" }

// LeaderboardEntry is the projection served by the leaderboard query.
type LeaderboardEntry struct {
	UserName   string  `json:"userName"`
	MoneySpent float64 `json:"moneySpent"`
}

// UserRepository is the credential store contract. Find methods return
// (nil, nil) when no record matches.
type UserRepository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	Leaderboard(ctx context.Context) ([]LeaderboardEntry, error)
}
