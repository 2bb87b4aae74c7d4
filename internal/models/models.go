package models

import "time"

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement"  json:"id"`
	Name         string `gorm:"not null"                  json:"name"`
	Email        string `gorm:"uniqueIndex;not null"      json:"email"`
	PasswordHash string `gorm:"column:password;not null"  json:"-"`
}

type AccessToken struct {
	ID         uint       `gorm:"primaryKey"                  json:"id"`
	UserID     uint       `gorm:"index;not null"              json:"user_id"`
	JTI        string     `gorm:"uniqueIndex;not null"        json:"jti"`
	Hash       string     `gorm:"uniqueIndex;not null"        json:"-"`
	Abilities  string     `gorm:"not null"                    json:"abilities"`
	ExpiresAt  time.Time  `gorm:"not null"                    json:"expires_at"`
	LastUsedAt *time.Time `json:"last_used_at"`
	CreatedAt  time.Time  `json:"created_at"`

	User *User `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (AccessToken) TableName() string { return "auth_access_tokens" }

type Customer struct {
	ID    uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name  string `gorm:"not null"                 json:"name"`
	Email string `gorm:"uniqueIndex;not null"     json:"email"`
}

type Favorite struct {
	ID         uint      `gorm:"primaryKey;autoIncrement"                            json:"id"`
	CustomerID uint      `gorm:"not null;uniqueIndex:idx_favorites_customer_product" json:"customer_id"`
	ProductID  uint      `gorm:"not null;uniqueIndex:idx_favorites_customer_product" json:"product_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// Only used by AutoMigrate to emit the foreign key.
	Customer *Customer `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// All lists every table in migration order.
func All() []any {
	return []any{&User{}, &AccessToken{}, &Customer{}, &Favorite{}}
}
