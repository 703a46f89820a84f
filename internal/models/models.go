package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Category struct {
	ID    uint   `gorm:"primaryKey;autoIncrement"        json:"id"`
	Label string `gorm:"not null"                        json:"label"`
	Value string `gorm:"uniqueIndex;not null"            json:"value"`
	Unit  Unit   `gorm:"type:varchar(16);not null"       json:"unit"`
}

type Product struct {
	ID           uint            `gorm:"primaryKey;autoIncrement"          json:"id"`
	Label        string          `gorm:"not null"                          json:"label"`
	Name         string          `gorm:"not null"                          json:"name"`
	PricePerUnit decimal.Decimal `gorm:"type:decimal(10,2);not null"       json:"pricePerUnit"`
	Unit         Unit            `gorm:"type:varchar(16);not null"         json:"unit"`
	CategoryID   uint            `gorm:"index;not null"                    json:"categoryId"`
	IsActive     bool            `gorm:"not null;default:true;index"       json:"isActive"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`

	Category Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT" json:"category"`
}

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string `gorm:"uniqueIndex;not null"     json:"username"`
	PasswordHash string `gorm:"not null"                 json:"-"`
	Role         string `gorm:"not null;default:user"    json:"role"`
}

type RefreshToken struct {
	ID        uint   `gorm:"primaryKey"            json:"id"`
	Role      string `gorm:"not null"              json:"role"`
	Token     string `gorm:"uniqueIndex;not null"  json:"token"`
	UserID    uint   `gorm:"index;not null"        json:"user_id"`
	JTI       string `gorm:"uniqueIndex;not null"  json:"jti"`
	ExpiresAt int64  `gorm:"not null"              json:"expires_at"`
	Revoked   bool   `gorm:"default:false"         json:"revoked"`
}

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// All returns every model the schema migration must create.
func All() []any {
	return []any{&Category{}, &Product{}, &User{}, &RefreshToken{}}
}
