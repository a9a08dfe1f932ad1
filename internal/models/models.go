package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement"   json:"id"`
	FullName     string    `gorm:"size:100;not null"          json:"full_name"`
	Email        string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Phone        string    `gorm:"size:20"                    json:"phone"`
	PasswordHash string    `gorm:"size:100;not null"          json:"-"`
	Role         string    `gorm:"size:20;not null;default:user" json:"role"`
	Active       bool      `gorm:"not null;default:true"      json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type RefreshToken struct {
	ID        uint   `gorm:"primaryKey"          json:"id"`
	Token     string `gorm:"uniqueIndex;not null" json:"-"`
	UserID    uint   `gorm:"index;not null"      json:"user_id"`
	JTI       string `gorm:"uniqueIndex;not null" json:"jti"`
	ExpiresAt int64  `gorm:"not null"            json:"expires_at"`
	Revoked   bool   `gorm:"not null;default:false" json:"revoked"`
}

type Category struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Code        string    `gorm:"size:10;uniqueIndex;not null"  json:"code"`
	Description string    `gorm:"type:text"                json:"description"`
	Active      bool      `gorm:"not null;default:true"    json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Product struct {
	ID          uint            `gorm:"primaryKey;autoIncrement"     json:"id"`
	Name        string          `gorm:"size:100;not null"            json:"name"`
	Code        string          `gorm:"size:50;uniqueIndex;not null" json:"code"`
	Description string          `gorm:"type:text"                    json:"description"`
	Price       decimal.Decimal `gorm:"type:numeric(10,2);not null"  json:"price"`
	Stock       int             `gorm:"not null;default:0;check:stock >= 0" json:"stock"`
	MinStock    int             `gorm:"not null;default:0"           json:"min_stock"`
	CategoryID  uint            `gorm:"index;not null"               json:"category_id"`
	Active      bool            `gorm:"not null;default:true"        json:"active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type Order struct {
	ID            uint            `gorm:"primaryKey;autoIncrement"    json:"id"`
	UserID        uint            `gorm:"index;not null"              json:"user_id"`
	Total         decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total"`
	Status        int             `gorm:"not null;default:0"          json:"status"`
	PaymentMethod string          `gorm:"size:20"                     json:"payment_method"`
	Observations  string          `gorm:"type:text"                   json:"observations"`

	// Payment fields live on their own axis and are written only by the
	// payment initiation path and the webhook reconciler.
	PaymentID        string     `gorm:"size:64;index" json:"payment_id"`
	PaymentStatus    string     `gorm:"size:20;not null;default:pending" json:"payment_status"`
	PaymentUpdatedAt *time.Time `json:"payment_updated_at"`

	Items     []OrderItem `gorm:"constraint:OnDelete:CASCADE" json:"items,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

type OrderItem struct {
	ID        uint            `gorm:"primaryKey;autoIncrement"    json:"id"`
	OrderID   uint            `gorm:"index;not null"              json:"order_id"`
	ProductID uint            `gorm:"index;not null"              json:"product_id"`
	Quantity  int             `gorm:"not null;check:quantity > 0" json:"quantity"`
	// Price is snapshotted at order creation and never rewritten.
	Price     decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	CreatedAt time.Time       `json:"created_at"`
}

type OrderStatus struct {
	StatusID    int    `gorm:"primaryKey"        json:"status_id"`
	Name        string `gorm:"size:50;not null"  json:"name"`
	Description string `gorm:"size:200"          json:"description"`
}

type PushSubscription struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint      `gorm:"index;not null"           json:"user_id"`
	Endpoint  string    `gorm:"type:text;not null"       json:"endpoint"`
	P256dh    string    `gorm:"type:text;not null"       json:"p256dh"`
	Auth      string    `gorm:"type:text;not null"       json:"auth"`
	UserAgent string    `gorm:"size:200"                 json:"user_agent"`
	CreatedAt time.Time `json:"created_at"`
}
