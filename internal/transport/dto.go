package transport

import "github.com/shopspring/decimal"

type RegisterRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type CreateCategoryRequest struct {
	Name        string `json:"name"`
	Code        string `json:"code"`
	Description string `json:"description"`
}

type CreateProductRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	CategoryID  uint            `json:"category_id"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	MinStock    int             `json:"min_stock"`
}

type PatchProductRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	MinStock    *int             `json:"min_stock"`
	Active      *bool            `json:"active"`
}

type AdjustStockRequest struct {
	Stock int `json:"stock"`
}

type CreateOrderItem struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

type CreateOrderRequest struct {
	Items         []CreateOrderItem `json:"items"`
	PaymentMethod string            `json:"payment_method"`
	Observations  string            `json:"observations"`
	// Total is the client-computed sum, re-verified server side.
	Total decimal.Decimal `json:"total"`
}

type CreateOrderResponse struct {
	OrderID uint `json:"order_id"`
}

type UpdateOrderStatusRequest struct {
	StatusID int `json:"status_id"`
}

type NextStatusesResponse struct {
	Current int   `json:"current"`
	Allowed []int `json:"allowed"`
}

type StartPaymentRequest struct {
	OrderID uint   `json:"order_id"`
	Method  string `json:"method"`
}

type CardPaymentResponse struct {
	PaymentID  string `json:"payment_id"`
	PaymentURL string `json:"payment_url"`
}

type PixPaymentResponse struct {
	TransactionID  string `json:"transaction_id"`
	QRCode         string `json:"qr_code"`
	QRCodeBase64   string `json:"qr_code_base64"`
	ExpirationDate string `json:"expiration_date"`
}

type PaymentStatusResponse struct {
	OrderID       uint   `json:"order_id"`
	PaymentStatus string `json:"payment_status"`
}

type WebhookRequest struct {
	Type string `json:"type"`
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

type PushSubscriptionRequest struct {
	Endpoint string `json:"endpoint"`
	Keys     struct {
		P256dh string `json:"p256dh"`
		Auth   string `json:"auth"`
	} `json:"keys"`
}

type SetUserActiveRequest struct {
	Active bool `json:"active"`
}

type SetUserRoleRequest struct {
	Role string `json:"role"`
}

type Meta struct {
	Page       int   `json:"page"`
	Size       int   `json:"size"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
	HasPrev    bool  `json:"has_prev"`
	HasNext    bool  `json:"has_next"`
}
