package upstream

import (
	"time"

	"github.com/pasalko/storefront/internal/ref"
)

// Payment methods accepted at checkout.
const (
	PaymentCOD    = "cod"
	PaymentKhalti = "khalti"
	PaymentCard   = "card"
	PaymentEsewa  = "esewa"
)

// Order statuses as the backend reports them.
const (
	OrderPending    = "pending"
	OrderProcessing = "processing"
	OrderShipped    = "shipped"
	OrderDelivered  = "delivered"
	OrderCancelled  = "cancelled"
)

// Payment statuses.
const (
	PayPending   = "pending"
	PayPaid      = "paid"
	PayFailed    = "failed"
	PayCompleted = "completed"
	PayRefunded  = "refunded"
)

type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Role  string `json:"role"`
}

func (u User) RefID() string { return u.ID }

type Business struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Verified bool   `json:"verified"`
	Status   string `json:"status"`
}

func (b Business) RefID() string { return b.ID }

type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

type Product struct {
	ID          string                  `json:"id"`
	Name        string                  `json:"name"`
	Description string                  `json:"description"`
	Price       float64                 `json:"price"`
	Discount    float64                 `json:"discount"` // percent, 0-100
	Stock       int                     `json:"stock"`
	Image       string                  `json:"image"`
	CategoryID  string                  `json:"category_id"`
	Business    ref.Reference[Business] `json:"business"`
}

type CartItem struct {
	Product   Product `json:"product"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Discount  float64 `json:"discount"`
}

type Cart struct {
	ID          string     `json:"id"`
	Items       []CartItem `json:"items"`
	TotalAmount float64    `json:"total_amount"`
	TotalItems  int        `json:"total_items"`
}

type Address struct {
	FullName     string `json:"full_name"`
	Phone        string `json:"phone"`
	AddressLine1 string `json:"address_line1"`
	AddressLine2 string `json:"address_line2,omitempty"`
	City         string `json:"city"`
	State        string `json:"state"`
	PostalCode   string `json:"postal_code"`
	IsDefault    bool   `json:"is_default"`
}

// OrderItem is a frozen snapshot of the product at order time.
type OrderItem struct {
	ProductID string                  `json:"product_id"`
	Name      string                  `json:"name"`
	Price     float64                 `json:"price"`
	Discount  float64                 `json:"discount"`
	Quantity  int                     `json:"quantity"`
	Business  ref.Reference[Business] `json:"business"`
	Image     string                  `json:"image"`
}

type Order struct {
	ID              string              `json:"id"`
	User            ref.Reference[User] `json:"user"`
	Items           []OrderItem         `json:"items"`
	ShippingAddress Address             `json:"shipping_address"`
	PaymentMethod   string              `json:"payment_method"`
	PaymentStatus   string              `json:"payment_status"`
	OrderStatus     string              `json:"order_status"`
	Subtotal        float64             `json:"subtotal"`
	Shipping        float64             `json:"shipping"`
	Tax             float64             `json:"tax"`
	Total           float64             `json:"total"`
	TrackingNumber  string              `json:"tracking_number,omitempty"`
	Notes           string              `json:"notes,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

type Payment struct {
	ID            string  `json:"id"`
	OrderID       string  `json:"order_id"`
	Amount        float64 `json:"amount"`
	Status        string  `json:"status"`
	Pidx          string  `json:"pidx"`
	PaymentURL    string  `json:"payment_url"`
	TransactionID string  `json:"transaction_id"`
}

type Transaction struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"` // "credit" or "debit"
	Amount    float64   `json:"amount"`
	OrderID   string    `json:"order_id"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Wallet struct {
	Balance      float64       `json:"balance"`
	Transactions []Transaction `json:"transactions"`
}

type PageMeta struct {
	Page       int   `json:"page"`
	Size       int   `json:"size"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
}
