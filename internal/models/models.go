package models

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

const OrderStatusPending = "pending"

type User struct {
	ID            uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name          string `gorm:"unique;not null"          json:"name"`
	PasswordHash  string `gorm:"not null"                 json:"-"`
	Role          string `gorm:"not null"                 json:"role"`
	Age           *int   `json:"age,omitempty"`
	ImageFilename string `json:"image_filename,omitempty"`
	IsApproved    bool   `gorm:"default:false"            json:"is_approved"`
	CreatedAt     int64  `gorm:"autoCreateTime"           json:"created_at"`
}

type Product struct {
	ID            uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name          string  `gorm:"not null"                 json:"name"`
	Description   string  `json:"description"`
	Price         float64 `gorm:"not null"                 json:"price"`
	Stock         uint    `json:"stock"`
	ImageFilename string  `json:"image_filename,omitempty"`
}

type Order struct {
	ID        uint        `gorm:"primaryKey"     json:"id"`
	UserID    uint        `gorm:"index;not null" json:"user_id"`
	Total     float64     `gorm:"not null"       json:"total"`
	Status    string      `gorm:"not null"       json:"status"`
	CreatedAt int64       `gorm:"not null"       json:"created_at"`
	Items     []OrderItem `json:"items"`
}

type OrderItem struct {
	ID        uint    `gorm:"primaryKey"                 json:"id"`
	OrderID   uint    `gorm:"index;not null"             json:"order_id"`
	ProductID uint    `gorm:"not null"                   json:"product_id"`
	Quantity  uint    `gorm:"check:quantity>0;not null"  json:"quantity"`
	UnitPrice float64 `gorm:"not null"                   json:"unit_price"`
	LineTotal float64 `gorm:"not null"                   json:"line_total"`
}
