package transport

type RegisterRequest struct {
	Name     string `form:"name"     json:"name"`
	Password string `form:"password" json:"password"`
	Age      *int   `form:"age"      json:"age"`
}

type LoginRequest struct {
	Name     string `form:"name"     json:"name"`
	Password string `form:"password" json:"password"`
}

type AuthResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
	User    any    `json:"user"`
}

type UpdateUserRequest struct {
	Name     *string `form:"name"     json:"name"`
	Age      *int    `form:"age"      json:"age"`
	Password *string `form:"password" json:"password"`
}

type CreateProductRequest struct {
	Name        string   `form:"name"        json:"name"`
	Description string   `form:"description" json:"description"`
	Price       *float64 `form:"price"       json:"price"`
	Stock       *uint    `form:"stock"       json:"stock"`
}

type UpdateProductRequest struct {
	Name        *string  `form:"name"        json:"name"`
	Description *string  `form:"description" json:"description"`
	Price       *float64 `form:"price"       json:"price"`
	Stock       *uint    `form:"stock"       json:"stock"`
}

type OrderItemRequest struct {
	ProductID uint `json:"productId"`
	Quantity  uint `json:"quantity"`
}

type CreateOrderRequest struct {
	Items []OrderItemRequest `json:"items"`
}
