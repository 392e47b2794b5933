package models

// RegisterRequest represents account registration
type RegisterRequest struct {
	Username string `json:"username" binding:"required,max=50" example:"alice"`
	Password string `json:"password" binding:"required" example:"s3cret"`
}

// LoginRequest represents a login attempt
type LoginRequest struct {
	Username string `json:"username" binding:"required" example:"alice"`
	Password string `json:"password" binding:"required" example:"s3cret"`
}

// CreateProductRequest represents a new catalog entry
type CreateProductRequest struct {
	Name        string   `json:"name" binding:"required,max=255" example:"Desk lamp"`
	Description string   `json:"description" binding:"required" example:"Adjustable LED desk lamp"`
	Price       *float64 `json:"price" binding:"required,gte=0" example:"19.99"`
}

// UpdateProductRequest represents a partial product update; omitted fields
// are left unchanged
type UpdateProductRequest struct {
	Name        *string  `json:"name" binding:"omitempty,min=1,max=255"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price" binding:"omitempty,gte=0"`
}
