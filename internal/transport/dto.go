package transport

// Request bodies. Validation rules live in the validate tags; PATCH bodies
// use pointers so an absent field is distinguishable from an empty one.

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=1"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password"   validate:"required"`
}

type CreateCategoryRequest struct {
	Name        string `json:"name"        validate:"required"`
	Description string `json:"description" validate:"required"`
}

type PatchCategoryRequest struct {
	Name        *string `json:"name"        validate:"omitnil,min=1"`
	Description *string `json:"description" validate:"omitnil,min=1"`
}

type CreateProductRequest struct {
	Name        string `json:"name"        validate:"required"`
	Description string `json:"description" validate:"required"`
	Price       int64  `json:"price"       validate:"required,gt=0"`
	Image       string `json:"image"       validate:"required,url"`
	Category    string `json:"category"    validate:"required"`
}

type PatchProductRequest struct {
	Name        *string `json:"name"        validate:"omitnil,min=1"`
	Description *string `json:"description" validate:"omitnil,min=1"`
	Price       *int64  `json:"price"       validate:"omitnil,gt=0"`
	Image       *string `json:"image"       validate:"omitnil,url"`
	Category    *string `json:"category"    validate:"omitnil,min=1"`
}

type AddToCartRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity"  validate:"required,gte=1"`
}

type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=user admin"`
}

type UpdateProfileRequest struct {
	Username *string `json:"username" validate:"omitnil,min=1"`
	Email    *string `json:"email"    validate:"omitnil,email"`
	Password *string `json:"password" validate:"omitnil,min=6"`
}
