package transport

import "encoding/json"

// Pointer fields distinguish "absent" from "zero" for partial updates.
// Numbers are json.Number so "12.5" and 12.5 are both accepted and
// validated by the service layer.

type ProductRequest struct {
	Name  *string      `json:"name"`
	Value *json.Number `json:"value"`
}

type CustomerRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

type OrderItemRequest struct {
	ProductID string      `json:"productId"`
	Quantity  json.Number `json:"quantity"`
}

type OrderRequest struct {
	CustomerID *string            `json:"customerId"`
	Items      []OrderItemRequest `json:"items"`
}

type OrderSearch struct {
	CustomerID *string
	ProductID  *string
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type CreateUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

type UpdateUserRequest struct {
	Password *string `json:"password"`
	Email    *string `json:"email"`
	Role     *string `json:"role"`
}
