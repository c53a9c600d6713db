package models

// Error is the wire shape for a single error.
type Error struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
}

// ErrorResponse is the envelope for all 4xx/5xx responses.
type ErrorResponse struct {
	Success bool  `json:"success"`
	Error   Error `json:"error"`
}

type SuccessResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message *string     `json:"message,omitempty"`
}

// Principal is the authenticated caller as produced by the auth middleware.
// SupplierID is empty for admins.
type Principal struct {
	ID         string
	Role       string
	SupplierID string
}

const (
	RoleAdmin    = "admin"
	RoleSupplier = "supplier"
)

// IsAdmin reports whether the principal may act on any supplier's resources.
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}
