package catalog

// CreateTypeRequest is sent by an admin to add a catalog entry.
type CreateTypeRequest struct {
	Name           string  `json:"name" binding:"required"`
	Category       string  `json:"category" binding:"required,oneof=punch_card subscription"`
	ClassCount     int     `json:"class_count"`
	ValidityMonths int     `json:"validity_months" binding:"required,min=1"`
	Price          float64 `json:"price" binding:"min=0"`
}

// UpdateTypeRequest carries optional field changes.
type UpdateTypeRequest struct {
	Name           *string  `json:"name"`
	Price          *float64 `json:"price"`
	ValidityMonths *int     `json:"validity_months"`
}
