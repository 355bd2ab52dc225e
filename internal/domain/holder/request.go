package holder

import "errors"

var ErrAmbiguousHolder = errors.New("exactly one of customer_id or dependent_id must be set")

// Params is the holder reference shape shared by inbound request bodies.
type Params struct {
	CustomerID  *int64 `json:"customer_id"`
	DependentID *int64 `json:"dependent_id"`
}

// Ref validates the pair and returns the tagged variant.
func (p Params) Ref() (Ref, error) {
	switch {
	case p.CustomerID != nil && p.DependentID != nil:
		return Ref{}, ErrAmbiguousHolder
	case p.CustomerID != nil:
		if *p.CustomerID <= 0 {
			return Ref{}, ErrAmbiguousHolder
		}
		return CustomerRef(*p.CustomerID), nil
	case p.DependentID != nil:
		if *p.DependentID <= 0 {
			return Ref{}, ErrAmbiguousHolder
		}
		return DependentRef(*p.DependentID), nil
	default:
		return Ref{}, ErrAmbiguousHolder
	}
}
