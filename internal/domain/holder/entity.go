package holder

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// Kind tags which table a holder reference points at.
type Kind string

const (
	KindCustomer  Kind = "customer"
	KindDependent Kind = "dependent"
)

// Ref is the tagged holder variant threaded through the ledger, the pass
// manager and the check-in processor. Exactly one underlying row backs it:
// a customer account or a dependent belonging to one.
type Ref struct {
	Kind Kind
	ID   int64
}

func CustomerRef(id int64) Ref  { return Ref{Kind: KindCustomer, ID: id} }
func DependentRef(id int64) Ref { return Ref{Kind: KindDependent, ID: id} }

func (r Ref) IsZero() bool { return r.ID == 0 }

func (r Ref) String() string {
	return fmt.Sprintf("%s:%d", r.Kind, r.ID)
}

// IDs splits the ref into the nullable column pair used by every owned
// table (customer_id XOR dependent_id).
func (r Ref) IDs() (customerID, dependentID sql.NullInt64) {
	switch r.Kind {
	case KindCustomer:
		customerID = sql.NullInt64{Int64: r.ID, Valid: true}
	case KindDependent:
		dependentID = sql.NullInt64{Int64: r.ID, Valid: true}
	}
	return
}

// RefFromIDs rebuilds a Ref from a scanned column pair.
func RefFromIDs(customerID, dependentID sql.NullInt64) (Ref, error) {
	switch {
	case customerID.Valid && dependentID.Valid:
		return Ref{}, fmt.Errorf("row references both customer %d and dependent %d", customerID.Int64, dependentID.Int64)
	case customerID.Valid:
		return CustomerRef(customerID.Int64), nil
	case dependentID.Valid:
		return DependentRef(dependentID.Int64), nil
	default:
		return Ref{}, fmt.Errorf("row references no holder")
	}
}

// Customer is a studio member account.
type Customer struct {
	ID        int64          `gorm:"column:id;primaryKey" json:"id"`
	FirstName string         `gorm:"column:first_name" json:"first_name"`
	LastName  string         `gorm:"column:last_name" json:"last_name"`
	Email     sql.NullString `gorm:"column:email" json:"email,omitempty"`
	Phone     sql.NullString `gorm:"column:phone" json:"phone,omitempty"`
	// BirthDate is kept as the literal "YYYY-MM-DD" string so birthday
	// matching never round-trips through a timezone-aware calendar.
	BirthDate sql.NullString `gorm:"column:birth_date;size:10" json:"birth_date,omitempty"`
	CreatedAt time.Time      `gorm:"column:created_at" json:"created_at"`
}

func (Customer) TableName() string { return "customers" }

// Dependent is a family member attached to a customer account; dependents
// hold their own cards and passes.
type Dependent struct {
	ID         int64          `gorm:"column:id;primaryKey" json:"id"`
	CustomerID int64          `gorm:"column:customer_id;index" json:"customer_id"`
	FirstName  string         `gorm:"column:first_name" json:"first_name"`
	LastName   string         `gorm:"column:last_name" json:"last_name"`
	Relation   sql.NullString `gorm:"column:relation" json:"relation,omitempty"`
	BirthDate  sql.NullString `gorm:"column:birth_date;size:10" json:"birth_date,omitempty"`
	CreatedAt  time.Time      `gorm:"column:created_at" json:"created_at"`
}

func (Dependent) TableName() string { return "dependents" }

// Info is the resolved display projection of a Ref.
type Info struct {
	Ref       Ref
	Name      string
	BirthDate string // "" when not on file
}

func displayName(first, last string) string {
	return strings.TrimSpace(first + " " + last)
}
