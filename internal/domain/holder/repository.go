package holder

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// Repository resolves holder refs against the customers and dependents
// tables.
type Repository interface {
	CreateCustomer(ctx context.Context, c *Customer) error
	CreateDependent(ctx context.Context, d *Dependent) error
	GetCustomer(ctx context.Context, id int64) (*Customer, error)
	GetDependent(ctx context.Context, id int64) (*Dependent, error)
	ListDependents(ctx context.Context, customerID int64) ([]Dependent, error)
	SearchCustomers(ctx context.Context, query string, limit int) ([]Customer, error)

	// Resolve verifies the ref exists and returns its display projection.
	Resolve(ctx context.Context, ref Ref) (*Info, error)

	// FindBirthdaysOn returns every customer and dependent whose stored
	// birth date matches the given "MM-DD".
	FindBirthdaysOn(ctx context.Context, monthDay string) ([]Info, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateCustomer(ctx context.Context, c *Customer) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *repository) CreateDependent(ctx context.Context, d *Dependent) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *repository) GetCustomer(ctx context.Context, id int64) (*Customer, error) {
	var c Customer
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repository) GetDependent(ctx context.Context, id int64) (*Dependent, error) {
	var d Dependent
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&d).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *repository) ListDependents(ctx context.Context, customerID int64) ([]Dependent, error) {
	var out []Dependent
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("id ASC").
		Find(&out).Error
	return out, err
}

func (r *repository) SearchCustomers(ctx context.Context, query string, limit int) ([]Customer, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var out []Customer
	q := "%" + query + "%"
	err := r.db.WithContext(ctx).
		Where("first_name LIKE ? OR last_name LIKE ? OR phone LIKE ?", q, q, q).
		Order("last_name ASC, first_name ASC").
		Limit(limit).
		Find(&out).Error
	return out, err
}

func (r *repository) Resolve(ctx context.Context, ref Ref) (*Info, error) {
	switch ref.Kind {
	case KindCustomer:
		c, err := r.GetCustomer(ctx, ref.ID)
		if err != nil {
			return nil, err
		}
		return &Info{Ref: ref, Name: displayName(c.FirstName, c.LastName), BirthDate: c.BirthDate.String}, nil
	case KindDependent:
		d, err := r.GetDependent(ctx, ref.ID)
		if err != nil {
			return nil, err
		}
		return &Info{Ref: ref, Name: displayName(d.FirstName, d.LastName), BirthDate: d.BirthDate.String}, nil
	}
	return nil, ErrNotFound
}

// substr(birth_date, 6, 5) works on both postgres and sqlite, and matches
// the literal "MM-DD" tail of the stored "YYYY-MM-DD" string.
const birthdayMatch = "birth_date IS NOT NULL AND substr(birth_date, 6, 5) = ?"

func (r *repository) FindBirthdaysOn(ctx context.Context, monthDay string) ([]Info, error) {
	var customers []Customer
	if err := r.db.WithContext(ctx).Where(birthdayMatch, monthDay).Order("id ASC").Find(&customers).Error; err != nil {
		return nil, err
	}
	var dependents []Dependent
	if err := r.db.WithContext(ctx).Where(birthdayMatch, monthDay).Order("id ASC").Find(&dependents).Error; err != nil {
		return nil, err
	}

	out := make([]Info, 0, len(customers)+len(dependents))
	for _, c := range customers {
		out = append(out, Info{Ref: CustomerRef(c.ID), Name: displayName(c.FirstName, c.LastName), BirthDate: c.BirthDate.String})
	}
	for _, d := range dependents {
		out = append(out, Info{Ref: DependentRef(d.ID), Name: displayName(d.FirstName, d.LastName), BirthDate: d.BirthDate.String})
	}
	return out, nil
}
