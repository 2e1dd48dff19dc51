package partner

import (
	"context"

	"github.com/google/uuid"
)

// CustomerReader provides read access to customers. Lookups by field return
// nil without error when nothing matches.
type CustomerReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)
	FindByZohoContactID(ctx context.Context, contactID string) (*Customer, error)
	FindByName(ctx context.Context, name string) (*Customer, error)
}

// CustomerFinder answers existence checks.
type CustomerFinder interface {
	ExistsByZohoContactID(ctx context.Context, contactID string) (bool, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
}

// CustomerWriter persists customers. Create returns shared.ErrAlreadyExists
// when the name or Zoho contact id is already taken.
type CustomerWriter interface {
	Create(ctx context.Context, customer *Customer) error
	Update(ctx context.Context, customer *Customer) error
}

// CustomerRepository combines the customer ports.
type CustomerRepository interface {
	CustomerReader
	CustomerFinder
	CustomerWriter
}
