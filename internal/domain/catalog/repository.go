package catalog

import (
	"context"

	"github.com/google/uuid"
)

// ItemReader provides read access to items. Lookups by field return nil
// without error when nothing matches.
type ItemReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Item, error)
	FindByZohoItemID(ctx context.Context, itemID string) (*Item, error)
	FindByName(ctx context.Context, name string) (*Item, error)
	FindByCode(ctx context.Context, code string) (*Item, error)
}

// ItemFinder answers existence checks.
type ItemFinder interface {
	ExistsByZohoItemID(ctx context.Context, itemID string) (bool, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
}

// ItemWriter persists items. Create returns shared.ErrAlreadyExists when the
// item code or Zoho item id is already taken.
type ItemWriter interface {
	Create(ctx context.Context, item *Item) error
	Update(ctx context.Context, item *Item) error
}

// ItemRepository combines the item ports.
type ItemRepository interface {
	ItemReader
	ItemFinder
	ItemWriter
}

// ReferenceDataRepository manages units of measure and item groups.
type ReferenceDataRepository interface {
	UOMExists(ctx context.Context, name string) (bool, error)
	CreateUOM(ctx context.Context, uom *UOM) error
	ItemGroupExists(ctx context.Context, name string) (bool, error)
	CreateItemGroup(ctx context.Context, group *ItemGroup) error
}
