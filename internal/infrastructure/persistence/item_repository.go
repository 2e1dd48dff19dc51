package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/itsyosefali/zoho-integration/internal/domain/catalog"
	"github.com/itsyosefali/zoho-integration/internal/domain/shared"
	"github.com/itsyosefali/zoho-integration/internal/infrastructure/persistence/models"
)

// GormItemRepository implements catalog.ItemRepository and
// catalog.ReferenceDataRepository using GORM
type GormItemRepository struct {
	db *gorm.DB
}

var (
	_ catalog.ItemRepository          = (*GormItemRepository)(nil)
	_ catalog.ReferenceDataRepository = (*GormItemRepository)(nil)
)

// NewGormItemRepository creates a new GormItemRepository
func NewGormItemRepository(db *gorm.DB) *GormItemRepository {
	return &GormItemRepository{db: db}
}

// FindByID finds an item by its ID
func (r *GormItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Item, error) {
	var model models.ItemModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByZohoItemID finds the item bound to itemID
func (r *GormItemRepository) FindByZohoItemID(ctx context.Context, itemID string) (*catalog.Item, error) {
	if itemID == "" {
		return nil, nil
	}
	return r.findOne(ctx, "zoho_item_id = ?", itemID)
}

// FindByName finds an item by exact item name. Item names are not unique;
// among duplicates the oldest item wins.
func (r *GormItemRepository) FindByName(ctx context.Context, name string) (*catalog.Item, error) {
	if name == "" {
		return nil, nil
	}
	return r.findOne(ctx, "item_name = ?", name)
}

// FindByCode finds an item by item code
func (r *GormItemRepository) FindByCode(ctx context.Context, code string) (*catalog.Item, error) {
	if code == "" {
		return nil, nil
	}
	return r.findOne(ctx, "item_code = ?", code)
}

// findOne returns the oldest matching item, ties broken by id.
func (r *GormItemRepository) findOne(ctx context.Context, query string, args ...any) (*catalog.Item, error) {
	var model models.ItemModel
	err := r.db.WithContext(ctx).
		Where(query, args...).
		Order("created_at ASC").Order("id ASC").
		Take(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// ExistsByZohoItemID checks whether any item is bound to itemID
func (r *GormItemRepository) ExistsByZohoItemID(ctx context.Context, itemID string) (bool, error) {
	if itemID == "" {
		return false, nil
	}
	return r.exists(ctx, &models.ItemModel{}, "zoho_item_id = ?", itemID)
}

// ExistsByName checks whether an item with name exists
func (r *GormItemRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	return r.exists(ctx, &models.ItemModel{}, "item_name = ?", name)
}

func (r *GormItemRepository) exists(ctx context.Context, model any, query string, args ...any) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(model).Where(query, args...).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create inserts a new item
func (r *GormItemRepository) Create(ctx context.Context, item *catalog.Item) error {
	model := models.ItemModelFromDomain(item)
	return translateWriteError(r.db.WithContext(ctx).Create(model).Error)
}

// Update saves every column of an existing item
func (r *GormItemRepository) Update(ctx context.Context, item *catalog.Item) error {
	model := models.ItemModelFromDomain(item)
	result := r.db.WithContext(ctx).Model(&models.ItemModel{}).
		Where("id = ?", item.ID).
		Select("*").Omit("id", "created_at").
		Updates(model)
	if result.Error != nil {
		return translateWriteError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// UOMExists checks whether a unit of measure exists
func (r *GormItemRepository) UOMExists(ctx context.Context, name string) (bool, error) {
	return r.exists(ctx, &models.UOMModel{}, "name = ?", name)
}

// CreateUOM inserts a unit of measure
func (r *GormItemRepository) CreateUOM(ctx context.Context, uom *catalog.UOM) error {
	return translateWriteError(r.db.WithContext(ctx).Create(&models.UOMModel{
		Name:              uom.Name,
		MustBeWholeNumber: uom.MustBeWholeNumber,
		CreatedAt:         time.Now(),
	}).Error)
}

// ItemGroupExists checks whether an item group exists
func (r *GormItemRepository) ItemGroupExists(ctx context.Context, name string) (bool, error) {
	return r.exists(ctx, &models.ItemGroupModel{}, "name = ?", name)
}

// CreateItemGroup inserts an item group
func (r *GormItemRepository) CreateItemGroup(ctx context.Context, group *catalog.ItemGroup) error {
	return translateWriteError(r.db.WithContext(ctx).Create(&models.ItemGroupModel{
		Name:            group.Name,
		ParentItemGroup: group.ParentItemGroup,
		IsGroup:         group.IsGroup,
		CreatedAt:       time.Now(),
	}).Error)
}
