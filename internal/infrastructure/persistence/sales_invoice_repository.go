package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/itsyosefali/zoho-integration/internal/domain/shared"
	"github.com/itsyosefali/zoho-integration/internal/domain/trade"
	"github.com/itsyosefali/zoho-integration/internal/infrastructure/persistence/models"
)

// GormSalesInvoiceRepository implements trade.SalesInvoiceRepository using GORM
type GormSalesInvoiceRepository struct {
	db *gorm.DB
}

var _ trade.SalesInvoiceRepository = (*GormSalesInvoiceRepository)(nil)

// NewGormSalesInvoiceRepository creates a new GormSalesInvoiceRepository
func NewGormSalesInvoiceRepository(db *gorm.DB) *GormSalesInvoiceRepository {
	return &GormSalesInvoiceRepository{db: db}
}

func (r *GormSalesInvoiceRepository) withItems(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("line_no")
	})
}

// FindByID finds an invoice with its lines
func (r *GormSalesInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.SalesInvoice, error) {
	var model models.SalesInvoiceModel
	if err := r.withItems(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByName finds an invoice by its number
func (r *GormSalesInvoiceRepository) FindByName(ctx context.Context, name string) (*trade.SalesInvoice, error) {
	var model models.SalesInvoiceModel
	if err := r.withItems(ctx).Where("name = ?", name).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Create inserts an invoice and its lines
func (r *GormSalesInvoiceRepository) Create(ctx context.Context, invoice *trade.SalesInvoice) error {
	model := models.SalesInvoiceModelFromDomain(invoice)
	return translateWriteError(r.db.WithContext(ctx).Create(model).Error)
}

// SaveSyncState writes only the Zoho bookkeeping columns
func (r *GormSalesInvoiceRepository) SaveSyncState(ctx context.Context, invoice *trade.SalesInvoice) error {
	var zohoID any
	if invoice.ZohoInvoiceID != "" {
		zohoID = invoice.ZohoInvoiceID
	}
	result := r.db.WithContext(ctx).Model(&models.SalesInvoiceModel{}).
		Where("id = ?", invoice.ID).
		Updates(map[string]any{
			"zoho_invoice_id":     zohoID,
			"zoho_invoice_number": invoice.ZohoInvoiceNumber,
			"zoho_sync_status":    string(invoice.ZohoSyncStatus),
			"zoho_last_synced_at": invoice.ZohoLastSyncedAt,
			"updated_at":          invoice.UpdatedAt,
		})
	if result.Error != nil {
		return translateWriteError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
