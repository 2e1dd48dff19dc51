package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/itsyosefali/zoho-integration/internal/domain/integration"
	"github.com/itsyosefali/zoho-integration/internal/infrastructure/persistence/models"
)

// GormCredentialStore persists the connector credential as a single row
type GormCredentialStore struct {
	db *gorm.DB
}

var _ integration.CredentialStore = (*GormCredentialStore)(nil)

// NewGormCredentialStore creates a new GormCredentialStore
func NewGormCredentialStore(db *gorm.DB) *GormCredentialStore {
	return &GormCredentialStore{db: db}
}

// Load returns the stored credential, or an empty one when none was saved
func (s *GormCredentialStore) Load(ctx context.Context) (*integration.Credential, error) {
	var model models.CredentialModel
	err := s.db.WithContext(ctx).First(&model, "id = ?", models.CredentialSingletonID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &integration.Credential{}, nil
	}
	if err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save upserts the credential row
func (s *GormCredentialStore) Save(ctx context.Context, cred *integration.Credential) error {
	model := models.CredentialModelFromDomain(cred)
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(model).Error
}
