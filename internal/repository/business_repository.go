package repository

import (
	"context"

	"github.com/circleone/member-directory/internal/database"
	"github.com/circleone/member-directory/internal/models"
	"gorm.io/gorm"
)

// businessEditableColumns are the columns an owner may change through the edit form.
var businessEditableColumns = []string{
	"business_name",
	"category",
	"description",
	"contact_email",
	"phone",
	"website",
	"location",
	"logo_url",
	"uploaded_logo",
	"hours",
	"social_links",
}

// GormBusinessRepository is a GORM implementation of BusinessRepository
type GormBusinessRepository struct {
	db *gorm.DB
}

// NewBusinessRepository creates a new BusinessRepository
func NewBusinessRepository(db *gorm.DB) BusinessRepository {
	return &GormBusinessRepository{db: db}
}

// Create creates a new listing
func (r *GormBusinessRepository) Create(ctx context.Context, listing *models.BusinessListing) error {
	return r.db.WithContext(ctx).Omit("Owner").Create(listing).Error
}

// FindByID finds a listing by ID
func (r *GormBusinessRepository) FindByID(ctx context.Context, id uint64) (*models.BusinessListing, error) {
	var listing models.BusinessListing
	if err := r.db.WithContext(ctx).Preload("Owner").First(&listing, id).Error; err != nil {
		return nil, err
	}
	return &listing, nil
}

// ListByUser lists every listing owned by a user
func (r *GormBusinessRepository) ListByUser(ctx context.Context, userID uint64) ([]models.BusinessListing, error) {
	var listings []models.BusinessListing
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&listings).Error
	if err != nil {
		return nil, err
	}
	return listings, nil
}

// List retrieves listings with filtering and pagination
func (r *GormBusinessRepository) List(ctx context.Context, filter BusinessFilter) ([]models.BusinessListing, int64, error) {
	var listings []models.BusinessListing

	query := r.db.WithContext(ctx).Model(&models.BusinessListing{}).
		Scopes(database.ContainsFold(filter.Search, "business_listings.business_name", "business_listings.description"))

	if filter.Category != "" {
		query = query.Where("business_listings.category = ?", filter.Category)
	}
	if filter.Location != "" {
		query = query.Scopes(database.ContainsFold(filter.Location, "business_listings.location"))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Scopes(database.MostViewed("business_listings"))
	if filter.Pagination.Limit > 0 {
		listQuery = listQuery.Scopes(database.Paginate(filter.Pagination))
	}

	if err := listQuery.Preload("Owner").Find(&listings).Error; err != nil {
		return nil, 0, err
	}

	return listings, total, nil
}

// Categories returns the distinct categories, sorted
func (r *GormBusinessRepository) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	err := r.db.WithContext(ctx).Model(&models.BusinessListing{}).
		Distinct("category").
		Order("category ASC").
		Pluck("category", &categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

// Update writes the editable fields of a listing
func (r *GormBusinessRepository) Update(ctx context.Context, listing *models.BusinessListing) error {
	return r.db.WithContext(ctx).Model(listing).Select(businessEditableColumns).Updates(listing).Error
}

// Delete deletes a listing
func (r *GormBusinessRepository) Delete(ctx context.Context, id uint64) error {
	result := r.db.WithContext(ctx).Delete(&models.BusinessListing{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// IncrementViews adds one to the stored view counter
func (r *GormBusinessRepository) IncrementViews(ctx context.Context, id uint64) error {
	return incrementViews(ctx, r.db, &models.BusinessListing{}, id)
}

// Count returns the number of listings
func (r *GormBusinessRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.BusinessListing{}).Count(&total).Error
	return total, err
}

// incrementViews lets the database do the arithmetic so concurrent viewers never lose an update.
func incrementViews(ctx context.Context, db *gorm.DB, model interface{}, id uint64) error {
	result := db.WithContext(ctx).Model(model).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", 1))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
