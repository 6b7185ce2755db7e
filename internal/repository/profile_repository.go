package repository

import (
	"context"

	"github.com/circleone/member-directory/internal/database"
	"github.com/circleone/member-directory/internal/models"
	"gorm.io/gorm"
)

var profileEditableColumns = []string{
	"job_title",
	"summary",
	"how_i_help",
	"linkedin_url",
	"skills_json",
	"consent_given",
	"contact_visible",
}

// GormProfileRepository is a GORM implementation of ProfileRepository
type GormProfileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new ProfileRepository
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &GormProfileRepository{db: db}
}

// FindByID finds a profile by ID
func (r *GormProfileRepository) FindByID(ctx context.Context, id uint64) (*models.ProfessionalProfile, error) {
	var profile models.ProfessionalProfile
	if err := r.db.WithContext(ctx).Preload("User").First(&profile, id).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// FindByUserID finds the profile owned by a user
func (r *GormProfileRepository) FindByUserID(ctx context.Context, userID uint64) (*models.ProfessionalProfile, error) {
	var profile models.ProfessionalProfile
	if err := r.db.WithContext(ctx).Preload("User").Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// Save creates the profile when new, otherwise writes its editable fields
func (r *GormProfileRepository) Save(ctx context.Context, profile *models.ProfessionalProfile) error {
	if profile.ID == 0 {
		return r.db.WithContext(ctx).Omit("User").Create(profile).Error
	}
	return r.db.WithContext(ctx).Model(profile).Select(profileEditableColumns).Updates(profile).Error
}

// DeleteByUserID deletes the profile owned by a user
func (r *GormProfileRepository) DeleteByUserID(ctx context.Context, userID uint64) error {
	result := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.ProfessionalProfile{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListPublic retrieves consenting profiles with filtering and pagination.
// The consent filter is applied before any other condition.
func (r *GormProfileRepository) ListPublic(ctx context.Context, filter ProfileFilter) ([]models.ProfessionalProfile, int64, error) {
	var profiles []models.ProfessionalProfile

	query := r.db.WithContext(ctx).Model(&models.ProfessionalProfile{}).
		Joins("JOIN users ON users.id = professional_profiles.user_id").
		Where("professional_profiles.consent_given = ?", true).
		Scopes(
			database.ContainsFold(filter.Search, "users.name", "professional_profiles.job_title", "professional_profiles.summary"),
			database.ContainsFold(filter.Skill, "professional_profiles.skills_json"),
		)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Scopes(database.MostViewed("professional_profiles"))
	if filter.Pagination.Limit > 0 {
		listQuery = listQuery.Scopes(database.Paginate(filter.Pagination))
	}

	if err := listQuery.Preload("User").Find(&profiles).Error; err != nil {
		return nil, 0, err
	}

	return profiles, total, nil
}

// PublicSkills returns the skill lists of consenting profiles
func (r *GormProfileRepository) PublicSkills(ctx context.Context) ([]models.StringList, error) {
	var skills []models.StringList
	err := r.db.WithContext(ctx).Model(&models.ProfessionalProfile{}).
		Where("consent_given = ?", true).
		Pluck("skills_json", &skills).Error
	if err != nil {
		return nil, err
	}
	return skills, nil
}

// IncrementViews adds one to the stored view counter
func (r *GormProfileRepository) IncrementViews(ctx context.Context, id uint64) error {
	return incrementViews(ctx, r.db, &models.ProfessionalProfile{}, id)
}
