package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/orgdesk/directory-api/internal/domain"
	"gorm.io/gorm"
)

type OrganizationRepository struct {
	db *gorm.DB
}

func NewOrganizationRepository(db *gorm.DB) *OrganizationRepository {
	return &OrganizationRepository{db: db}
}

func (r *OrganizationRepository) Create(ctx context.Context, org *domain.Organization) error {
	return r.db.WithContext(ctx).Create(org).Error
}

func (r *OrganizationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Organization, error) {
	var org domain.Organization
	if err := r.db.WithContext(ctx).First(&org, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &org, nil
}

// List returns every organization ordered by name
func (r *OrganizationRepository) List(ctx context.Context) ([]domain.Organization, error) {
	var orgs []domain.Organization
	err := r.db.WithContext(ctx).Order("name").Find(&orgs).Error
	return orgs, err
}

// MembershipRepository reads the organization_members table
type MembershipRepository struct {
	db *gorm.DB
}

func NewMembershipRepository(db *gorm.DB) *MembershipRepository {
	return &MembershipRepository{db: db}
}

func (r *MembershipRepository) Create(ctx context.Context, member *domain.OrganizationMember) error {
	return translateError(r.db.WithContext(ctx).Create(member).Error)
}

// GetRole returns the member role of the user, or gorm.ErrRecordNotFound when not a member
func (r *MembershipRepository) GetRole(ctx context.Context, userID, organizationID uuid.UUID) (string, error) {
	var member domain.OrganizationMember
	err := r.db.WithContext(ctx).
		Select("role").
		Where("user_id = ? AND organization_id = ?", userID, organizationID).
		First(&member).Error
	if err != nil {
		return "", err
	}
	return member.Role, nil
}

// ListForUser returns the memberships of a user with their organizations loaded
func (r *MembershipRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.OrganizationMember, error) {
	var members []domain.OrganizationMember
	err := r.db.WithContext(ctx).
		Preload("Organization").
		Where("user_id = ?", userID).
		Order("created_at").
		Find(&members).Error
	return members, err
}
