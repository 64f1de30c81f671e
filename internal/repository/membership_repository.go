package repository

import (
	"github.com/campusmeet/backend/internal/models"
	"gorm.io/gorm"
)

type MembershipRepository struct {
	db *gorm.DB
}

func NewMembershipRepository(db *gorm.DB) *MembershipRepository {
	return &MembershipRepository{db: db}
}

func (r *MembershipRepository) Add(membership *models.Membership) error {
	return r.db.Create(membership).Error
}

func (r *MembershipRepository) Remove(groupID, userID uint) error {
	return r.db.Where("group_id = ? AND user_id = ?", groupID, userID).
		Delete(&models.Membership{}).Error
}

func (r *MembershipRepository) Find(groupID, userID uint) (*models.Membership, error) {
	var membership models.Membership
	err := r.db.Where("group_id = ? AND user_id = ?", groupID, userID).
		First(&membership).Error
	if err != nil {
		return nil, err
	}
	return &membership, nil
}

func (r *MembershipRepository) FindLeader(groupID uint) (*models.Membership, error) {
	var membership models.Membership
	err := r.db.Where("group_id = ? AND role = ?", groupID, models.RoleLeader).
		Preload("User").
		First(&membership).Error
	if err != nil {
		return nil, err
	}
	return &membership, nil
}

func (r *MembershipRepository) ListByGroup(groupID uint) ([]models.Membership, error) {
	var memberships []models.Membership
	err := r.db.Where("group_id = ?", groupID).
		Preload("User").
		Order("joined_at").
		Find(&memberships).Error
	return memberships, err
}

func (r *MembershipRepository) ListByUser(userID uint, category string) ([]models.Membership, error) {
	var memberships []models.Membership
	q := r.db.Where("memberships.user_id = ?", userID)
	if category != "" {
		q = q.Joins("JOIN groups ON groups.id = memberships.group_id").
			Joins("JOIN posts ON posts.id = groups.post_id").
			Where("posts.category = ?", category)
	}
	err := q.Preload("Group").
		Order("joined_at DESC").
		Find(&memberships).Error
	return memberships, err
}

func (r *MembershipRepository) Save(membership *models.Membership) error {
	return r.db.Save(membership).Error
}

func (r *MembershipRepository) DeleteByGroup(groupID uint) error {
	return r.db.Where("group_id = ?", groupID).Delete(&models.Membership{}).Error
}
