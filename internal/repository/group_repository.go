package repository

import (
	"github.com/campusmeet/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GroupRepository struct {
	db *gorm.DB
}

func NewGroupRepository(db *gorm.DB) *GroupRepository {
	return &GroupRepository{db: db}
}

func (r *GroupRepository) Create(group *models.Group) error {
	return r.db.Create(group).Error
}

func (r *GroupRepository) FindByID(id uint) (*models.Group, error) {
	var group models.Group
	if err := r.db.Preload("Post").First(&group, id).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *GroupRepository) FindByIDForUpdate(id uint) (*models.Group, error) {
	var group models.Group
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&group, id).Error
	if err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *GroupRepository) FindByPostID(postID uint) (*models.Group, error) {
	var group models.Group
	err := r.db.Where("post_id = ?", postID).
		Preload("Post").
		First(&group).Error
	if err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *GroupRepository) Save(group *models.Group) error {
	return r.db.Save(group).Error
}

func (r *GroupRepository) ListByLeader(userID uint, category string) ([]models.Group, error) {
	var groups []models.Group
	q := r.db.Joins("JOIN memberships ON memberships.group_id = groups.id").
		Where("memberships.user_id = ? AND memberships.role = ?", userID, models.RoleLeader)
	if category != "" {
		q = q.Joins("JOIN posts ON posts.id = groups.post_id").
			Where("posts.category = ?", category)
	}
	err := q.Preload("Post").
		Order("groups.created_at DESC").
		Find(&groups).Error
	return groups, err
}
