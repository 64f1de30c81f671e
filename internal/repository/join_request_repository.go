package repository

import (
	"github.com/campusmeet/backend/internal/models"
	"gorm.io/gorm"
)

type JoinRequestRepository struct {
	db *gorm.DB
}

func NewJoinRequestRepository(db *gorm.DB) *JoinRequestRepository {
	return &JoinRequestRepository{db: db}
}

func (r *JoinRequestRepository) Create(request *models.JoinRequest) error {
	return r.db.Create(request).Error
}

func (r *JoinRequestRepository) FindByID(id uint) (*models.JoinRequest, error) {
	var request models.JoinRequest
	if err := r.db.First(&request, id).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *JoinRequestRepository) Save(request *models.JoinRequest) error {
	return r.db.Save(request).Error
}

func (r *JoinRequestRepository) Delete(id uint) error {
	return r.db.Delete(&models.JoinRequest{}, id).Error
}

func (r *JoinRequestRepository) HasPending(userID, groupID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.JoinRequest{}).
		Where("user_id = ? AND group_id = ? AND status = ?", userID, groupID, models.RequestPending).
		Count(&count).Error
	return count > 0, err
}

func (r *JoinRequestRepository) ListByUser(userID uint) ([]models.JoinRequest, error) {
	var requests []models.JoinRequest
	err := r.db.Where("user_id = ?", userID).
		Order("requested_at DESC").
		Find(&requests).Error
	return requests, err
}

func (r *JoinRequestRepository) ListByGroup(groupID uint, status models.JoinRequestStatus) ([]models.JoinRequest, error) {
	var requests []models.JoinRequest
	q := r.db.Where("group_id = ?", groupID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Preload("User").
		Order("requested_at DESC").
		Find(&requests).Error
	return requests, err
}

func (r *JoinRequestRepository) ListPendingByGroup(groupID uint) ([]models.JoinRequest, error) {
	var requests []models.JoinRequest
	err := r.db.Where("group_id = ? AND status = ?", groupID, models.RequestPending).
		Preload("User").
		Order("requested_at").
		Find(&requests).Error
	return requests, err
}

// ListPendingForLeader returns the pending requests of every group the
// user leads, oldest first.
func (r *JoinRequestRepository) ListPendingForLeader(leaderID uint) ([]models.JoinRequest, error) {
	var requests []models.JoinRequest
	err := r.db.Joins("JOIN memberships ON memberships.group_id = join_requests.group_id").
		Where("memberships.user_id = ? AND memberships.role = ? AND join_requests.status = ?",
			leaderID, models.RoleLeader, models.RequestPending).
		Preload("User").
		Order("join_requests.requested_at").
		Find(&requests).Error
	return requests, err
}

func (r *JoinRequestRepository) DeleteByGroup(groupID uint) error {
	return r.db.Where("group_id = ?", groupID).Delete(&models.JoinRequest{}).Error
}
