package models

import "time"

type JoinRequestStatus string

const (
	RequestPending  JoinRequestStatus = "pending"
	RequestApproved JoinRequestStatus = "approved"
	RequestRejected JoinRequestStatus = "rejected"
)

// JoinRequest is a user's application to join a group. A request leaves
// pending exactly once; only the coordinator performs that transition.
type JoinRequest struct {
	ID uint `gorm:"primarykey" json:"id"`

	GroupID uint   `gorm:"not null;index:idx_request_pair" json:"group_id"`
	UserID  uint   `gorm:"not null;index:idx_request_pair" json:"user_id"`
	Message string `gorm:"type:text" json:"message"`

	Status      JoinRequestStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	RequestedAt time.Time         `gorm:"autoCreateTime" json:"requested_at"`
	ProcessedAt *time.Time        `json:"processed_at,omitempty"`
	ProcessedBy *uint             `json:"processed_by,omitempty"`

	User  User  `gorm:"foreignKey:UserID" json:"user"`
	Group Group `gorm:"foreignKey:GroupID" json:"-"`
}

func (r *JoinRequest) IsPending() bool {
	return r.Status == RequestPending
}

// Approve stamps the terminal approved state with the processing leader.
func (r *JoinRequest) Approve(actorID uint) {
	now := time.Now()
	r.Status = RequestApproved
	r.ProcessedAt = &now
	r.ProcessedBy = &actorID
}

// Reject stamps the terminal rejected state with the processing leader.
func (r *JoinRequest) Reject(actorID uint) {
	now := time.Now()
	r.Status = RequestRejected
	r.ProcessedAt = &now
	r.ProcessedBy = &actorID
}
