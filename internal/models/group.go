package models

import (
	"time"

	"gorm.io/gorm"
)

type GroupStatus string

const (
	GroupActive    GroupStatus = "active"
	GroupClosed    GroupStatus = "closed"
	GroupDissolved GroupStatus = "dissolved"
)

type MemberRole string

const (
	RoleLeader MemberRole = "leader"
	RoleMember MemberRole = "member"
)

// Group is the capacity-bounded participation unit spawned by a post.
// Occupancy and Status are owned by the admission coordinator: nothing
// outside internal/service mutates them.
type Group struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	PostID    uint        `gorm:"uniqueIndex;not null" json:"post_id"`
	Capacity  int         `gorm:"not null" json:"capacity"`
	Occupancy int         `gorm:"not null;default:1" json:"occupancy"`
	Status    GroupStatus `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	// ManualClose marks a close issued by the leader; such groups do not
	// reopen automatically when a seat frees up.
	ManualClose bool `gorm:"not null;default:false" json:"manual_close"`

	Post    Post         `gorm:"foreignKey:PostID" json:"post"`
	Members []Membership `gorm:"foreignKey:GroupID" json:"members,omitempty"`
}

func (g *Group) IsFull() bool {
	return g.Occupancy >= g.Capacity
}

// TakeSeat admits one member. Reaching capacity closes the group.
func (g *Group) TakeSeat() {
	g.Occupancy++
	if g.Occupancy >= g.Capacity {
		g.Status = GroupClosed
	}
}

// ReleaseSeat frees one member's seat. The leader's seat is never
// released. A group that was closed by filling up reopens once a seat
// frees; a group the leader closed stays closed.
func (g *Group) ReleaseSeat() {
	if g.Occupancy <= 1 {
		return
	}
	g.Occupancy--
	if g.Status == GroupClosed && !g.ManualClose && g.Occupancy < g.Capacity {
		g.Status = GroupActive
	}
}

type Membership struct {
	GroupID  uint       `gorm:"primaryKey" json:"group_id"`
	UserID   uint       `gorm:"primaryKey" json:"user_id"`
	Role     MemberRole `gorm:"type:varchar(20);not null;default:'member'" json:"role"`
	JoinedAt time.Time  `gorm:"autoCreateTime" json:"joined_at"`

	User  User  `gorm:"foreignKey:UserID" json:"user"`
	Group Group `gorm:"foreignKey:GroupID" json:"-"`
}

func (m *Membership) IsLeader() bool {
	return m.Role == RoleLeader
}
