package repository

import (
	"github.com/campusmeet/backend/internal/models"
)

// UserRepositoryInterface defines the contract for user repository operations
type UserRepositoryInterface interface {
	Create(user *models.User) error
	FindByID(id uint) (*models.User, error)
	FindByUsername(username string) (*models.User, error)
}

// PostRepositoryInterface defines the contract for post repository operations
type PostRepositoryInterface interface {
	Create(post *models.Post) error
	FindByID(id uint) (*models.Post, error)
	Delete(id uint) error
}

// GroupRepositoryInterface defines the contract for group repository operations
type GroupRepositoryInterface interface {
	Create(group *models.Group) error
	FindByID(id uint) (*models.Group, error)
	// FindByIDForUpdate locks the group row for the duration of the
	// surrounding transaction. Outside a transaction it behaves like
	// FindByID.
	FindByIDForUpdate(id uint) (*models.Group, error)
	FindByPostID(postID uint) (*models.Group, error)
	Save(group *models.Group) error
	ListByLeader(userID uint, category string) ([]models.Group, error)
}

// MembershipRepositoryInterface defines the contract for membership
// registry operations. Leader-uniqueness and leader-removal rules are
// enforced by the services that call in, not re-checked here.
type MembershipRepositoryInterface interface {
	Add(membership *models.Membership) error
	Remove(groupID, userID uint) error
	Find(groupID, userID uint) (*models.Membership, error)
	FindLeader(groupID uint) (*models.Membership, error)
	ListByGroup(groupID uint) ([]models.Membership, error)
	ListByUser(userID uint, category string) ([]models.Membership, error)
	Save(membership *models.Membership) error
	DeleteByGroup(groupID uint) error
}

// JoinRequestRepositoryInterface defines the contract for the join
// request ledger's storage operations
type JoinRequestRepositoryInterface interface {
	Create(request *models.JoinRequest) error
	FindByID(id uint) (*models.JoinRequest, error)
	Save(request *models.JoinRequest) error
	Delete(id uint) error
	HasPending(userID, groupID uint) (bool, error)
	ListByUser(userID uint) ([]models.JoinRequest, error)
	ListByGroup(groupID uint, status models.JoinRequestStatus) ([]models.JoinRequest, error)
	ListPendingByGroup(groupID uint) ([]models.JoinRequest, error)
	ListPendingForLeader(leaderID uint) ([]models.JoinRequest, error)
	DeleteByGroup(groupID uint) error
}

// RepositorySet bundles the repositories that participate in a single
// unit of work. Inside Store.Atomic they are all bound to one
// transaction.
type RepositorySet interface {
	Users() UserRepositoryInterface
	Posts() PostRepositoryInterface
	Groups() GroupRepositoryInterface
	Memberships() MembershipRepositoryInterface
	JoinRequests() JoinRequestRepositoryInterface
}

// StoreInterface runs a function against a transactional RepositorySet.
// If fn returns an error every write inside it is rolled back.
type StoreInterface interface {
	Atomic(fn func(r RepositorySet) error) error
}
