package repository

import (
	"gorm.io/gorm"
)

// Store is the gorm-backed unit of work. Atomic hands the callback a
// RepositorySet whose repositories all share one transaction, so a
// failed admission mutation leaves no partial writes behind.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Atomic(fn func(r RepositorySet) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}

// Repositories is the concrete RepositorySet; NewRepositories binds
// every repository to the given db handle (a transaction or the root
// connection).
type Repositories struct {
	users        *UserRepository
	posts        *PostRepository
	groups       *GroupRepository
	memberships  *MembershipRepository
	joinRequests *JoinRequestRepository
}

func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		users:        NewUserRepository(db),
		posts:        NewPostRepository(db),
		groups:       NewGroupRepository(db),
		memberships:  NewMembershipRepository(db),
		joinRequests: NewJoinRequestRepository(db),
	}
}

func (r *Repositories) Users() UserRepositoryInterface { return r.users }

func (r *Repositories) Posts() PostRepositoryInterface { return r.posts }

func (r *Repositories) Groups() GroupRepositoryInterface { return r.groups }

func (r *Repositories) Memberships() MembershipRepositoryInterface { return r.memberships }

func (r *Repositories) JoinRequests() JoinRequestRepositoryInterface { return r.joinRequests }
