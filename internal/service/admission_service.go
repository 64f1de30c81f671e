package service

import (
	"time"

	"github.com/campusmeet/backend/internal/cache"
	"github.com/campusmeet/backend/internal/models"
	"github.com/campusmeet/backend/internal/repository"
)

// DefaultLockTimeout bounds how long an operation waits for a group's
// critical section before failing with ErrGroupBusy.
const DefaultLockTimeout = 5 * time.Second

// AdmissionService is the admission coordinator: the only component
// that mutates a group's occupancy or status, and the only component
// that moves a join request out of pending. Every mutation runs inside
// the group's critical section (per-group lock + one transaction with
// the group row locked), so concurrent approvals cannot overbook a
// group.
type AdmissionService struct {
	store       repository.StoreInterface
	requestRepo repository.JoinRequestRepositoryInterface
	groupCache  *cache.GroupCache
	locker      *groupLocker
	lockTimeout time.Duration
}

func NewAdmissionService(
	store repository.StoreInterface,
	requestRepo repository.JoinRequestRepositoryInterface,
	groupCache *cache.GroupCache,
	lockTimeout time.Duration,
) *AdmissionService {
	if lockTimeout <= 0 {
		lockTimeout = DefaultLockTimeout
	}
	return &AdmissionService{
		store:       store,
		requestRepo: requestRepo,
		groupCache:  groupCache,
		locker:      newGroupLocker(),
		lockTimeout: lockTimeout,
	}
}

// WithGroup runs fn inside the group's critical section: the per-group
// lock is held across one transaction that re-reads the group row with
// a row lock, and the group is persisted after fn returns. fn sees
// current state, never a value cached from before the lock was taken.
// Lifecycle operations that must be atomic with respect to approvals
// (close, dissolve, leave, kick, transfer) go through here too.
func (s *AdmissionService) WithGroup(groupID uint, fn func(r repository.RepositorySet, group *models.Group) error) error {
	if !s.locker.Acquire(groupID, s.lockTimeout) {
		return ErrGroupBusy
	}
	defer s.locker.Release(groupID)

	err := s.store.Atomic(func(r repository.RepositorySet) error {
		group, err := r.Groups().FindByIDForUpdate(groupID)
		if err != nil {
			return err
		}
		if err := checkInvariant(group); err != nil {
			return err
		}
		if err := fn(r, group); err != nil {
			return err
		}
		if err := checkInvariant(group); err != nil {
			return err
		}
		return r.Groups().Save(group)
	})
	if err != nil {
		return err
	}

	s.groupCache.Invalidate(groupID)
	return nil
}

// Approve admits the requester: the request becomes approved, a member
// membership is inserted, and the group takes one seat, closing if that
// seat was the last. Occupancy and status are re-checked inside the
// critical section; the submission-time check is advisory only.
func (s *AdmissionService) Approve(requestID, actorID uint) (*models.JoinRequest, error) {
	head, err := s.requestRepo.FindByID(requestID)
	if err != nil {
		return nil, err
	}

	var approved *models.JoinRequest
	err = s.WithGroup(head.GroupID, func(r repository.RepositorySet, group *models.Group) error {
		request, err := r.JoinRequests().FindByID(requestID)
		if err != nil {
			return err
		}
		if !request.IsPending() {
			return ErrNotPending
		}
		if err := requireLeader(r, group.ID, actorID); err != nil {
			return err
		}
		switch {
		case group.Status == models.GroupDissolved:
			return ErrGroupDissolved
		case group.IsFull():
			return ErrGroupFull
		case group.Status != models.GroupActive:
			return ErrGroupClosed
		}

		request.Approve(actorID)
		if err := r.JoinRequests().Save(request); err != nil {
			return err
		}
		if err := r.Memberships().Add(&models.Membership{
			GroupID: group.ID,
			UserID:  request.UserID,
			Role:    models.RoleMember,
		}); err != nil {
			return err
		}
		group.TakeSeat()
		approved = request
		return nil
	})
	if err != nil {
		return nil, err
	}
	return approved, nil
}

// Reject resolves the request without touching occupancy. It still
// runs inside the critical section so a close sweep and a concurrent
// rejection cannot both process the same request.
func (s *AdmissionService) Reject(requestID, actorID uint) (*models.JoinRequest, error) {
	head, err := s.requestRepo.FindByID(requestID)
	if err != nil {
		return nil, err
	}

	var rejected *models.JoinRequest
	err = s.WithGroup(head.GroupID, func(r repository.RepositorySet, group *models.Group) error {
		request, err := r.JoinRequests().FindByID(requestID)
		if err != nil {
			return err
		}
		if !request.IsPending() {
			return ErrNotPending
		}
		if err := requireLeader(r, group.ID, actorID); err != nil {
			return err
		}

		request.Reject(actorID)
		if err := r.JoinRequests().Save(request); err != nil {
			return err
		}
		rejected = request
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rejected, nil
}

func requireLeader(r repository.RepositorySet, groupID, actorID uint) error {
	leader, err := r.Memberships().FindLeader(groupID)
	if err != nil {
		return err
	}
	if leader.UserID != actorID {
		return ErrNotLeader
	}
	return nil
}

func checkInvariant(group *models.Group) error {
	if group.Occupancy < 1 || group.Occupancy > group.Capacity {
		return ErrInvariantViolation
	}
	return nil
}
