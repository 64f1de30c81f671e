package service

import (
	"errors"

	"github.com/campusmeet/backend/internal/cache"
	"github.com/campusmeet/backend/internal/models"
	"github.com/campusmeet/backend/internal/repository"
	"gorm.io/gorm"
)

// GroupService is the group lifecycle manager. Creation founds the
// group with its leader in one transaction; every compound operation
// that touches occupancy, status, or the pending set runs through the
// admission coordinator's critical section.
type GroupService struct {
	store          repository.StoreInterface
	groupRepo      repository.GroupRepositoryInterface
	membershipRepo repository.MembershipRepositoryInterface
	postRepo       repository.PostRepositoryInterface
	admission      *AdmissionService
	groupCache     *cache.GroupCache
}

func NewGroupService(
	store repository.StoreInterface,
	groupRepo repository.GroupRepositoryInterface,
	membershipRepo repository.MembershipRepositoryInterface,
	postRepo repository.PostRepositoryInterface,
	admission *AdmissionService,
	groupCache *cache.GroupCache,
) *GroupService {
	return &GroupService{
		store:          store,
		groupRepo:      groupRepo,
		membershipRepo: membershipRepo,
		postRepo:       postRepo,
		admission:      admission,
		groupCache:     groupCache,
	}
}

// CreateGroup founds a group for a freshly created post: the group row
// and the author's leader membership are written atomically, with the
// author occupying the first seat.
func (s *GroupService) CreateGroup(ownerUserID, postID uint, capacity int) (*models.Group, error) {
	if capacity < 1 {
		return nil, ErrInvalidCapacity
	}
	if _, err := s.postRepo.FindByID(postID); err != nil {
		return nil, err
	}
	if _, err := s.groupRepo.FindByPostID(postID); err == nil {
		return nil, ErrGroupExists
	}

	group := &models.Group{
		PostID:    postID,
		Capacity:  capacity,
		Occupancy: 1,
		Status:    models.GroupActive,
	}
	err := s.store.Atomic(func(r repository.RepositorySet) error {
		if err := r.Groups().Create(group); err != nil {
			return err
		}
		return r.Memberships().Add(&models.Membership{
			GroupID: group.ID,
			UserID:  ownerUserID,
			Role:    models.RoleLeader,
		})
	})
	if err != nil {
		return nil, err
	}
	return group, nil
}

// CreateGroupWithPost creates the announcement post and its group in
// one transaction, mirroring the combined board-publish flow.
func (s *GroupService) CreateGroupWithPost(ownerUserID uint, title, category string, capacity int) (*models.Group, error) {
	if capacity < 1 {
		return nil, ErrInvalidCapacity
	}

	group := &models.Group{
		Capacity:  capacity,
		Occupancy: 1,
		Status:    models.GroupActive,
	}
	err := s.store.Atomic(func(r repository.RepositorySet) error {
		post := &models.Post{
			AuthorID:   ownerUserID,
			Title:      title,
			Category:   category,
			LimitCount: capacity,
		}
		if err := r.Posts().Create(post); err != nil {
			return err
		}
		group.PostID = post.ID
		if err := r.Groups().Create(group); err != nil {
			return err
		}
		return r.Memberships().Add(&models.Membership{
			GroupID: group.ID,
			UserID:  ownerUserID,
			Role:    models.RoleLeader,
		})
	})
	if err != nil {
		return nil, err
	}
	return group, nil
}

func (s *GroupService) GetGroup(groupID uint) (*models.Group, error) {
	return s.groupRepo.FindByID(groupID)
}

func (s *GroupService) GetGroupByPostID(postID uint) (*models.Group, error) {
	return s.groupRepo.FindByPostID(postID)
}

// GetAdmissionSummary reads the occupancy/status snapshot, serving from
// cache when warm. The snapshot is for display; admission decisions
// never consult it.
func (s *GroupService) GetAdmissionSummary(groupID uint) (*cache.GroupSummary, error) {
	if summary, ok := s.groupCache.GetSummary(groupID); ok {
		return summary, nil
	}
	group, err := s.groupRepo.FindByID(groupID)
	if err != nil {
		return nil, err
	}
	summary := &cache.GroupSummary{
		GroupID:   group.ID,
		Capacity:  group.Capacity,
		Occupancy: group.Occupancy,
		Status:    group.Status,
	}
	_ = s.groupCache.SetSummary(summary)
	return summary, nil
}

func (s *GroupService) GetMembers(groupID uint) ([]models.Membership, error) {
	return s.membershipRepo.ListByGroup(groupID)
}

func (s *GroupService) GetLeader(groupID uint) (*models.Membership, error) {
	return s.membershipRepo.FindLeader(groupID)
}

func (s *GroupService) IsMember(userID, groupID uint) (bool, error) {
	_, err := s.membershipRepo.Find(groupID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *GroupService) IsLeader(userID, groupID uint) (bool, error) {
	membership, err := s.membershipRepo.Find(groupID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return membership.IsLeader(), nil
}

// GetUserGroups lists memberships where the user participates as a
// plain member, optionally filtered by post category. Groups the user
// leads are listed by GetLeaderGroups instead.
func (s *GroupService) GetUserGroups(userID uint, category string) ([]models.Membership, error) {
	memberships, err := s.membershipRepo.ListByUser(userID, category)
	if err != nil {
		return nil, err
	}
	joined := make([]models.Membership, 0, len(memberships))
	for _, m := range memberships {
		if !m.IsLeader() {
			joined = append(joined, m)
		}
	}
	return joined, nil
}

func (s *GroupService) GetLeaderGroups(userID uint, category string) ([]models.Group, error) {
	return s.groupRepo.ListByLeader(userID, category)
}

// Leave removes the caller's own membership and frees their seat. The
// leader cannot leave; they must transfer leadership or dissolve.
func (s *GroupService) Leave(userID, groupID uint) error {
	return s.admission.WithGroup(groupID, func(r repository.RepositorySet, group *models.Group) error {
		membership, err := r.Memberships().Find(groupID, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotMember
			}
			return err
		}
		if membership.IsLeader() {
			return ErrLeaderCannotLeave
		}
		if err := r.Memberships().Remove(groupID, userID); err != nil {
			return err
		}
		group.ReleaseSeat()
		return nil
	})
}

// Kick removes a member on the leader's authority and frees the seat.
func (s *GroupService) Kick(targetUserID, groupID, actorID uint) error {
	return s.admission.WithGroup(groupID, func(r repository.RepositorySet, group *models.Group) error {
		if err := requireLeader(r, groupID, actorID); err != nil {
			return err
		}
		target, err := r.Memberships().Find(groupID, targetUserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotMember
			}
			return err
		}
		if target.IsLeader() {
			return ErrCannotKickLeader
		}
		if err := r.Memberships().Remove(groupID, targetUserID); err != nil {
			return err
		}
		group.ReleaseSeat()
		return nil
	})
}

// TransferLeadership flips the leader and member roles atomically, so
// the group has exactly one leader at every observable point.
func (s *GroupService) TransferLeadership(currentLeaderID, newLeaderID, groupID uint) error {
	return s.admission.WithGroup(groupID, func(r repository.RepositorySet, group *models.Group) error {
		if err := requireLeader(r, groupID, currentLeaderID); err != nil {
			return err
		}
		current, err := r.Memberships().Find(groupID, currentLeaderID)
		if err != nil {
			return err
		}
		next, err := r.Memberships().Find(groupID, newLeaderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotMember
			}
			return err
		}

		current.Role = models.RoleMember
		next.Role = models.RoleLeader
		if err := r.Memberships().Save(current); err != nil {
			return err
		}
		return r.Memberships().Save(next)
	})
}

// Close marks the group closed by leader decision and rejects every
// pending request in the same critical section, so no request can be
// approved between the sweep and the status flip.
func (s *GroupService) Close(groupID, actorID uint) error {
	return s.admission.WithGroup(groupID, func(r repository.RepositorySet, group *models.Group) error {
		if err := requireLeader(r, groupID, actorID); err != nil {
			return err
		}
		switch group.Status {
		case models.GroupDissolved:
			return ErrGroupDissolved
		case models.GroupClosed:
			return ErrAlreadyClosed
		}

		group.Status = models.GroupClosed
		group.ManualClose = true

		pending, err := r.JoinRequests().ListPendingByGroup(groupID)
		if err != nil {
			return err
		}
		for i := range pending {
			pending[i].Reject(actorID)
			if err := r.JoinRequests().Save(&pending[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

// Reopen reverses a close. A group already at capacity cannot reopen.
func (s *GroupService) Reopen(groupID, actorID uint) error {
	return s.admission.WithGroup(groupID, func(r repository.RepositorySet, group *models.Group) error {
		if err := requireLeader(r, groupID, actorID); err != nil {
			return err
		}
		if group.Status == models.GroupDissolved {
			return ErrGroupDissolved
		}
		if group.Status != models.GroupClosed {
			return ErrNotClosed
		}
		if group.IsFull() {
			return ErrGroupFull
		}

		group.Status = models.GroupActive
		group.ManualClose = false
		return nil
	})
}

// Dissolve terminates the group: memberships and join requests are
// deleted in the same transaction and the status becomes terminal. The
// owning post is removed by the board service, not here.
func (s *GroupService) Dissolve(groupID, actorID uint) error {
	return s.admission.WithGroup(groupID, func(r repository.RepositorySet, group *models.Group) error {
		if err := requireLeader(r, groupID, actorID); err != nil {
			return err
		}
		if group.Status == models.GroupDissolved {
			return ErrGroupDissolved
		}

		if err := r.JoinRequests().DeleteByGroup(groupID); err != nil {
			return err
		}
		if err := r.Memberships().DeleteByGroup(groupID); err != nil {
			return err
		}
		group.Status = models.GroupDissolved
		return nil
	})
}
