package service

import (
	"github.com/campusmeet/backend/internal/models"
	"github.com/campusmeet/backend/internal/repository"
)

// JoinRequestService is the join request ledger: it owns submission and
// cancellation and the request read queries. Resolution (approve or
// reject) lives on the admission coordinator because it moves seats.
type JoinRequestService struct {
	requestRepo repository.JoinRequestRepositoryInterface
	userRepo    repository.UserRepositoryInterface
	admission   *AdmissionService
}

func NewJoinRequestService(
	requestRepo repository.JoinRequestRepositoryInterface,
	userRepo repository.UserRepositoryInterface,
	admission *AdmissionService,
) *JoinRequestService {
	return &JoinRequestService{
		requestRepo: requestRepo,
		userRepo:    userRepo,
		admission:   admission,
	}
}

// Submit files a pending request for the user. The full/closed checks
// here are the submission-time gate; approval re-checks under the same
// per-group lock, which is the authoritative guard.
func (s *JoinRequestService) Submit(userID, groupID uint, message string) (*models.JoinRequest, error) {
	if _, err := s.userRepo.FindByID(userID); err != nil {
		return nil, err
	}

	var created *models.JoinRequest
	err := s.admission.WithGroup(groupID, func(r repository.RepositorySet, group *models.Group) error {
		if _, err := r.Memberships().Find(groupID, userID); err == nil {
			return ErrAlreadyMember
		}
		pending, err := r.JoinRequests().HasPending(userID, groupID)
		if err != nil {
			return err
		}
		if pending {
			return ErrDuplicatePending
		}
		switch {
		case group.Status == models.GroupDissolved:
			return ErrGroupDissolved
		case group.IsFull():
			return ErrGroupFull
		case group.Status != models.GroupActive:
			return ErrGroupClosed
		}

		request := &models.JoinRequest{
			GroupID: groupID,
			UserID:  userID,
			Message: message,
			Status:  models.RequestPending,
		}
		if err := r.JoinRequests().Create(request); err != nil {
			return err
		}
		created = request
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Cancel withdraws a pending request. Only the requester may cancel,
// and a request that has already been resolved stays resolved. Runs in
// the group's critical section so it cannot race an approval.
func (s *JoinRequestService) Cancel(requestID, userID uint) error {
	head, err := s.requestRepo.FindByID(requestID)
	if err != nil {
		return err
	}

	return s.admission.WithGroup(head.GroupID, func(r repository.RepositorySet, group *models.Group) error {
		request, err := r.JoinRequests().FindByID(requestID)
		if err != nil {
			return err
		}
		if !request.IsPending() {
			return ErrNotPending
		}
		if request.UserID != userID {
			return ErrNotOwner
		}
		return r.JoinRequests().Delete(requestID)
	})
}

func (s *JoinRequestService) GetUserRequests(userID uint) ([]models.JoinRequest, error) {
	return s.requestRepo.ListByUser(userID)
}

func (s *JoinRequestService) GetGroupRequests(groupID uint, status models.JoinRequestStatus) ([]models.JoinRequest, error) {
	return s.requestRepo.ListByGroup(groupID, status)
}

func (s *JoinRequestService) GetPendingRequests(groupID uint) ([]models.JoinRequest, error) {
	return s.requestRepo.ListPendingByGroup(groupID)
}

// GetPendingForLeader returns the inbox of requests awaiting the user
// across every group they lead.
func (s *JoinRequestService) GetPendingForLeader(leaderID uint) ([]models.JoinRequest, error) {
	return s.requestRepo.ListPendingForLeader(leaderID)
}

func (s *JoinRequestService) HasPending(userID, groupID uint) (bool, error) {
	return s.requestRepo.HasPending(userID, groupID)
}
