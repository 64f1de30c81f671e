package service

import (
	"errors"
	"sync"

	"github.com/campusmeet/backend/internal/models"
	"github.com/campusmeet/backend/internal/repository"
	"gorm.io/gorm"
)

// mockState is the shared in-memory backing for all mock repositories.
// A single mutex keeps the concurrency tests race-clean; the group
// lock in AdmissionService provides the actual serialization under
// test.
type mockState struct {
	mu            sync.Mutex
	users         map[uint]*models.User
	posts         map[uint]*models.Post
	groups        map[uint]*models.Group
	memberships   map[uint]map[uint]*models.Membership
	requests      map[uint]*models.JoinRequest
	nextPostID    uint
	nextGroupID   uint
	nextRequestID uint
}

func newMockState() *mockState {
	return &mockState{
		users:         make(map[uint]*models.User),
		posts:         make(map[uint]*models.Post),
		groups:        make(map[uint]*models.Group),
		memberships:   make(map[uint]map[uint]*models.Membership),
		requests:      make(map[uint]*models.JoinRequest),
		nextPostID:    1,
		nextGroupID:   1,
		nextRequestID: 1,
	}
}

func (s *mockState) seedUser(id uint) *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := &models.User{ID: id, Username: "user", Email: "user@campus.example"}
	s.users[id] = u
	return u
}

// seedGroup creates a post, its group, the leader membership, and any
// extra plain members. Occupancy reflects the seeded members; the
// group auto-closes when seeded full, matching the coordinator.
func (s *mockState) seedGroup(id uint, capacity int, leaderID uint, memberIDs ...uint) *models.Group {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.posts[id] = &models.Post{ID: id, AuthorID: leaderID, Category: "study", LimitCount: capacity}
	group := &models.Group{
		ID:        id,
		PostID:    id,
		Capacity:  capacity,
		Occupancy: 1 + len(memberIDs),
		Status:    models.GroupActive,
	}
	if group.Occupancy >= capacity {
		group.Status = models.GroupClosed
	}
	s.groups[id] = group
	s.memberships[id] = map[uint]*models.Membership{
		leaderID: {GroupID: id, UserID: leaderID, Role: models.RoleLeader},
	}
	for _, uid := range memberIDs {
		s.memberships[id][uid] = &models.Membership{GroupID: id, UserID: uid, Role: models.RoleMember}
	}
	return group
}

func (s *mockState) seedRequest(id, groupID, userID uint) *models.JoinRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	req := &models.JoinRequest{ID: id, GroupID: groupID, UserID: userID, Status: models.RequestPending}
	s.requests[id] = req
	if id >= s.nextRequestID {
		s.nextRequestID = id + 1
	}
	return req
}

func (s *mockState) group(id uint) *models.Group {
	s.mu.Lock()
	defer s.mu.Unlock()
	if g, ok := s.groups[id]; ok {
		c := *g
		return &c
	}
	return nil
}

func (s *mockState) request(id uint) *models.JoinRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.requests[id]; ok {
		c := *r
		return &c
	}
	return nil
}

// mockStore runs the callback against the shared state directly; the
// rollback guarantee is not simulated, which the tests do not rely on.
type mockStore struct {
	state *mockState
}

func (m *mockStore) Atomic(fn func(r repository.RepositorySet) error) error {
	return fn(&mockRepositorySet{state: m.state})
}

type mockRepositorySet struct {
	state *mockState
}

func (m *mockRepositorySet) Users() repository.UserRepositoryInterface {
	return &mockUserRepository{state: m.state}
}

func (m *mockRepositorySet) Posts() repository.PostRepositoryInterface {
	return &mockPostRepository{state: m.state}
}

func (m *mockRepositorySet) Groups() repository.GroupRepositoryInterface {
	return &mockGroupRepository{state: m.state}
}

func (m *mockRepositorySet) Memberships() repository.MembershipRepositoryInterface {
	return &mockMembershipRepository{state: m.state}
}

func (m *mockRepositorySet) JoinRequests() repository.JoinRequestRepositoryInterface {
	return &mockJoinRequestRepository{state: m.state}
}

// mockUserRepository implements repository.UserRepositoryInterface

type mockUserRepository struct {
	state *mockState
}

func (m *mockUserRepository) Create(user *models.User) error {
	m.state.mu.Lock()
	defer m.state.mu.Unlock()
	m.state.users[user.ID] = user
	return nil
}

func (m *mockUserRepository) FindByID(id uint) (*models.User, error) {
	m.state.mu.Lock()
	defer m.state.mu.Unlock()
	if u, ok := m.state.users[id]; ok {
		c := *u
		return &c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepository) FindByUsername(username string) (*models.User, error) {
	m.state.mu.Lock()
	defer m.state.mu.Unlock()
	for _, u := range m.state.users {
		if u.Username == username {
			c := *u
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// mockPostRepository implements repository.PostRepositoryInterface

type mockPostRepository struct {
	state *mockState
}

func (m *mockPostRepository) Create(post *models.Post) error {
	m.state.mu.Lock()
	defer m.state.mu.Unlock()
	if post.ID == 0 {
		post.ID = m.state.nextPostID
		m.state.nextPostID++
	}
	c := *post
	m.state.posts[post.ID] = &c
	return nil
}

func (m *mockPostRepository) FindByID(id uint) (*models.Post, error) {
	m.state.mu.Lock()
	defer m.state.mu.Unlock()
	if p, ok := m.state.posts[id]; ok {
		c := *p
		return &c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPostRepository) Delete(id uint) error {
	m.state.mu.Lock()
	defer m.state.mu.Unlock()
	delete(m.state.posts, id)
	return nil
}

// mockGroupRepository implements repository.GroupRepositoryInterface

type mockGroupRepository struct {
	state *mockState
}

func (m *mockGroupRepository) Create(group *models.Group) error {
	m.state.mu.Lock()
	defer m.state.mu.Unlock()
	if group.ID == 0 {
		group.ID = m.state.nextGroupID
		m.state.nextGroupID++
	}
	c := *group
	m.state.groups[group.ID] = &c
	return nil
}

func (m *mockGroupRepository) FindByID(id uint) (*models.Group, error) {
	m.state.mu.Lock()
	defer m.state.mu.Unlock()
	if g, ok := m.state.groups[id]; ok {
		c := *g
		return &c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockGroupRepository) FindByIDForUpdate(id uint) (*models.Group, error) {
	return m.FindByID(id)
}

func (m *mockGroupRepository) FindByPostID(postID uint) (*models.Group, error) {
	m.state.mu.Lock()
	defer m.state.mu.Unlock()
	for _, g := range m.state.groups {
		if g.PostID == postID {
			c := *g
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockGroupRepository) Save(group *models.Group) error {
	m.state.mu.Lock()
	defer m.state.mu.Unlock()
	c := *group
	m.state.groups[group.ID] = &c
	return nil
}

func (m *mockGroupRepository) ListByLeader(userID uint, category string) ([]models.Group, error) {
	m.state.mu.Lock()
	defer m.state.mu.Unlock()
	var out []models.Group
	for gid, members := range m.state.memberships {
		ms, ok := members[userID]
		if !ok || ms.Role != models.RoleLeader {
			continue
		}
		g, ok := m.state.groups[gid]
		if !ok {
			continue
		}
		if category != "" {
			post, ok := m.state.posts[g.PostID]
			if !ok || post.Category != category {
				continue
			}
		}
		out = append(out, *g)
	}
	return out, nil
}

// mockMembershipRepository implements repository.MembershipRepositoryInterface

type mockMembershipRepository struct {
	state *mockState
}

func (m *mockMembershipRepository) Add(membership *models.Membership) error {
	m.state.mu.Lock()
	defer m.state.mu.Unlock()
	if _, ok := m.state.memberships[membership.GroupID]; !ok {
		m.state.memberships[membership.GroupID] = make(map[uint]*models.Membership)
	}
	if _, ok := m.state.memberships[membership.GroupID][membership.UserID]; ok {
		return errors.New("duplicate membership")
	}
	c := *membership
	m.state.memberships[membership.GroupID][membership.UserID] = &c
	return nil
}

func (m *mockMembershipRepository) Remove(groupID, userID uint) error {
	m.state.mu.Lock()
	defer m.state.mu.Unlock()
	if members, ok := m.state.memberships[groupID]; ok {
		delete(members, userID)
	}
	return nil
}

func (m *mockMembershipRepository) Find(groupID, userID uint) (*models.Membership, error) {
	m.state.mu.Lock()
	defer m.state.mu.Unlock()
	if members, ok := m.state.memberships[groupID]; ok {
		if ms, ok := members[userID]; ok {
			c := *ms
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockMembershipRepository) FindLeader(groupID uint) (*models.Membership, error) {
	m.state.mu.Lock()
	defer m.state.mu.Unlock()
	for _, ms := range m.state.memberships[groupID] {
		if ms.Role == models.RoleLeader {
			c := *ms
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockMembershipRepository) ListByGroup(groupID uint) ([]models.Membership, error) {
	m.state.mu.Lock()
	defer m.state.mu.Unlock()
	var out []models.Membership
	for _, ms := range m.state.memberships[groupID] {
		out = append(out, *ms)
	}
	return out, nil
}

func (m *mockMembershipRepository) ListByUser(userID uint, category string) ([]models.Membership, error) {
	m.state.mu.Lock()
	defer m.state.mu.Unlock()
	var out []models.Membership
	for gid, members := range m.state.memberships {
		ms, ok := members[userID]
		if !ok {
			continue
		}
		if category != "" {
			g, ok := m.state.groups[gid]
			if !ok {
				continue
			}
			post, ok := m.state.posts[g.PostID]
			if !ok || post.Category != category {
				continue
			}
		}
		out = append(out, *ms)
	}
	return out, nil
}

func (m *mockMembershipRepository) Save(membership *models.Membership) error {
	m.state.mu.Lock()
	defer m.state.mu.Unlock()
	if _, ok := m.state.memberships[membership.GroupID]; !ok {
		m.state.memberships[membership.GroupID] = make(map[uint]*models.Membership)
	}
	c := *membership
	m.state.memberships[membership.GroupID][membership.UserID] = &c
	return nil
}

func (m *mockMembershipRepository) DeleteByGroup(groupID uint) error {
	m.state.mu.Lock()
	defer m.state.mu.Unlock()
	delete(m.state.memberships, groupID)
	return nil
}

// mockJoinRequestRepository implements repository.JoinRequestRepositoryInterface

type mockJoinRequestRepository struct {
	state *mockState
}

func (m *mockJoinRequestRepository) Create(request *models.JoinRequest) error {
	m.state.mu.Lock()
	defer m.state.mu.Unlock()
	if request.ID == 0 {
		request.ID = m.state.nextRequestID
		m.state.nextRequestID++
	}
	c := *request
	m.state.requests[request.ID] = &c
	return nil
}

func (m *mockJoinRequestRepository) FindByID(id uint) (*models.JoinRequest, error) {
	m.state.mu.Lock()
	defer m.state.mu.Unlock()
	if r, ok := m.state.requests[id]; ok {
		c := *r
		return &c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockJoinRequestRepository) Save(request *models.JoinRequest) error {
	m.state.mu.Lock()
	defer m.state.mu.Unlock()
	c := *request
	m.state.requests[request.ID] = &c
	return nil
}

func (m *mockJoinRequestRepository) Delete(id uint) error {
	m.state.mu.Lock()
	defer m.state.mu.Unlock()
	delete(m.state.requests, id)
	return nil
}

func (m *mockJoinRequestRepository) HasPending(userID, groupID uint) (bool, error) {
	m.state.mu.Lock()
	defer m.state.mu.Unlock()
	for _, r := range m.state.requests {
		if r.UserID == userID && r.GroupID == groupID && r.Status == models.RequestPending {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockJoinRequestRepository) ListByUser(userID uint) ([]models.JoinRequest, error) {
	m.state.mu.Lock()
	defer m.state.mu.Unlock()
	var out []models.JoinRequest
	for _, r := range m.state.requests {
		if r.UserID == userID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *mockJoinRequestRepository) ListByGroup(groupID uint, status models.JoinRequestStatus) ([]models.JoinRequest, error) {
	m.state.mu.Lock()
	defer m.state.mu.Unlock()
	var out []models.JoinRequest
	for _, r := range m.state.requests {
		if r.GroupID != groupID {
			continue
		}
		if status != "" && r.Status != status {
			continue
		}
		out = append(out, *r)
	}
	return out, nil
}

func (m *mockJoinRequestRepository) ListPendingByGroup(groupID uint) ([]models.JoinRequest, error) {
	return m.ListByGroup(groupID, models.RequestPending)
}

func (m *mockJoinRequestRepository) ListPendingForLeader(leaderID uint) ([]models.JoinRequest, error) {
	m.state.mu.Lock()
	defer m.state.mu.Unlock()
	var out []models.JoinRequest
	for _, r := range m.state.requests {
		if r.Status != models.RequestPending {
			continue
		}
		members, ok := m.state.memberships[r.GroupID]
		if !ok {
			continue
		}
		ms, ok := members[leaderID]
		if !ok || ms.Role != models.RoleLeader {
			continue
		}
		out = append(out, *r)
	}
	return out, nil
}

func (m *mockJoinRequestRepository) DeleteByGroup(groupID uint) error {
	m.state.mu.Lock()
	defer m.state.mu.Unlock()
	for id, r := range m.state.requests {
		if r.GroupID == groupID {
			delete(m.state.requests, id)
		}
	}
	return nil
}

// testEngine wires the services over the mock state the way main wires
// them over gorm.
type testEngine struct {
	state     *mockState
	admission *AdmissionService
	groups    *GroupService
	requests  *JoinRequestService
}

func newTestEngine() *testEngine {
	state := newMockState()
	store := &mockStore{state: state}
	requestRepo := &mockJoinRequestRepository{state: state}
	admission := NewAdmissionService(store, requestRepo, nil, 0)
	groups := NewGroupService(
		store,
		&mockGroupRepository{state: state},
		&mockMembershipRepository{state: state},
		&mockPostRepository{state: state},
		admission,
		nil,
	)
	requests := NewJoinRequestService(requestRepo, &mockUserRepository{state: state}, admission)
	return &testEngine{
		state:     state,
		admission: admission,
		groups:    groups,
		requests:  requests,
	}
}
