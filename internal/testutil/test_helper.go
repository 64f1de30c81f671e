package testutil

import (
	"testing"
	"time"

	"github.com/campusmeet/backend/internal/models"
)

// TestHelper provides utility functions for tests
type TestHelper struct {
	t *testing.T
}

func NewTestHelper(t *testing.T) *TestHelper {
	return &TestHelper{t: t}
}

// CreateTestUser creates a test user with default values
func (h *TestHelper) CreateTestUser(id uint, username string) *models.User {
	if id == 0 {
		id = 1
	}
	if username == "" {
		username = "testuser"
	}
	return &models.User{
		ID:       id,
		Username: username,
		Email:    username + "@campus.example",
		FullName: "Test User",
		Major:    "Computer Science",
	}
}

// CreateTestPost creates a meet-up post with the given participant limit
func (h *TestHelper) CreateTestPost(id, authorID uint, limit int) *models.Post {
	if id == 0 {
		id = 1
	}
	if limit == 0 {
		limit = 4
	}
	return &models.Post{
		ID:         id,
		AuthorID:   authorID,
		Title:      "Weekend study session",
		Category:   "study",
		LimitCount: limit,
	}
}

// CreateTestGroup creates a group founded by its leader
func (h *TestHelper) CreateTestGroup(id, postID uint, capacity int) *models.Group {
	if id == 0 {
		id = 1
	}
	if capacity == 0 {
		capacity = 4
	}
	return &models.Group{
		ID:        id,
		PostID:    postID,
		Capacity:  capacity,
		Occupancy: 1,
		Status:    models.GroupActive,
		CreatedAt: time.Now(),
	}
}

// CreateTestRequest creates a pending join request
func (h *TestHelper) CreateTestRequest(id, groupID, userID uint) *models.JoinRequest {
	if id == 0 {
		id = 1
	}
	return &models.JoinRequest{
		ID:          id,
		GroupID:     groupID,
		UserID:      userID,
		Message:     "Count me in",
		Status:      models.RequestPending,
		RequestedAt: time.Now(),
	}
}
