package handlers

import (
	"github.com/campusmeet/backend/internal/httpx"
	"github.com/campusmeet/backend/internal/service"
	"github.com/campusmeet/backend/internal/validation"
	"github.com/gofiber/fiber/v2"
)

type GroupHandler struct {
	groupService *service.GroupService
}

func NewGroupHandler(groupService *service.GroupService) *GroupHandler {
	return &GroupHandler{groupService: groupService}
}

type CreateGroupRequest struct {
	PostID   uint   `json:"post_id"`
	Title    string `json:"title"`
	Category string `json:"category"`
	Capacity int    `json:"capacity"`
}

// CreateGroup founds a group. The board service posts {post_id,
// capacity} after publishing an announcement; a combined flow may send
// {title, category, capacity} to create the post alongside.
func (h *GroupHandler) CreateGroup(c *fiber.Ctx) error {
	var req CreateGroupRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.BadRequest(c, "invalid_body", "Invalid request body")
	}
	if !validation.ValidateCapacity(req.Capacity) {
		return httpx.BadRequest(c, "invalid_capacity", "Capacity must be at least 1")
	}

	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "missing_identity", "Missing user identity")
	}

	if req.PostID != 0 {
		group, err := h.groupService.CreateGroup(userID, req.PostID, req.Capacity)
		if err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(group)
	}

	if req.Title == "" {
		return httpx.BadRequest(c, "missing_title", "Either post_id or title is required")
	}
	if !validation.ValidateCategory(req.Category) {
		return httpx.BadRequest(c, "invalid_category", "Category too long")
	}
	group, err := h.groupService.CreateGroupWithPost(userID, req.Title, req.Category, req.Capacity)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(group)
}

func (h *GroupHandler) GetGroup(c *fiber.Ctx) error {
	groupID, ok := paramUint(c, "id")
	if !ok {
		return httpx.BadRequest(c, "invalid_group_id", "Invalid group ID")
	}
	group, err := h.groupService.GetGroup(groupID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(group)
}

func (h *GroupHandler) GetGroupByPost(c *fiber.Ctx) error {
	postID, ok := paramUint(c, "post_id")
	if !ok {
		return httpx.BadRequest(c, "invalid_post_id", "Invalid post ID")
	}
	group, err := h.groupService.GetGroupByPostID(postID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(group)
}

func (h *GroupHandler) GetSummary(c *fiber.Ctx) error {
	groupID, ok := paramUint(c, "id")
	if !ok {
		return httpx.BadRequest(c, "invalid_group_id", "Invalid group ID")
	}
	summary, err := h.groupService.GetAdmissionSummary(groupID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(summary)
}

func (h *GroupHandler) GetMembers(c *fiber.Ctx) error {
	groupID, ok := paramUint(c, "id")
	if !ok {
		return httpx.BadRequest(c, "invalid_group_id", "Invalid group ID")
	}
	members, err := h.groupService.GetMembers(groupID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(members)
}

func (h *GroupHandler) GetLeader(c *fiber.Ctx) error {
	groupID, ok := paramUint(c, "id")
	if !ok {
		return httpx.BadRequest(c, "invalid_group_id", "Invalid group ID")
	}
	leader, err := h.groupService.GetLeader(groupID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(leader)
}

// GetMyRole reports the caller's standing in the group for the UI.
func (h *GroupHandler) GetMyRole(c *fiber.Ctx) error {
	groupID, ok := paramUint(c, "id")
	if !ok {
		return httpx.BadRequest(c, "invalid_group_id", "Invalid group ID")
	}
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "missing_identity", "Missing user identity")
	}

	isMember, err := h.groupService.IsMember(userID, groupID)
	if err != nil {
		return serviceError(c, err)
	}
	isLeader := false
	if isMember {
		isLeader, err = h.groupService.IsLeader(userID, groupID)
		if err != nil {
			return serviceError(c, err)
		}
	}
	return c.JSON(fiber.Map{
		"is_member": isMember,
		"is_leader": isLeader,
	})
}

func (h *GroupHandler) GetMyGroups(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "missing_identity", "Missing user identity")
	}
	memberships, err := h.groupService.GetUserGroups(userID, c.Query("category"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(memberships)
}

func (h *GroupHandler) GetMyLedGroups(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "missing_identity", "Missing user identity")
	}
	groups, err := h.groupService.GetLeaderGroups(userID, c.Query("category"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(groups)
}

func (h *GroupHandler) LeaveGroup(c *fiber.Ctx) error {
	groupID, ok := paramUint(c, "id")
	if !ok {
		return httpx.BadRequest(c, "invalid_group_id", "Invalid group ID")
	}
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "missing_identity", "Missing user identity")
	}
	if err := h.groupService.Leave(userID, groupID); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Left group successfully"})
}

type KickRequest struct {
	UserID uint `json:"user_id"`
}

func (h *GroupHandler) KickMember(c *fiber.Ctx) error {
	groupID, ok := paramUint(c, "id")
	if !ok {
		return httpx.BadRequest(c, "invalid_group_id", "Invalid group ID")
	}
	var req KickRequest
	if err := c.BodyParser(&req); err != nil || req.UserID == 0 {
		return httpx.BadRequest(c, "invalid_body", "user_id is required")
	}
	actorID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "missing_identity", "Missing user identity")
	}
	if err := h.groupService.Kick(req.UserID, groupID, actorID); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Member removed"})
}

type TransferRequest struct {
	NewLeaderID uint `json:"new_leader_id"`
}

func (h *GroupHandler) TransferLeadership(c *fiber.Ctx) error {
	groupID, ok := paramUint(c, "id")
	if !ok {
		return httpx.BadRequest(c, "invalid_group_id", "Invalid group ID")
	}
	var req TransferRequest
	if err := c.BodyParser(&req); err != nil || req.NewLeaderID == 0 {
		return httpx.BadRequest(c, "invalid_body", "new_leader_id is required")
	}
	actorID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "missing_identity", "Missing user identity")
	}
	if err := h.groupService.TransferLeadership(actorID, req.NewLeaderID, groupID); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Leadership transferred"})
}

func (h *GroupHandler) CloseGroup(c *fiber.Ctx) error {
	groupID, ok := paramUint(c, "id")
	if !ok {
		return httpx.BadRequest(c, "invalid_group_id", "Invalid group ID")
	}
	actorID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "missing_identity", "Missing user identity")
	}
	if err := h.groupService.Close(groupID, actorID); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Group closed"})
}

func (h *GroupHandler) ReopenGroup(c *fiber.Ctx) error {
	groupID, ok := paramUint(c, "id")
	if !ok {
		return httpx.BadRequest(c, "invalid_group_id", "Invalid group ID")
	}
	actorID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "missing_identity", "Missing user identity")
	}
	if err := h.groupService.Reopen(groupID, actorID); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Group reopened"})
}

func (h *GroupHandler) DissolveGroup(c *fiber.Ctx) error {
	groupID, ok := paramUint(c, "id")
	if !ok {
		return httpx.BadRequest(c, "invalid_group_id", "Invalid group ID")
	}
	actorID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "missing_identity", "Missing user identity")
	}
	if err := h.groupService.Dissolve(groupID, actorID); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Group dissolved"})
}
