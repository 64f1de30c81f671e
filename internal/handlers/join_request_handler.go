package handlers

import (
	"github.com/campusmeet/backend/internal/httpx"
	"github.com/campusmeet/backend/internal/models"
	"github.com/campusmeet/backend/internal/service"
	"github.com/campusmeet/backend/internal/validation"
	"github.com/gofiber/fiber/v2"
)

type JoinRequestHandler struct {
	requestService *service.JoinRequestService
	admission      *service.AdmissionService
}

func NewJoinRequestHandler(requestService *service.JoinRequestService, admission *service.AdmissionService) *JoinRequestHandler {
	return &JoinRequestHandler{
		requestService: requestService,
		admission:      admission,
	}
}

type SubmitRequest struct {
	Message string `json:"message"`
}

func (h *JoinRequestHandler) Submit(c *fiber.Ctx) error {
	groupID, ok := paramUint(c, "id")
	if !ok {
		return httpx.BadRequest(c, "invalid_group_id", "Invalid group ID")
	}
	var req SubmitRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.BadRequest(c, "invalid_body", "Invalid request body")
	}
	if !validation.ValidateMessage(req.Message) {
		return httpx.BadRequest(c, "message_too_long", "Message is too long")
	}
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "missing_identity", "Missing user identity")
	}

	request, err := h.requestService.Submit(userID, groupID, validation.NormalizeMessage(req.Message))
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(request)
}

func (h *JoinRequestHandler) Cancel(c *fiber.Ctx) error {
	requestID, ok := paramUint(c, "id")
	if !ok {
		return httpx.BadRequest(c, "invalid_request_id", "Invalid request ID")
	}
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "missing_identity", "Missing user identity")
	}
	if err := h.requestService.Cancel(requestID, userID); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Request cancelled"})
}

func (h *JoinRequestHandler) Approve(c *fiber.Ctx) error {
	requestID, ok := paramUint(c, "id")
	if !ok {
		return httpx.BadRequest(c, "invalid_request_id", "Invalid request ID")
	}
	actorID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "missing_identity", "Missing user identity")
	}
	request, err := h.admission.Approve(requestID, actorID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(request)
}

func (h *JoinRequestHandler) Reject(c *fiber.Ctx) error {
	requestID, ok := paramUint(c, "id")
	if !ok {
		return httpx.BadRequest(c, "invalid_request_id", "Invalid request ID")
	}
	actorID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "missing_identity", "Missing user identity")
	}
	request, err := h.admission.Reject(requestID, actorID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(request)
}

func (h *JoinRequestHandler) GetMyRequests(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "missing_identity", "Missing user identity")
	}
	requests, err := h.requestService.GetUserRequests(userID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(requests)
}

// GetInbox lists pending requests across every group the caller leads.
func (h *JoinRequestHandler) GetInbox(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "missing_identity", "Missing user identity")
	}
	requests, err := h.requestService.GetPendingForLeader(userID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(requests)
}

func (h *JoinRequestHandler) GetGroupRequests(c *fiber.Ctx) error {
	groupID, ok := paramUint(c, "id")
	if !ok {
		return httpx.BadRequest(c, "invalid_group_id", "Invalid group ID")
	}
	status := models.JoinRequestStatus(c.Query("status"))
	switch status {
	case "", models.RequestPending, models.RequestApproved, models.RequestRejected:
	default:
		return httpx.BadRequest(c, "invalid_status", "Unknown status filter")
	}
	requests, err := h.requestService.GetGroupRequests(groupID, status)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(requests)
}
