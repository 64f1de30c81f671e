package handlers

import (
	"errors"
	"log"

	"github.com/campusmeet/backend/internal/httpx"
	"github.com/campusmeet/backend/internal/service"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// serviceError maps the engine's error taxonomy onto HTTP statuses:
// validation 400, authorization 403, unknown entities 404, business
// state conflicts 409, and transient lock contention 503 so clients
// know a retry can succeed.
func serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return httpx.NotFound(c, "not_found", "Resource not found")
	case errors.Is(err, service.ErrInvalidCapacity):
		return httpx.BadRequest(c, "invalid_capacity", err.Error())
	case errors.Is(err, service.ErrGroupExists):
		return httpx.Conflict(c, "group_exists", err.Error())
	case errors.Is(err, service.ErrNotLeader):
		return httpx.Forbidden(c, "not_leader", err.Error())
	case errors.Is(err, service.ErrNotOwner):
		return httpx.Forbidden(c, "not_owner", err.Error())
	case errors.Is(err, service.ErrAlreadyMember):
		return httpx.Conflict(c, "already_member", err.Error())
	case errors.Is(err, service.ErrDuplicatePending):
		return httpx.Conflict(c, "duplicate_pending", err.Error())
	case errors.Is(err, service.ErrNotMember):
		return httpx.Conflict(c, "not_member", err.Error())
	case errors.Is(err, service.ErrGroupFull):
		return httpx.Conflict(c, "group_full", err.Error())
	case errors.Is(err, service.ErrGroupClosed):
		return httpx.Conflict(c, "group_closed", err.Error())
	case errors.Is(err, service.ErrGroupDissolved):
		return httpx.Conflict(c, "group_dissolved", err.Error())
	case errors.Is(err, service.ErrNotPending):
		return httpx.Conflict(c, "not_pending", err.Error())
	case errors.Is(err, service.ErrAlreadyClosed):
		return httpx.Conflict(c, "already_closed", err.Error())
	case errors.Is(err, service.ErrNotClosed):
		return httpx.Conflict(c, "not_closed", err.Error())
	case errors.Is(err, service.ErrLeaderCannotLeave):
		return httpx.Conflict(c, "leader_cannot_leave", err.Error())
	case errors.Is(err, service.ErrCannotKickLeader):
		return httpx.Conflict(c, "cannot_kick_leader", err.Error())
	case errors.Is(err, service.ErrGroupBusy):
		return httpx.Unavailable(c, "group_busy", "Group is busy, please retry")
	case errors.Is(err, service.ErrInvariantViolation):
		// Locking bug; surface loudly, never as a business outcome.
		log.Printf("ALERT: %v", err)
		return httpx.Internal(c, "invariant_violation")
	default:
		return httpx.Internal(c, "internal_error")
	}
}

func paramUint(c *fiber.Ctx, name string) (uint, bool) {
	v, err := c.ParamsInt(name)
	if err != nil || v <= 0 {
		return 0, false
	}
	return uint(v), true
}
