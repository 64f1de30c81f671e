package service

import "errors"

// Validation errors. Safe to retry after correcting input.
var (
	ErrInvalidCapacity  = errors.New("capacity must be at least 1")
	ErrAlreadyMember    = errors.New("user is already a member of this group")
	ErrDuplicatePending = errors.New("user already has a pending request for this group")
	ErrNotMember        = errors.New("user is not a member of this group")
	ErrGroupExists      = errors.New("a group already exists for this post")
)

// Authorization errors. Retrying with the same actor will never succeed.
var (
	ErrNotLeader = errors.New("only the group leader may perform this action")
	ErrNotOwner  = errors.New("only the requester may cancel a join request")
)

// Capacity and state errors. Legitimate business outcomes, not faults.
var (
	ErrGroupFull         = errors.New("group is at capacity")
	ErrGroupClosed       = errors.New("group is closed")
	ErrGroupDissolved    = errors.New("group has been dissolved")
	ErrNotPending        = errors.New("join request is no longer pending")
	ErrAlreadyClosed     = errors.New("group is already closed")
	ErrNotClosed         = errors.New("group is not closed")
	ErrLeaderCannotLeave = errors.New("leader cannot leave; transfer leadership or dissolve the group")
	ErrCannotKickLeader  = errors.New("the group leader cannot be kicked")
)

// Infrastructure errors.
var (
	// ErrGroupBusy means the per-group critical section could not be
	// acquired in time. Transient; callers may retry.
	ErrGroupBusy = errors.New("group is busy, try again")
	// ErrInvariantViolation means the occupancy/status invariant was
	// found broken inside the critical section. It indicates a locking
	// bug and must never be retried or swallowed.
	ErrInvariantViolation = errors.New("group state invariant violated")
)
