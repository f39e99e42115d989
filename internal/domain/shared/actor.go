package shared

import (
	"github.com/google/uuid"
)

// CapabilityAllBranches lets an actor operate on any branch instead of
// only their home branch
const CapabilityAllBranches = "branch:all"

// Actor is the authenticated principal performing an operation.
// Authorization decisions are made against its capability set, never
// against role names.
type Actor struct {
	UserID       uuid.UUID
	BranchID     uuid.UUID
	RoleCode     string
	Capabilities []string
}

// NewActor creates an actor with the given capability set
func NewActor(userID, branchID uuid.UUID, roleCode string, capabilities []string) Actor {
	return Actor{
		UserID:       userID,
		BranchID:     branchID,
		RoleCode:     roleCode,
		Capabilities: capabilities,
	}
}

// HasCapability checks whether the actor holds the given capability
func (a Actor) HasCapability(capability string) bool {
	for _, c := range a.Capabilities {
		if c == capability {
			return true
		}
	}
	return false
}

// HasAnyCapability checks whether the actor holds at least one of the
// given capabilities
func (a Actor) HasAnyCapability(capabilities ...string) bool {
	for _, c := range capabilities {
		if a.HasCapability(c) {
			return true
		}
	}
	return false
}

// CanAccessBranch reports whether the actor may act on the given branch.
// Actors are scoped to their home branch unless they hold branch:all.
func (a Actor) CanAccessBranch(branchID uuid.UUID) bool {
	if a.HasCapability(CapabilityAllBranches) {
		return true
	}
	return a.BranchID == branchID
}
