package partner

import (
	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypeBranch   = "Branch"
	AggregateTypeSupplier = "Supplier"
)

// Event type constants
const (
	EventTypeBranchCreated         = "BranchCreated"
	EventTypeBranchUpdated         = "BranchUpdated"
	EventTypeBranchStatusChanged   = "BranchStatusChanged"
	EventTypeSupplierCreated       = "SupplierCreated"
	EventTypeSupplierUpdated       = "SupplierUpdated"
	EventTypeSupplierStatusChanged = "SupplierStatusChanged"
)

// BranchCreatedEvent is raised when a new branch is created
type BranchCreatedEvent struct {
	shared.BaseDomainEvent
	Code string `json:"code"`
	Name string `json:"name"`
}

// NewBranchCreatedEvent creates a new BranchCreatedEvent
func NewBranchCreatedEvent(branch *Branch) *BranchCreatedEvent {
	return &BranchCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBranchCreated, AggregateTypeBranch, branch.ID, branch.ID),
		Code:            branch.Code,
		Name:            branch.Name,
	}
}

// EventType returns the event type name
func (e *BranchCreatedEvent) EventType() string {
	return EventTypeBranchCreated
}

// BranchUpdatedEvent is raised when branch details change
type BranchUpdatedEvent struct {
	shared.BaseDomainEvent
	Code string `json:"code"`
	Name string `json:"name"`
}

// NewBranchUpdatedEvent creates a new BranchUpdatedEvent
func NewBranchUpdatedEvent(branch *Branch) *BranchUpdatedEvent {
	return &BranchUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBranchUpdated, AggregateTypeBranch, branch.ID, branch.ID),
		Code:            branch.Code,
		Name:            branch.Name,
	}
}

// EventType returns the event type name
func (e *BranchUpdatedEvent) EventType() string {
	return EventTypeBranchUpdated
}

// BranchStatusChangedEvent is raised when a branch opens or closes
type BranchStatusChangedEvent struct {
	shared.BaseDomainEvent
	Code   string `json:"code"`
	Active bool   `json:"active"`
}

// NewBranchStatusChangedEvent creates a new BranchStatusChangedEvent
func NewBranchStatusChangedEvent(branch *Branch, active bool) *BranchStatusChangedEvent {
	return &BranchStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBranchStatusChanged, AggregateTypeBranch, branch.ID, branch.ID),
		Code:            branch.Code,
		Active:          active,
	}
}

// EventType returns the event type name
func (e *BranchStatusChangedEvent) EventType() string {
	return EventTypeBranchStatusChanged
}

// SupplierCreatedEvent is raised when a new supplier is created
type SupplierCreatedEvent struct {
	shared.BaseDomainEvent
	Code string `json:"code"`
	Name string `json:"name"`
}

// NewSupplierCreatedEvent creates a new SupplierCreatedEvent
func NewSupplierCreatedEvent(supplier *Supplier) *SupplierCreatedEvent {
	return &SupplierCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSupplierCreated, AggregateTypeSupplier, supplier.ID, uuid.Nil),
		Code:            supplier.Code,
		Name:            supplier.Name,
	}
}

// EventType returns the event type name
func (e *SupplierCreatedEvent) EventType() string {
	return EventTypeSupplierCreated
}

// SupplierUpdatedEvent is raised when supplier details change
type SupplierUpdatedEvent struct {
	shared.BaseDomainEvent
	Code string `json:"code"`
	Name string `json:"name"`
}

// NewSupplierUpdatedEvent creates a new SupplierUpdatedEvent
func NewSupplierUpdatedEvent(supplier *Supplier) *SupplierUpdatedEvent {
	return &SupplierUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSupplierUpdated, AggregateTypeSupplier, supplier.ID, uuid.Nil),
		Code:            supplier.Code,
		Name:            supplier.Name,
	}
}

// EventType returns the event type name
func (e *SupplierUpdatedEvent) EventType() string {
	return EventTypeSupplierUpdated
}

// SupplierStatusChangedEvent is raised when a supplier is activated or
// deactivated
type SupplierStatusChangedEvent struct {
	shared.BaseDomainEvent
	Code   string `json:"code"`
	Active bool   `json:"active"`
}

// NewSupplierStatusChangedEvent creates a new SupplierStatusChangedEvent
func NewSupplierStatusChangedEvent(supplier *Supplier, active bool) *SupplierStatusChangedEvent {
	return &SupplierStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSupplierStatusChanged, AggregateTypeSupplier, supplier.ID, uuid.Nil),
		Code:            supplier.Code,
		Active:          active,
	}
}

// EventType returns the event type name
func (e *SupplierStatusChangedEvent) EventType() string {
	return EventTypeSupplierStatusChanged
}
