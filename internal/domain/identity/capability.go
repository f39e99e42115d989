package identity

import "github.com/retailcore/backend/internal/domain/shared"

// Capability strings gate every operation in the system. Authorization
// checks an actor's capability set, never the role name.
const (
	CapabilityProductManage  = "catalog:manage"
	CapabilityProductRead    = "catalog:read"
	CapabilityBranchManage   = "branch:manage"
	CapabilitySupplierManage = "supplier:manage"
	CapabilityAllBranches    = shared.CapabilityAllBranches

	CapabilityInventoryRead   = "inventory:read"
	CapabilityInventoryAdjust = "inventory:adjust"
	CapabilityInventoryAudit  = "inventory:audit"

	CapabilityProcurementCreate  = "procurement:create"
	CapabilityProcurementApprove = "procurement:approve"
	CapabilityProcurementReceive = "procurement:receive"
	CapabilityProcurementRead    = "procurement:read"

	CapabilityTransferRequest = "transfer:request"
	CapabilityTransferApprove = "transfer:approve"
	CapabilityTransferShip    = "transfer:ship"
	CapabilityTransferReceive = "transfer:receive"
	CapabilityTransferRead    = "transfer:read"

	CapabilitySalesCreate = "sales:create"
	CapabilitySalesCancel = "sales:cancel"
	CapabilitySalesRead   = "sales:read"

	CapabilityUserManage = "user:manage"
	CapabilityRoleManage = "role:manage"
)

// AllCapabilities lists every capability the system knows about
var AllCapabilities = []string{
	CapabilityProductManage,
	CapabilityProductRead,
	CapabilityBranchManage,
	CapabilitySupplierManage,
	CapabilityAllBranches,
	CapabilityInventoryRead,
	CapabilityInventoryAdjust,
	CapabilityInventoryAudit,
	CapabilityProcurementCreate,
	CapabilityProcurementApprove,
	CapabilityProcurementReceive,
	CapabilityProcurementRead,
	CapabilityTransferRequest,
	CapabilityTransferApprove,
	CapabilityTransferShip,
	CapabilityTransferReceive,
	CapabilityTransferRead,
	CapabilitySalesCreate,
	CapabilitySalesCancel,
	CapabilitySalesRead,
	CapabilityUserManage,
	CapabilityRoleManage,
}

// IsKnownCapability returns true if the capability string is recognized
func IsKnownCapability(capability string) bool {
	for _, c := range AllCapabilities {
		if c == capability {
			return true
		}
	}
	return false
}

// System role codes. These roles are seeded at install time and cannot
// be deleted; their capability sets can be tuned per deployment.
const (
	RoleCodeSystemAdministrator = "system_administrator"
	RoleCodeFinanceManager      = "finance_manager"
	RoleCodePurchaseManager     = "purchase_manager"
	RoleCodeStoreManager        = "store_manager"
	RoleCodeStoreStaff          = "store_staff"
	RoleCodeSalesStaff          = "sales_staff"
)

// SystemRoleCapabilities maps each seeded role to its default
// capability set
var SystemRoleCapabilities = map[string][]string{
	RoleCodeSystemAdministrator: AllCapabilities,
	RoleCodeFinanceManager: {
		CapabilityAllBranches,
		CapabilityProductRead,
		CapabilityInventoryRead,
		CapabilityInventoryAudit,
		CapabilityProcurementApprove,
		CapabilityProcurementRead,
		CapabilityTransferRead,
		CapabilitySalesRead,
	},
	RoleCodePurchaseManager: {
		CapabilityProductRead,
		CapabilityInventoryRead,
		CapabilityProcurementCreate,
			CapabilityProcurementRead,
	},
	RoleCodeStoreManager: {
		CapabilityProductRead,
		CapabilityInventoryRead,
		CapabilityInventoryAdjust,
		CapabilityProcurementReceive,
		CapabilityProcurementRead,
		CapabilityTransferRequest,
		CapabilityTransferApprove,
		CapabilityTransferShip,
		CapabilityTransferReceive,
		CapabilityTransferRead,
		CapabilitySalesCreate,
		CapabilitySalesCancel,
		CapabilitySalesRead,
	},
	RoleCodeStoreStaff: {
		CapabilityProductRead,
		CapabilityInventoryRead,
		CapabilityProcurementReceive,
		CapabilityProcurementRead,
		CapabilityTransferShip,
		CapabilityTransferReceive,
		CapabilityTransferRead,
	},
	RoleCodeSalesStaff: {
		CapabilityProductRead,
		CapabilityInventoryRead,
		CapabilitySalesCreate,
		CapabilitySalesRead,
	},
}
