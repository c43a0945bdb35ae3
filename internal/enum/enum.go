package enum

// ── State machines (CHECK constrained in DB) ──

const (
	OrderStatusPending   = "Pending"
	OrderStatusCompleted = "Completed"
)

const (
	PaymentStatusUnpaid = "Unpaid"
	PaymentStatusPaid   = "Paid"
)

// ── Service tiers (CHECK constrained in DB) ──
// Values match what the order form submits; renaming breaks stored rows.

const (
	ServiceWashDryFold = "Wash-Dry-Fold"
	ServiceWashOnly    = "Wash-Only"
	ServiceDryOnly     = "Dry-Only"
)

// ── Roles (CHECK constrained in DB) ──

const (
	UserRoleAdmin = "ADMIN"
	UserRoleStaff = "STAFF"
)

// ── Product types (CHECK constrained in DB) ──
// "Detergent" and "Fabric Detergent" are distinguished: only these two
// participate in the usage ledger.

const (
	ProductTypeDetergent       = "Detergent"
	ProductTypeFabricDetergent = "Fabric Detergent"
	ProductTypeSupplies        = "Supplies"
	ProductTypeEquipment       = "Equipment"
)
