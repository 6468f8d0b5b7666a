package auth

import "github.com/witthaya/shopapi/internal/models"

// Principal is the authenticated identity attached to a request.
type Principal struct {
	ID   uint
	Name string
	Role string
}

type Action string

const (
	ActionManageCatalog     Action = "catalog:manage"
	ActionListUsers         Action = "users:list"
	ActionViewUser          Action = "users:view"
	ActionUpdateUser        Action = "users:update"
	ActionDeleteUser        Action = "users:delete"
	ActionPlaceOrder        Action = "orders:place"
	ActionListOwnOrders     Action = "orders:list_own"
	ActionListAllOrders     Action = "orders:list_all"
	ActionViewOrder         Action = "orders:view"
	ActionViewProductOrders Action = "orders:by_product"
)

// Resource names the owner of the record an action targets; the zero
// value means the action is not ownership-scoped.
type Resource struct {
	OwnerID uint
}

// Allow is the single authorization decision point: every route policy
// and handler-level ownership check goes through here.
func Allow(p Principal, action Action, res Resource) bool {
	switch action {
	case ActionManageCatalog, ActionListUsers, ActionListAllOrders,
		ActionViewOrder, ActionViewProductOrders:
		return p.Role == models.RoleAdmin
	case ActionPlaceOrder, ActionListOwnOrders:
		return p.Role == models.RoleUser
	case ActionViewUser, ActionUpdateUser, ActionDeleteUser:
		return p.Role == models.RoleAdmin || p.ID == res.OwnerID
	}
	return false
}
