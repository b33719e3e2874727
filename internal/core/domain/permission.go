package domain

// Permission is an atomic named capability checked by route guards.
type Permission string

// Storefront capabilities (all roles).
const (
	PermViewCars      Permission = "view_cars"
	PermPlaceOrder    Permission = "place_order"
	PermViewOwnOrders Permission = "view_own_orders"
)

// Back-office capabilities (admin and above).
const (
	PermCreateCar         Permission = "create_car"
	PermUpdateCar         Permission = "update_car"
	PermDeleteCar         Permission = "delete_car"
	PermViewOrders        Permission = "view_orders"
	PermUpdateOrderStatus Permission = "update_order_status"
	PermViewUsers         Permission = "view_users"
)

// Super-admin capabilities.
const (
	PermUpdateUser  Permission = "update_user"
	PermAssignRoles Permission = "assign_roles"
	PermDeleteUser  Permission = "delete_user"
)

// PermissionTable maps each role to its allowed permissions. Construct one
// with DefaultPermissions at startup and inject it; the table is read-only
// after construction and safe for concurrent use.
type PermissionTable struct {
	grants map[Role]map[Permission]struct{}
}

// DefaultPermissions builds the static role→permission mapping. Each tier is
// constructed as a superset of the tier below it, which keeps the ordering
// invariant true by construction rather than by review.
func DefaultPermissions() *PermissionTable {
	userPerms := []Permission{
		PermViewCars, PermPlaceOrder, PermViewOwnOrders,
	}
	adminPerms := append([]Permission{
		PermCreateCar, PermUpdateCar, PermDeleteCar,
		PermViewOrders, PermUpdateOrderStatus, PermViewUsers,
	}, userPerms...)
	superAdminPerms := append([]Permission{
		PermUpdateUser, PermAssignRoles, PermDeleteUser,
	}, adminPerms...)

	t := &PermissionTable{grants: make(map[Role]map[Permission]struct{}, 3)}
	t.grant(RoleUser, userPerms)
	t.grant(RoleAdmin, adminPerms)
	t.grant(RoleSuperAdmin, superAdminPerms)
	return t
}

func (t *PermissionTable) grant(role Role, perms []Permission) {
	set := make(map[Permission]struct{}, len(perms))
	for _, p := range perms {
		set[p] = struct{}{}
	}
	t.grants[role] = set
}

// HasPermission reports whether role is granted perm. Unknown roles hold no
// permissions.
func (t *PermissionTable) HasPermission(role Role, perm Permission) bool {
	if !role.Valid() {
		return false
	}
	_, ok := t.grants[role][perm]
	return ok
}

// HasAny reports whether role is granted at least one of perms.
func (t *PermissionTable) HasAny(role Role, perms ...Permission) bool {
	for _, p := range perms {
		if t.HasPermission(role, p) {
			return true
		}
	}
	return false
}

// HasAll reports whether role is granted every one of perms.
func (t *PermissionTable) HasAll(role Role, perms ...Permission) bool {
	for _, p := range perms {
		if !t.HasPermission(role, p) {
			return false
		}
	}
	return true
}
