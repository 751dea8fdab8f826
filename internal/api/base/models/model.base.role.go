package models

// Marketplace roles carried in the JWT and listed in a flow step's authorizedRoles.
const (
	RoleAdmin     = "admin"
	RoleShopOwner = "shop_owner"
	RoleCourier   = "courier"
	RoleClient    = "client"
)

// Roles is the fixed role enum.
var Roles = []string{RoleAdmin, RoleShopOwner, RoleCourier, RoleClient}

// IsValidRole reports whether role is one of Roles.
func IsValidRole(role string) bool {
	for _, r := range Roles {
		if r == role {
			return true
		}
	}
	return false
}
