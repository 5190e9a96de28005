// Package policy decides which roles may perform which operations.
package policy

import "fmt"

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Roles is the fixed role enumeration.
var Roles = []Role{RoleAdmin, RoleUser}

func ParseRole(s string) (Role, error) {
	for _, r := range Roles {
		if string(r) == s {
			return r, nil
		}
	}
	return "", fmt.Errorf("'role' must be one of: %s, %s", RoleAdmin, RoleUser)
}

type Operation string

const (
	ProductsRead   Operation = "products:read"
	ProductsWrite  Operation = "products:write"
	CustomersRead  Operation = "customers:read"
	CustomersWrite Operation = "customers:write"
	OrdersRead     Operation = "orders:read"
	OrdersWrite    Operation = "orders:write"
	UsersSelf      Operation = "users:self"
	UsersManage    Operation = "users:manage"
)

// Policy is an explicit allow-list of roles per operation. Operations that
// are not listed are denied to everyone.
type Policy struct {
	allow map[Operation]map[Role]struct{}
}

func New(rules map[Operation][]Role) *Policy {
	p := &Policy{allow: make(map[Operation]map[Role]struct{}, len(rules))}
	for op, roles := range rules {
		set := make(map[Role]struct{}, len(roles))
		for _, r := range roles {
			set[r] = struct{}{}
		}
		p.allow[op] = set
	}
	return p
}

// Default grants reads and self-service to every role and all mutations to admins.
func Default() *Policy {
	everyone := []Role{RoleAdmin, RoleUser}
	admins := []Role{RoleAdmin}

	return New(map[Operation][]Role{
		ProductsRead:   everyone,
		ProductsWrite:  admins,
		CustomersRead:  everyone,
		CustomersWrite: admins,
		OrdersRead:     everyone,
		OrdersWrite:    admins,
		UsersSelf:      everyone,
		UsersManage:    admins,
	})
}

func (p *Policy) Allows(role string, op Operation) bool {
	roles, ok := p.allow[op]
	if !ok {
		return false
	}
	_, ok = roles[Role(role)]
	return ok
}
