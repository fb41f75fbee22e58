// Package authz decides which roles may touch which back-office resources.
package authz

import (
	"fmt"

	"github.com/casbin/casbin/v2"
	casbinmodel "github.com/casbin/casbin/v2/model"
)

// RoleAdmin is the only role granted access to the back office
const RoleAdmin = "ADMIN"

// Protected resources
const (
	ObjectCategory = "category"
	ObjectProduct  = "product"
	ObjectCustomer = "customer"
	ObjectOrder    = "order"
	ObjectUser     = "user"
)

// Actions
const (
	ActionRead  = "read"
	ActionWrite = "write"
)

const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && (p.obj == "*" || r.obj == p.obj) && (p.act == "*" || r.act == p.act)
`

// Objects lists every protected resource
func Objects() []string {
	return []string{ObjectCategory, ObjectProduct, ObjectCustomer, ObjectOrder, ObjectUser}
}

// Enforcer checks role permissions
type Enforcer struct {
	enforcer *casbin.Enforcer
}

// NewEnforcer builds an in-memory enforcer granting ADMIN every action on
// every object
func NewEnforcer() (*Enforcer, error) {
	m, err := casbinmodel.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("failed to parse RBAC model: %w", err)
	}
	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize RBAC enforcer: %w", err)
	}

	rules := make([][]string, 0, len(Objects()))
	for _, obj := range Objects() {
		rules = append(rules, []string{RoleAdmin, obj, "*"})
	}
	if _, err := e.AddPolicies(rules); err != nil {
		return nil, fmt.Errorf("failed to load RBAC policy: %w", err)
	}
	return &Enforcer{enforcer: e}, nil
}

// Allowed reports whether any of roles may perform act on obj
func (e *Enforcer) Allowed(roles []string, obj, act string) (bool, error) {
	for _, role := range roles {
		ok, err := e.enforcer.Enforce(role, obj, act)
		if err != nil {
			return false, fmt.Errorf("RBAC permission check failed: %w", err)
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// Inherit makes role hold every permission of parent
func (e *Enforcer) Inherit(role, parent string) error {
	if _, err := e.enforcer.AddGroupingPolicy(role, parent); err != nil {
		return fmt.Errorf("failed to add role %s: %w", role, err)
	}
	return nil
}
