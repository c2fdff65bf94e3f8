package auth

import (
	"fmt"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

// Resources and actions used in authorization rules.
const (
	ResourceRatings = "ratings"
	ActionDelete    = "delete"

	RoleAdmin = "admin"
)

const policyModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
`

// Policy maps token roles to permitted actions.
type Policy struct {
	enforcer *casbin.Enforcer
}

// NewPolicy builds the role policy: admins may delete ratings.
// Actions not listed are open to any authenticated caller.
func NewPolicy() (*Policy, error) {
	m, err := model.NewModelFromString(policyModel)
	if err != nil {
		return nil, fmt.Errorf("load policy model: %w", err)
	}
	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("create enforcer: %w", err)
	}
	if _, err := enforcer.AddPolicy(RoleAdmin, ResourceRatings, ActionDelete); err != nil {
		return nil, fmt.Errorf("add policy: %w", err)
	}
	return &Policy{enforcer: enforcer}, nil
}

// Allowed reports whether role may perform act on obj. An empty role is never allowed.
func (p *Policy) Allowed(role, obj, act string) (bool, error) {
	if role == "" {
		return false, nil
	}
	return p.enforcer.Enforce(role, obj, act)
}
