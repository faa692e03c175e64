package rbac

import (
	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"

	"github.com/adeleke-taiwo-dev/HR-LeaveFlow/internal/identity"
)

// The role model is a fixed three-tier hierarchy carried on the user record,
// so the policy set is static and compiled in rather than loaded from a
// policy store.
const modelText = `
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

type policy struct {
	role, resource, action string
}

var policies = []policy{
	{identity.RoleEmployee, "leave", "create"},
	{identity.RoleEmployee, "leave", "read_own"},
	{identity.RoleEmployee, "leave", "cancel"},
	{identity.RoleEmployee, "balance", "read_own"},
	{identity.RoleEmployee, "leave_type", "read"},
	{identity.RoleEmployee, "department", "read"},

	{identity.RoleManager, "leave", "read_team"},
	{identity.RoleManager, "leave", "review"},

	{identity.RoleAdmin, "leave", "read_all"},
	{identity.RoleAdmin, "leave", "delete"},
	{identity.RoleAdmin, "leave_type", "manage"},
	{identity.RoleAdmin, "department", "manage"},
	{identity.RoleAdmin, "user", "manage"},
}

// NewEnforcer builds a casbin enforcer preloaded with the static role
// hierarchy (admin > manager > employee) and resource grants.
func NewEnforcer() (*casbin.Enforcer, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}

	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}

	if _, err := e.AddGroupingPolicy(identity.RoleManager, identity.RoleEmployee); err != nil {
		return nil, err
	}
	if _, err := e.AddGroupingPolicy(identity.RoleAdmin, identity.RoleManager); err != nil {
		return nil, err
	}

	for _, p := range policies {
		if _, err := e.AddPolicy(p.role, p.resource, p.action); err != nil {
			return nil, err
		}
	}

	return e, nil
}
