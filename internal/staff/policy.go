package staff

import "errors"

// Action tags gate every mutating or restricted handler. Named verb:resource.
type Action string

const (
	ActionCreatePatient       Action = "create:patient"
	ActionReadPatient         Action = "read:patient"
	ActionUpdatePatient       Action = "update:patient"
	ActionCreateDoctor        Action = "create:doctor"
	ActionReadDoctor          Action = "read:doctor"
	ActionUpdateDoctor        Action = "update:doctor"
	ActionCreateAppointment   Action = "create:appointment"
	ActionReadAppointment     Action = "read:appointment"
	ActionUpdateAppointment   Action = "update:appointment"
	ActionCancelAppointment   Action = "cancel:appointment"
	ActionCompleteAppointment Action = "complete:appointment"
	ActionReadReport          Action = "read:report"
	ActionReadAudit           Action = "read:audit"
	ActionManageSettings      Action = "manage:settings"
	ActionManageUsers         Action = "manage:users"
)

var (
	ErrActionForbidden   = errors.New("role is not permitted to perform this action")
	ErrTwoFactorRequired = errors.New("two-factor authentication is required for this action")
)

// rolePermissions maps each role to its explicit allow-set. Admin matches any
// action via the wildcard. Unknown roles get no entry and are denied.
var rolePermissions = map[Role][]Action{
	RoleAdmin: {actionWildcard},
	RoleDoctor: {
		ActionReadPatient,
		ActionReadDoctor,
		ActionUpdateDoctor,
		ActionReadAppointment,
		ActionUpdateAppointment,
		ActionCompleteAppointment,
		ActionReadReport,
	},
	RoleNurse: {
		ActionReadPatient,
		ActionUpdatePatient,
		ActionReadDoctor,
		ActionReadAppointment,
	},
	RoleStaff: {
		ActionCreatePatient,
		ActionReadPatient,
		ActionUpdatePatient,
		ActionReadDoctor,
		ActionReadAppointment,
		ActionCreateAppointment,
		ActionUpdateAppointment,
		ActionCancelAppointment,
	},
}

const actionWildcard Action = "all"

// sensitiveActions additionally require the actor to have 2FA enabled.
var sensitiveActions = map[Action]bool{
	ActionCreateAppointment: true,
	ActionManageSettings:    true,
	ActionManageUsers:       true,
}

// Policy is the table-driven access evaluator. It is pure: allow/deny only, no
// side effects; the caller decides how to redirect or report a denial.
type Policy struct {
	requireTwoFactor bool
}

func NewPolicy(requireTwoFactor bool) *Policy {
	return &Policy{requireTwoFactor: requireTwoFactor}
}

// Authorize returns nil when actor may perform action, ErrActionForbidden when
// the role's allow-set does not contain it, and ErrTwoFactorRequired when the
// action is sensitive and the actor has not enrolled in 2FA.
func (p *Policy) Authorize(actor Actor, action Action) error {
	if !p.roleAllows(actor.Role, action) {
		return ErrActionForbidden
	}
	if p.requireTwoFactor && sensitiveActions[action] && !actor.TwoFactorEnabled {
		return ErrTwoFactorRequired
	}
	return nil
}

// Sensitive reports whether action is 2FA-gated under the current policy.
func (p *Policy) Sensitive(action Action) bool {
	return p.requireTwoFactor && sensitiveActions[action]
}

func (p *Policy) roleAllows(role Role, action Action) bool {
	allowed, ok := rolePermissions[role]
	if !ok {
		return false
	}
	for _, a := range allowed {
		if a == actionWildcard || a == action {
			return true
		}
	}
	return false
}
