package authz

import (
	"context"

	apierrors "github.com/yukikurage/devtrack/internal/errors"
	"github.com/yukikurage/devtrack/internal/models"
	"github.com/yukikurage/devtrack/internal/repository"
)

// Denial reasons, safe to show to the caller.
const (
	ReasonInsufficientRole  = "insufficient role"
	ReasonOutOfScope        = "out of scope"
	ReasonPeerOrSuperior    = "cannot act on peer or superior role"
	ReasonCrossOrganisation = "cross-organisation access"
	ReasonReadOnly          = "read-only access"
	ReasonNoMatchingRule    = "no matching rule"
)

// Decision is the outcome of an authorization check. A denial is a regular
// value, not an error.
type Decision struct {
	Allowed bool
	Reason  string
}

func Allow() Decision {
	return Decision{Allowed: true}
}

func Deny(reason string) Decision {
	return Decision{Reason: reason}
}

// Err returns nil when allowed and an AuthorizationDenied otherwise.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return apierrors.Denied(d.Reason)
}

type request struct {
	actor  Actor
	action Action
	target Target
	facts  Facts
}

// rule returns ok=false when it does not apply to the request.
type rule func(req request) (decision Decision, ok bool)

// rules are evaluated in order; the first that applies decides.
var rules = []rule{
	roleGate,
	selfService,
	managerScope,
	organisationAdminScope,
	superAdmin,
	partnerReadOnly,
}

// Authorize decides whether actor may perform action on target. It has no
// side effects and always returns a decision.
func Authorize(actor Actor, action Action, target Target, facts Facts) Decision {
	req := request{actor: actor, action: action, target: target, facts: facts}
	for _, r := range rules {
		if decision, ok := r(req); ok {
			return decision
		}
	}
	return Deny(ReasonNoMatchingRule)
}

func roleGate(req request) (Decision, bool) {
	category := req.action.Category()
	if !req.actor.Role.IsAtLeast(category.MinimumRole()) {
		return Deny(ReasonInsufficientRole), true
	}
	if category == CategoryRestricted &&
		!req.actor.IsSuperAdmin() &&
		!req.actor.InOrganisation(req.facts.TargetOrganisationID) {
		return Deny(ReasonInsufficientRole), true
	}
	return Decision{}, false
}

func selfService(req request) (Decision, bool) {
	if req.action.Category() == CategoryLogin && req.target.Kind == TargetNone {
		return Allow(), true
	}
	return Decision{}, false
}

// managerScope limits managers to plain users in the teams they manage.
func managerScope(req request) (Decision, bool) {
	if req.actor.Role != models.RoleManager {
		return Decision{}, false
	}

	switch req.target.Kind {
	case TargetUser:
		if req.target.User == nil || req.target.User.Role != models.RoleUser {
			return Deny(ReasonPeerOrSuperior), true
		}
		if !req.facts.ManagesTarget {
			return Deny(ReasonOutOfScope), true
		}
		return Allow(), true
	case TargetTeam:
		if !req.facts.ManagesTarget {
			return Deny(ReasonOutOfScope), true
		}
		if req.target.Subject != nil && req.target.Subject.Role != models.RoleUser {
			return Deny(ReasonPeerOrSuperior), true
		}
		if req.target.Subject != nil && !sameOrganisation(req.facts.SubjectOrganisationID, req.facts.TargetOrganisationID) {
			return Deny(ReasonCrossOrganisation), true
		}
		return Allow(), true
	default:
		return Decision{}, false
	}
}

// organisationAdminScope keeps scoped admins inside their organisation.
// Resources without an organisation are visible to every admin, except
// unscoped admins themselves.
func organisationAdminScope(req request) (Decision, bool) {
	if req.actor.Role != models.RoleAdmin || req.actor.OrganisationID == nil {
		return Decision{}, false
	}

	switch req.target.Kind {
	case TargetUser, TargetTeam, TargetOrganisation:
		if req.target.Kind == TargetUser && req.target.User != nil && NewActor(req.target.User).IsSuperAdmin() {
			return Deny(ReasonPeerOrSuperior), true
		}
		if !withinScope(req.actor, req.facts.TargetOrganisationID) {
			return Deny(ReasonCrossOrganisation), true
		}
		if req.target.Subject != nil && !withinScope(req.actor, req.facts.SubjectOrganisationID) {
			return Deny(ReasonCrossOrganisation), true
		}
		return Allow(), true
	default:
		return Allow(), true
	}
}

// sameOrganisation is false only when both sides are anchored to different
// organisations.
func sameOrganisation(a, b *uint64) bool {
	return a == nil || b == nil || *a == *b
}

func withinScope(actor Actor, organisationID *uint64) bool {
	return organisationID == nil || actor.InOrganisation(organisationID)
}

func superAdmin(req request) (Decision, bool) {
	if req.actor.IsSuperAdmin() {
		return Allow(), true
	}
	return Decision{}, false
}

// partnerReadOnly gives partners read access to the teams they partner.
func partnerReadOnly(req request) (Decision, bool) {
	if req.actor.Role != models.RolePartner || req.target.Kind != TargetTeam {
		return Decision{}, false
	}
	if !req.action.ReadOnly() {
		return Deny(ReasonReadOnly), true
	}
	if !req.facts.PartnersTarget {
		return Deny(ReasonOutOfScope), true
	}
	return Allow(), true
}

// Engine resolves facts from the directory and applies Authorize.
type Engine struct {
	resolver *Resolver
}

func NewEngine(dir repository.DirectoryReader) *Engine {
	return &Engine{resolver: NewResolver(dir)}
}

// Resolver returns the engine's scope resolver.
func (e *Engine) Resolver() *Resolver {
	return e.resolver
}

// Check authorizes one action. The error is reserved for directory faults
// while resolving facts; a denial comes back as a Decision.
func (e *Engine) Check(ctx context.Context, actor Actor, action Action, target Target) (Decision, error) {
	// The role gate needs no facts except for restricted actions.
	if action.Category() != CategoryRestricted {
		if decision, ok := roleGate(request{actor: actor, action: action}); ok {
			return decision, nil
		}
	}

	facts, err := e.resolver.Resolve(ctx, actor, target)
	if err != nil {
		return Decision{}, err
	}
	return Authorize(actor, action, target, facts), nil
}
