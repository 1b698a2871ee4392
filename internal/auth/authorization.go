package auth

import (
	"pauller/internal/models"
)

// Mode selects how a guard treats a missing credential.
type Mode int

const (
	// Required rejects the request when the check cannot be satisfied.
	Required Mode = iota
	// Optional records the outcome of the check but never rejects.
	Optional
)

// Capability is a boolean permission flag derived from the account.
type Capability int

const (
	// CapabilityActive gates operations reserved for active accounts.
	CapabilityActive Capability = iota
	// CapabilityAdmin gates operations reserved for administrators.
	CapabilityAdmin
)

// Capabilities is the capability set derived from an account. Both flags are
// false for anonymous requests.
type Capabilities struct {
	IsActive bool `json:"is_active"`
	IsAdmin  bool `json:"is_admin"`
}

// Has returns the value of a single capability flag.
func (caps Capabilities) Has(capability Capability) bool {
	switch capability {
	case CapabilityActive:
		return caps.IsActive
	case CapabilityAdmin:
		return caps.IsAdmin
	}
	return false
}

// Authorization is the per-request derived identity and capability state. It
// is constructed once per request by the authentication middleware and
// discarded when the request ends; it is never shared between requests.
type Authorization struct {
	// Account is nil for anonymous requests on optional-auth routes.
	Account      *models.User
	Capabilities Capabilities
}

// Anonymous reports whether no identity was resolved for the request.
func (a Authorization) Anonymous() bool {
	return a.Account == nil
}

// EvaluateCapabilities projects the capability set from the given account.
// It is a pure function of the account's current state, recomputed on every
// request so that a deactivation or promotion takes effect on the very next
// request.
func EvaluateCapabilities(account *models.User) Capabilities {
	if account == nil {
		return Capabilities{}
	}
	return Capabilities{
		IsActive: account.IsActive,
		IsAdmin:  account.IsAdmin,
	}
}

// Sub reasons attached to permission denials.
const (
	DeniedNotActive = "user is not active"
	DeniedNotAdmin  = "user is not admin"
)

// DenialReason returns the sub reason reported when the given capability is
// missing.
func DenialReason(capability Capability) string {
	if capability == CapabilityAdmin {
		return DeniedNotAdmin
	}
	return DeniedNotActive
}
