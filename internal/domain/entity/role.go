// Package entity contains the core business objects of the project.
package entity

import "slices"

// Role represents the type of role a user can have in the system.
type Role string

const (
	// RoleClient indicates a regular buyer account.
	RoleClient Role = "CLIENT"
	// RoleVendor indicates an account allowed to sell assets.
	RoleVendor Role = "VENDOR"
	// RoleAdmin indicates an administrator account.
	RoleAdmin Role = "ADMIN"
)

// String returns the string representation of the Role.
func (r Role) String() string {
	return string(r)
}

// IsValid checks if the Role is a valid value.
func (r Role) IsValid() bool {
	switch r {
	case RoleClient, RoleVendor, RoleAdmin:
		return true
	default:
		return false
	}
}

// Capability is a coarse permission evaluated once per request.
// Business logic checks capabilities, never role literals.
type Capability string

const (
	// CapabilitySell allows listing and selling assets.
	CapabilitySell Capability = "CAN_SELL"
	// CapabilityAdminister allows administrative operations.
	CapabilityAdminister Capability = "CAN_ADMINISTER"
)

// Capabilities returns the closed set of capabilities granted by the role.
func (r Role) Capabilities() []Capability {
	switch r {
	case RoleVendor:
		return []Capability{CapabilitySell}
	case RoleAdmin:
		return []Capability{CapabilitySell, CapabilityAdminister}
	default:
		return nil
	}
}

// HasCapability reports whether the role grants the given capability.
func (r Role) HasCapability(capability Capability) bool {
	return slices.Contains(r.Capabilities(), capability)
}
