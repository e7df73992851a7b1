// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// RoleAdmin is granted every permission unless a blueprint option denies it.
const RoleAdmin = "admin"

// Actor is the user on whose behalf a section is queried. It is passed
// explicitly through the Filter and Projection stages.
type Actor struct {
	// ID is the user identifier (e.g. "alice").
	ID string `json:"id" yaml:"id"`

	// Role names the permission set from the configuration (e.g. "editor").
	Role string `json:"role" yaml:"role"`
}

// IsAnonymous reports whether the actor carries no identity.
func (a Actor) IsAnonymous() bool {
	return a.ID == ""
}
