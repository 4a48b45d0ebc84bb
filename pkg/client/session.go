package client

import (
	"encoding/json"
	"log/slog"
	"strconv"
)

// SimulationType tags the variants of the simulation overlay
type SimulationType string

const (
	SimulationImpersonate SimulationType = "impersonate"
	SimulationRoles       SimulationType = "roles"
)

// Overlay is the simulation state layered on top of an authenticated session.
// A nil Overlay means the request runs as the authenticated identity.
// The only implementations are Impersonation and RoleOverride.
type Overlay interface {
	SimulationType() SimulationType
	sealed()
}

// Impersonation means an administrator is acting as another contact.
type Impersonation struct {
	ContactId      int64
	OriginalUserId string
}

func (Impersonation) SimulationType() SimulationType { return SimulationImpersonate }
func (Impersonation) sealed()                        {}

func (i Impersonation) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type           SimulationType `json:"type"`
		ContactId      int64          `json:"contactId"`
		OriginalUserId string         `json:"originalUserId"`
	}{SimulationImpersonate, i.ContactId, i.OriginalUserId})
}

// RoleOverride means an administrator is viewing the application with a
// different role set while keeping their own identity.
type RoleOverride struct {
	OriginalRoles   []string
	OriginalIsAdmin bool
}

func (RoleOverride) SimulationType() SimulationType { return SimulationRoles }
func (RoleOverride) sealed()                        {}

func (o RoleOverride) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type            SimulationType `json:"type"`
		OriginalRoles   []string       `json:"originalRoles"`
		OriginalIsAdmin bool           `json:"originalIsAdmin"`
	}{SimulationRoles, o.OriginalRoles, o.OriginalIsAdmin})
}

// Session is the identity a request is served as. Handlers receive the
// effective session: the authenticated identity with any simulation overlay
// already applied.
type Session struct {
	UserId     string   `json:"userId"`
	Email      string   `json:"email,omitempty"`
	ContactId  int64    `json:"contactId,omitempty"`
	Roles      []string `json:"roles"`
	IsAdmin    bool     `json:"isAdmin"`
	Simulation Overlay  `json:"simulation"`
}

// IsSimulating reports whether an overlay is active
func (s *Session) IsSimulating() bool {
	return s != nil && s.Simulation != nil
}

// Impersonation returns the impersonation overlay, if that is the active variant
func (s *Session) Impersonation() (Impersonation, bool) {
	if s == nil {
		return Impersonation{}, false
	}
	imp, ok := s.Simulation.(Impersonation)
	return imp, ok
}

func (s Session) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("user", s.UserId),
		slog.Bool("admin", s.IsAdmin),
	}
	if s.ContactId != 0 {
		attrs = append(attrs, slog.String("contact", strconv.FormatInt(s.ContactId, 10)))
	}
	if s.Simulation != nil {
		attrs = append(attrs, slog.String("simulation", string(s.Simulation.SimulationType())))
	}
	return slog.GroupValue(attrs...)
}
