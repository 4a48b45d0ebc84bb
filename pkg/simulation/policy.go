package simulation

import "github.com/tendant/ministry-portal/pkg/client"

// CanStartSimulation reports whether the session may begin a simulation.
// Only administrators may start one.
func CanStartSimulation(s *client.Session) bool {
	return s != nil && s.IsAdmin
}

// CanClearSimulation reports whether the session may end a simulation.
// A simulating session may always exit, even when the simulated identity is
// not an administrator.
func CanClearSimulation(s *client.Session) bool {
	return s != nil && (s.IsAdmin || s.Simulation != nil)
}
