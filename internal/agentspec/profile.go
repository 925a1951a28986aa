// Package agentspec loads declarative agent profiles from CUE files.
//
// A profile captures what the original deployment hard-codes per agent: its
// role, goal, backstory, the task template it answers with, and - for the
// supervisor - the closed set of routing labels it may emit. Profiles live
// under the top-level "agent" struct of a CUE package:
//
//	agent: supervisor: {
//		role:   "Supervisor Agent"
//		goal:   "Classify user requests and route them."
//		labels: ["coding_task", "rag_task"]
//	}
package agentspec

import "fmt"

// SupervisorName is the profile every deployment must define: the
// decision-maker that routes queries.
const SupervisorName = "supervisor"

// Profile describes one agent.
type Profile struct {
	// Name is the field label under "agent" in the CUE source.
	Name string `json:"-"`

	// Role is the short human-readable identity, e.g. "Supervisor Agent".
	Role string `json:"role"`

	// Goal states what the agent is for. Required.
	Goal string `json:"goal"`

	// Backstory is optional flavor prepended to the system prompt.
	Backstory string `json:"backstory,omitempty"`

	// Expected describes the output shape the agent should produce.
	Expected string `json:"expected,omitempty"`

	// Labels is the closed routing label set (supervisor only). An agent
	// reachable through routing declares the single label it serves.
	Labels []string `json:"labels,omitempty"`
}

// validate checks the fields a usable profile must carry.
func (p Profile) validate() error {
	if p.Role == "" {
		return fmt.Errorf("agent %q: missing role", p.Name)
	}
	if p.Goal == "" {
		return fmt.Errorf("agent %q: missing goal", p.Name)
	}
	return nil
}

// Set is the collection of loaded profiles, keyed by name.
type Set map[string]Profile

// Supervisor returns the routing profile, if defined.
func (s Set) Supervisor() (Profile, bool) {
	p, ok := s[SupervisorName]
	return p, ok
}

// RoutingLabels returns the supervisor's closed label set, empty when no
// supervisor is defined.
func (s Set) RoutingLabels() []string {
	p, ok := s.Supervisor()
	if !ok {
		return nil
	}
	return p.Labels
}
