// Package agents provides a supervisor architecture for routing natural
// language requests across a roster of specialist agents.
//
// A planning supervisor proposes how to satisfy each user turn and the
// engine carries the plan out through pluggable service layers:
//
//   - parser      – turns free-form planning output into an executable plan
//   - executor    – dispatches sequential calls and parallel fan-out groups
//   - synthesizer – reduces specialist outcomes into one final answer
//   - router      – session handling, continuity detection and end-to-end flow
//
// The engine is designed to be embedded in host applications.  End-users
// typically interact with it via the high-level Service façade exposed by
// the root package:
//
//	srv, _ := agents.New(
//	        agents.WithSupervisor(mySupervisor),
//	        agents.WithAgents(calcAgent, travelAgent),
//	)
//	response, _ := srv.Route(ctx, "what is 2+2", userID, sessionID)
//
// For more details see the individual sub-packages.
package agents
