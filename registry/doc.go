// Package registry holds the set of monitored targets.
//
// The in-memory registry is the single source of truth for which targets
// exist and which are enabled. All mutation goes through validation:
// a target that enters the registry is normalized and valid, so code
// downstream never re-checks. Reads return copies; callers can never reach
// the registry's own state.
package registry
