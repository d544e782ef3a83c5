// Package domain contains the core value types for the provisioner.
//
// This package is the innermost layer. It has no dependencies on
// infrastructure concerns (exec, HTTP, DNS, logging) and describes only
// the outcomes the pipeline produces and the errors it distinguishes.
//
// # Types
//
//   - [CheckResult]: Outcome of a single preflight check
//   - [StepResult]: Outcome of a single provisioning step
//   - [RunReport]: Persisted record of one provisioning pass
//   - [MissingKeyError]: A required configuration key was absent
//   - [PreflightError]: A precondition check failed before any mutation
package domain
