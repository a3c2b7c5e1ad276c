// Package domain contains the Task entity and its partial-update value
// object, TaskPatch. It has no dependencies on storage or transport.
package domain
