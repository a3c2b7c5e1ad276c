// Package mocks provides hand-written test doubles for the store and service
// interfaces. Each mock exposes function fields (e.g. CreateFn) that override
// the default behavior when set.
package mocks
