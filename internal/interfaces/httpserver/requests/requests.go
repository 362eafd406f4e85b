// Package requests contains HTTP request DTOs for the aura server.
// Resource-specific request types are in the subpackages.
package requests

// WaitQuery asks a mutating endpoint to return only after the background
// advisory work it started has settled.
type WaitQuery struct {
	Wait bool `form:"wait"`
}
