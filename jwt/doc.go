// Package jwt mints and verifies the short-lived HS256 session tokens
// a Service hands out on full login success. The token carries only the
// username and the standard time claims; anything resembling session
// state belongs to the integrator's session layer.
package jwt
