// Package middleware provides net/http wrappers around a credguard
// Service. Only the rate-limit guard lives here; authentication
// middleware is the integrator's concern since session mechanics are
// outside credguard.
package middleware
