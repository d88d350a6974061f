// Package rate implements the fixed-window request counter that guards
// credguard's sensitive operations. Two backends share one interface: a
// mutex-guarded in-process map for single-instance deployments, and a
// Redis INCR+EXPIRE counter when windows must be shared across
// instances.
package rate
