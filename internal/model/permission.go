package model

// Permission is an integer bitmask where each bit represents an independent
// capability.  Roles carry one mask; checking a capability is a single AND.
type Permission int

// Capability bits.  The zero mask grants nothing.
const (
    PermRead   Permission = 1 << iota // view protected content
    PermWrite                         // create and modify content
    PermManage                        // administer roles and users
)

// Has reports whether every bit of p is present in the mask.
func (m Permission) Has(p Permission) bool { return m&p == p }

// With returns the mask with the given bits added.
func (m Permission) With(p Permission) Permission { return m | p }

// Without returns the mask with the given bits cleared.
func (m Permission) Without(p Permission) Permission { return m &^ p }
