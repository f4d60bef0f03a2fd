// Package chain implements chain-of-responsibility request handling: linked
// nodes, an owning ordered container, and plain function composition, all with
// the same pass-through semantics.
package chain
