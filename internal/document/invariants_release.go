//go:build release

package document

const checkInvariants = false
