//go:build !release

package document

// checkInvariants runs Validate after every mutation. Release builds turn it off.
const checkInvariants = true
