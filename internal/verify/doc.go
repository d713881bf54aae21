// Package verify walks the user through a sample of the files reported as
// unique and uses the answers to estimate how many are truly unique.
package verify
