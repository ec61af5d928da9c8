// Package directory implements clients for the public-key directory, the
// shared profile service mapping account ids to their current public key.
package directory
