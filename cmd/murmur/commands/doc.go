// Package commands implements the murmur CLI: key management, sending,
// receiving and conversation queries against the local security core.
package commands
