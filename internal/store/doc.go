// Package store provides local persistence for Murmur's security core.
//
// Key material lives in JSON files under the configured home directory,
// with the account key pair encrypted at rest under a passphrase. Message
// history lives in a SQLite database accessed through bun. All file stores
// are concurrency-safe via internal locking.
package store
