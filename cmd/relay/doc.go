// Command relay is a development relay: an in-memory key directory plus
// per-account inboxes behind the JSON API the murmur clients speak.
package main
