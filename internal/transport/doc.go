// Package transport carries wire envelopes between accounts through the
// relay. Delivery is at-least-once and unordered; envelopes stay in the
// recipient's inbox until explicitly deleted after local persistence.
package transport
