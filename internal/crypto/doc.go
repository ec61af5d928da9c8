// Package crypto exposes the message-protocol primitives used by murmur.
//
// Contents
//
//   - P-256 identity key pairs: generation, public-key derivation and
//     validation (GenerateKeyPair, DerivePublicKey, ValidateKeyPair)
//   - ECDH shared-secret derivation and point compression
//     (DeriveSharedSecret, Compress)
//   - AES-256-GCM message encryption with hex wire encoding
//     (Encrypt, Decrypt, NewNonce)
//   - Compact P-256 ECDSA message signatures over the canonical payload
//     (SignMessage, VerifySignature, HashContent)
//   - Short public-key fingerprints for display/logging (Fingerprint)
//
// # Notes
//
// Key and secret sizes use the fixed-size array types defined in
// internal/domain. The byte formats here (65-byte uncompressed points,
// 12-byte GCM nonces, 64-byte r||s signatures, the canonical signature
// payload) are wire contracts shared with every peer; changing any of them
// breaks interoperability.
package crypto
