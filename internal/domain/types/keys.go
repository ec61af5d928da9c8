package types

const (
	// PrivateKeySize is the length of a P-256 private scalar.
	PrivateKeySize = 32
	// PublicKeySize is the length of an uncompressed P-256 point (0x04 || X || Y).
	PublicKeySize = 65
	// CompressedKeySize is the length of a compressed P-256 point.
	CompressedKeySize = 33
	// SharedSecretSize is the length of an ECDH shared secret (the x-coordinate).
	SharedSecretSize = 32
)

// PrivateKey is a P-256 private scalar.
type PrivateKey [PrivateKeySize]byte

// Slice returns the key as a []byte.
func (k PrivateKey) Slice() []byte { return k[:] }

// PublicKey is an uncompressed P-256 public point. The leading byte is 0x04.
type PublicKey [PublicKeySize]byte

// Slice returns the key as a []byte.
func (p PublicKey) Slice() []byte { return p[:] }

// SharedSecret is the symmetric key derived via ECDH for a peer pair.
type SharedSecret [SharedSecretSize]byte

// Slice returns the secret as a []byte.
func (s SharedSecret) Slice() []byte { return s[:] }

// KeyPair is the long-term identity key pair of an account.
// The public key is always re-derivable from the private key; both are kept
// so loads can be validated against each other.
type KeyPair struct {
	Priv PrivateKey
	Pub  PublicKey
}
