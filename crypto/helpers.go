/*
Package crypto provides the ed25519 keys used to sign transactions.
*/
package crypto

// ExtensionName is used for the Conditions we get from signatures.
const ExtensionName = "sigs"

// Signer is the functionality we use from a private key.
// No serializing to support hardware devices as well.
type Signer interface {
	Sign(message []byte) ([]byte, error)
	PublicKey() *PublicKey
}
