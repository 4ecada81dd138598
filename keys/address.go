package keys

import (
	"crypto/sha256"
	"fmt"

	"veil/common"
)

// addressSize is the truncated digest length carried in an address.
const addressSize = 20

// addressVersion prefixes every encoded address so that addresses and keys
// cannot be confused on the wire.
const addressVersion byte = 0x56

// Address is the textual account identifier derived from a public key.
type Address string

// AddressFromPublicKey derives the account address: the first 20 bytes of
// sha256 over scheme byte || public key bytes, versioned and base58-encoded.
func AddressFromPublicKey(pk PublicKey) Address {
	digest := sha256.Sum256(append([]byte{byte(pk.Scheme)}, pk.Bytes...))
	payload := append([]byte{addressVersion}, digest[:addressSize]...)
	return Address(common.EncodeBytesToBase58(payload))
}

// ParseAddress validates the textual form and returns it as an Address.
func ParseAddress(s string) (Address, error) {
	raw, err := common.DecodeBase58Sized(s, addressSize+1)
	if err != nil {
		return "", fmt.Errorf("invalid address: %w", err)
	}
	if raw[0] != addressVersion {
		return "", fmt.Errorf("invalid address: bad version byte %#x", raw[0])
	}
	return Address(s), nil
}

func (a Address) String() string {
	return string(a)
}
