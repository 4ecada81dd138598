package keys

import (
	"bytes"
	"crypto/ed25519"
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	secpecdsa "github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"

	"veil/common"
)

// Scheme discriminates the signature scheme a key belongs to. The ledger
// accepts both ed25519 and secp256k1 keys; the scheme byte travels with the
// key in every encoded form.
type Scheme byte

const (
	SchemeEd25519   Scheme = 0
	SchemeSecp256k1 Scheme = 1
)

func (s Scheme) String() string {
	switch s {
	case SchemeEd25519:
		return "ed25519"
	case SchemeSecp256k1:
		return "secp256k1"
	}
	return fmt.Sprintf("scheme(%d)", byte(s))
}

const (
	ed25519PublicKeySize   = ed25519.PublicKeySize
	ed25519SeedSize        = ed25519.SeedSize
	secp256k1PublicKeySize = 33 // compressed
	secp256k1SecretKeySize = 32
)

// PublicKey is a scheme-tagged public key.
type PublicKey struct {
	Scheme Scheme
	Bytes  []byte
}

// SecretKey is a scheme-tagged secret key. For ed25519 the bytes are the
// 32-byte seed, not the expanded 64-byte form.
type SecretKey struct {
	Scheme Scheme
	Bytes  []byte
}

// String encodes the key as base58 over scheme byte || key bytes.
func (pk PublicKey) String() string {
	return common.EncodeBytesToBase58(append([]byte{byte(pk.Scheme)}, pk.Bytes...))
}

func (pk PublicKey) Equal(other PublicKey) bool {
	return pk.Scheme == other.Scheme && bytes.Equal(pk.Bytes, other.Bytes)
}

func (sk SecretKey) String() string {
	return common.EncodeBytesToBase58(append([]byte{byte(sk.Scheme)}, sk.Bytes...))
}

// ParsePublicKey decodes the textual scheme-tagged base58 form.
func ParsePublicKey(s string) (PublicKey, error) {
	raw, err := common.DecodeBase58ToBytes(s)
	if err != nil {
		return PublicKey{}, fmt.Errorf("invalid public key encoding: %w", err)
	}
	if len(raw) < 2 {
		return PublicKey{}, fmt.Errorf("public key too short")
	}
	pk := PublicKey{Scheme: Scheme(raw[0]), Bytes: raw[1:]}
	switch pk.Scheme {
	case SchemeEd25519:
		if len(pk.Bytes) != ed25519PublicKeySize {
			return PublicKey{}, fmt.Errorf("bad ed25519 public key length: %d", len(pk.Bytes))
		}
	case SchemeSecp256k1:
		if len(pk.Bytes) != secp256k1PublicKeySize {
			return PublicKey{}, fmt.Errorf("bad secp256k1 public key length: %d", len(pk.Bytes))
		}
	default:
		return PublicKey{}, fmt.Errorf("unknown key scheme %d", raw[0])
	}
	return pk, nil
}

// ParseSecretKey decodes the textual scheme-tagged base58 form of a secret key.
func ParseSecretKey(s string) (SecretKey, error) {
	raw, err := common.DecodeBase58ToBytes(s)
	if err != nil {
		return SecretKey{}, fmt.Errorf("invalid secret key encoding: %w", err)
	}
	return SecretKeyFromRaw(raw)
}

// SecretKeyFromRaw builds a secret key from scheme byte || key bytes.
func SecretKeyFromRaw(raw []byte) (SecretKey, error) {
	if len(raw) < 2 {
		return SecretKey{}, fmt.Errorf("secret key too short")
	}
	sk := SecretKey{Scheme: Scheme(raw[0]), Bytes: raw[1:]}
	switch sk.Scheme {
	case SchemeEd25519:
		if len(sk.Bytes) != ed25519SeedSize {
			return SecretKey{}, fmt.Errorf("bad ed25519 seed length: %d", len(sk.Bytes))
		}
	case SchemeSecp256k1:
		if len(sk.Bytes) != secp256k1SecretKeySize {
			return SecretKey{}, fmt.Errorf("bad secp256k1 secret key length: %d", len(sk.Bytes))
		}
	default:
		return SecretKey{}, fmt.Errorf("unknown key scheme %d", raw[0])
	}
	return sk, nil
}

// PublicKey derives the public half of the secret key.
func (sk SecretKey) PublicKey() PublicKey {
	switch sk.Scheme {
	case SchemeEd25519:
		priv := ed25519.NewKeyFromSeed(sk.Bytes)
		pub := priv.Public().(ed25519.PublicKey)
		return PublicKey{Scheme: SchemeEd25519, Bytes: append([]byte(nil), pub...)}
	case SchemeSecp256k1:
		priv := secp256k1.PrivKeyFromBytes(sk.Bytes)
		return PublicKey{Scheme: SchemeSecp256k1, Bytes: priv.PubKey().SerializeCompressed()}
	}
	return PublicKey{}
}

// Sign produces a detached signature over msg.
func (sk SecretKey) Sign(msg []byte) ([]byte, error) {
	switch sk.Scheme {
	case SchemeEd25519:
		priv := ed25519.NewKeyFromSeed(sk.Bytes)
		return ed25519.Sign(priv, msg), nil
	case SchemeSecp256k1:
		priv := secp256k1.PrivKeyFromBytes(sk.Bytes)
		sig := secpecdsa.Sign(priv, msg)
		return sig.Serialize(), nil
	}
	return nil, fmt.Errorf("unknown key scheme %d", byte(sk.Scheme))
}

// Verify reports whether sig is a valid signature by pk over msg.
func (pk PublicKey) Verify(msg, sig []byte) bool {
	switch pk.Scheme {
	case SchemeEd25519:
		if len(pk.Bytes) != ed25519PublicKeySize {
			return false
		}
		return ed25519.Verify(ed25519.PublicKey(pk.Bytes), msg, sig)
	case SchemeSecp256k1:
		pub, err := secp256k1.ParsePubKey(pk.Bytes)
		if err != nil {
			return false
		}
		parsed, err := secpecdsa.ParseDERSignature(sig)
		if err != nil {
			return false
		}
		return parsed.Verify(msg, pub)
	}
	return false
}
