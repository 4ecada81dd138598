package tx

import (
	"crypto/sha256"

	"github.com/near/borsh-go"

	"veil/errors"
	"veil/keys"
)

// SectionKind tags the payload carried by a section.
type SectionKind byte

const (
	// SectionData carries a borsh-encoded protocol payload.
	SectionData SectionKind = 0
	// SectionSignature carries a detached signature over one of the tx hashes.
	SectionSignature SectionKind = 1
	// SectionScratch carries builder working data. Scratch sections are
	// stripped by ProtocolFilter before submission.
	SectionScratch SectionKind = 2
)

// Signature is a (public-key reference, signature bytes, covered-hash)
// triple.
type Signature struct {
	PubKey     keys.PublicKey
	TargetHash [32]byte
	Bytes      []byte
}

type Section struct {
	Kind      SectionKind
	Data      []byte
	Signature *Signature
}

// Fee is the fee-paying envelope carried in the header. GasPayer is the
// textual public key encoding of the account covering execution fees.
type Fee struct {
	GasToken  string
	GasLimit  uint64
	FeeAmount string
	GasPayer  string
}

// Tx is the transaction container: a header plus an ordered list of
// sections. Sections are mutable only by appending, never by removing,
// except for the final ProtocolFilter pass.
type Tx struct {
	ChainID    string
	Timestamp  uint64
	Expiration uint64
	Fee        Fee
	Sections   []Section
}

// AddSection appends a section. Hashes computed afterwards cover it.
func (t *Tx) AddSection(s Section) {
	t.Sections = append(t.Sections, s)
}

func (t *Tx) SignatureSections() []Section {
	var out []Section
	for _, s := range t.Sections {
		if s.Kind == SectionSignature {
			out = append(out, s)
		}
	}
	return out
}

// RawHash is the hash over the inner payload: the header and the data
// sections, excluding any signatures already attached.
func (t *Tx) RawHash() [32]byte {
	inner := wireTx{
		ChainID:    t.ChainID,
		Timestamp:  t.Timestamp,
		Expiration: t.Expiration,
		Fee:        toWireFee(t.Fee),
	}
	for _, s := range t.Sections {
		if s.Kind == SectionData {
			inner.Sections = append(inner.Sections, toWireSection(s))
		}
	}
	encoded, _ := borsh.Serialize(inner)
	return sha256.Sum256(encoded)
}

// WrapperHash is the hash over the outer envelope: everything appended so
// far, including signature sections. Appending the raw signature before
// computing this hash is what makes the signing order load-bearing.
func (t *Tx) WrapperHash() [32]byte {
	encoded, _ := borsh.Serialize(toWireTx(t))
	return sha256.Sum256(encoded)
}

// Encode serializes the transaction for transport to the signer or ledger.
func (t *Tx) Encode() ([]byte, error) {
	encoded, err := borsh.Serialize(toWireTx(t))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDecode, errors.ErrMsgTxDecode, err)
	}
	return encoded, nil
}

// Decode reconstructs a transaction from its encoded form.
func Decode(data []byte) (*Tx, error) {
	var wire wireTx
	if err := borsh.Deserialize(&wire, data); err != nil {
		return nil, errors.Wrap(errors.ErrCodeDecode, errors.ErrMsgTxDecode, err)
	}
	return fromWireTx(&wire)
}

// ProtocolFilter strips sections not needed for submission. This is the one
// place sections are removed, and it runs only after both signatures are
// attached.
func (t *Tx) ProtocolFilter() {
	kept := t.Sections[:0]
	for _, s := range t.Sections {
		if s.Kind == SectionScratch {
			continue
		}
		kept = append(kept, s)
	}
	t.Sections = kept
}

// ConstructSignature wraps externally produced raw signature bytes into a
// signature section payload covering the given hash. The bytes are shape-
// checked against the key's scheme before they are accepted.
func ConstructSignature(sigBytes []byte, pk keys.PublicKey, target [32]byte) (*Signature, error) {
	if len(sigBytes) == 0 {
		return nil, errors.New(errors.ErrCodeSignature, "empty signature bytes")
	}
	switch pk.Scheme {
	case keys.SchemeEd25519:
		if len(sigBytes) != 64 {
			return nil, errors.Errorf(errors.ErrCodeSignature,
				"bad ed25519 signature length: %d", len(sigBytes))
		}
	case keys.SchemeSecp256k1:
		// DER signatures vary in length; parse to validate shape.
		if !parseableDER(sigBytes) {
			return nil, errors.New(errors.ErrCodeSignature, "malformed secp256k1 signature")
		}
	default:
		return nil, errors.Errorf(errors.ErrCodeSignature, "unknown key scheme %d", byte(pk.Scheme))
	}
	return &Signature{
		PubKey:     pk,
		TargetHash: target,
		Bytes:      append([]byte(nil), sigBytes...),
	}, nil
}

func parseableDER(sig []byte) bool {
	// Minimal DER envelope check: SEQUENCE tag and consistent length.
	return len(sig) >= 8 && sig[0] == 0x30 && int(sig[1]) == len(sig)-2
}
