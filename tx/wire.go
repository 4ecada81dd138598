package tx

import (
	"veil/errors"
	"veil/keys"
)

// Wire mirrors keep the borsh layer free of pointers and interface types.
// The format is positional and versionless: field order is the contract.

type wireSignature struct {
	Scheme byte
	PubKey []byte
	Target [32]byte
	Sig    []byte
}

type wireSection struct {
	Kind   byte
	Data   []byte
	HasSig byte
	Sig    wireSignature
}

type wireFee struct {
	GasToken  string
	GasLimit  uint64
	FeeAmount string
	GasPayer  string
}

type wireTx struct {
	ChainID    string
	Timestamp  uint64
	Expiration uint64
	Fee        wireFee
	Sections   []wireSection
}

func toWireFee(f Fee) wireFee {
	return wireFee(f)
}

func toWireSection(s Section) wireSection {
	w := wireSection{Kind: byte(s.Kind), Data: s.Data}
	if s.Signature != nil {
		w.HasSig = 1
		w.Sig = wireSignature{
			Scheme: byte(s.Signature.PubKey.Scheme),
			PubKey: s.Signature.PubKey.Bytes,
			Target: s.Signature.TargetHash,
			Sig:    s.Signature.Bytes,
		}
	}
	return w
}

func toWireTx(t *Tx) wireTx {
	w := wireTx{
		ChainID:    t.ChainID,
		Timestamp:  t.Timestamp,
		Expiration: t.Expiration,
		Fee:        toWireFee(t.Fee),
	}
	for _, s := range t.Sections {
		w.Sections = append(w.Sections, toWireSection(s))
	}
	return w
}

func fromWireTx(w *wireTx) (*Tx, error) {
	t := &Tx{
		ChainID:    w.ChainID,
		Timestamp:  w.Timestamp,
		Expiration: w.Expiration,
		Fee:        Fee(w.Fee),
	}
	for _, ws := range w.Sections {
		s := Section{Kind: SectionKind(ws.Kind), Data: ws.Data}
		if ws.HasSig == 1 {
			pk := keys.PublicKey{Scheme: keys.Scheme(ws.Sig.Scheme), Bytes: ws.Sig.PubKey}
			s.Signature = &Signature{
				PubKey:     pk,
				TargetHash: ws.Sig.Target,
				Bytes:      ws.Sig.Sig,
			}
		}
		if s.Kind > SectionScratch {
			return nil, errors.Errorf(errors.ErrCodeDecode, "unknown section kind %d", ws.Kind)
		}
		t.Sections = append(t.Sections, s)
	}
	return t, nil
}
