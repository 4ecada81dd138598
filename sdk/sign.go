package sdk

import (
	"veil/keys"
	"veil/tx"
)

// SignTx reassembles a signed transaction from tx bytes and two externally
// produced signature blobs. The raw signature is appended strictly before
// the wrapper signature: the wrapper hash covers the raw signature section,
// so reversing the order produces a different (invalid) covered hash.
func (s *Sdk) SignTx(txBytes, rawSig, wrapperSig []byte) (*tx.Tx, error) {
	t, err := tx.Decode(txBytes)
	if err != nil {
		return nil, err
	}

	rawPk, rawBytes, err := tx.DecodeSignatureMsg(rawSig)
	if err != nil {
		return nil, err
	}
	raw, err := tx.ConstructSignature(rawBytes, rawPk, t.RawHash())
	if err != nil {
		return nil, err
	}
	t.AddSection(tx.Section{Kind: tx.SectionSignature, Signature: raw})

	wrapperPk, wrapperBytes, err := tx.DecodeSignatureMsg(wrapperSig)
	if err != nil {
		return nil, err
	}
	wrapper, err := tx.ConstructSignature(wrapperBytes, wrapperPk, t.WrapperHash())
	if err != nil {
		return nil, err
	}
	t.AddSection(tx.Section{Kind: tx.SectionSignature, Signature: wrapper})

	t.ProtocolFilter()
	return t, nil
}

// signLocal signs an unsigned transaction with a wallet-held key, driving
// the same raw-then-wrapper order through the lifecycle guard.
func signLocal(unsigned *tx.Tx, sk keys.SecretKey, lc *tx.Lifecycle) error {
	pk := sk.PublicKey()

	rawHash := unsigned.RawHash()
	rawBytes, err := sk.Sign(rawHash[:])
	if err != nil {
		return err
	}
	raw, err := tx.ConstructSignature(rawBytes, pk, rawHash)
	if err != nil {
		return err
	}
	unsigned.AddSection(tx.Section{Kind: tx.SectionSignature, Signature: raw})
	if err := lc.Advance(tx.StageSignedRaw); err != nil {
		return err
	}

	wrapperHash := unsigned.WrapperHash()
	wrapperBytes, err := sk.Sign(wrapperHash[:])
	if err != nil {
		return err
	}
	wrapper, err := tx.ConstructSignature(wrapperBytes, pk, wrapperHash)
	if err != nil {
		return err
	}
	unsigned.AddSection(tx.Section{Kind: tx.SectionSignature, Signature: wrapper})
	if err := lc.Advance(tx.StageSignedWrapper); err != nil {
		return err
	}

	unsigned.ProtocolFilter()
	return nil
}
