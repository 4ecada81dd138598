package tx

import (
	"github.com/near/borsh-go"

	"veil/errors"
	"veil/keys"
)

// External signers hand signatures back as a borsh blob carrying the
// signing key alongside the signature bytes.

type wireSigMsg struct {
	Scheme byte
	PubKey []byte
	Sig    []byte
}

// DecodeSignatureMsg unpacks an externally produced signature blob.
func DecodeSignatureMsg(blob []byte) (keys.PublicKey, []byte, error) {
	var w wireSigMsg
	if err := borsh.Deserialize(&w, blob); err != nil {
		return keys.PublicKey{}, nil, errors.Wrap(errors.ErrCodeSignature, "malformed signature blob", err)
	}
	pk := keys.PublicKey{Scheme: keys.Scheme(w.Scheme), Bytes: w.PubKey}
	if _, err := keys.ParsePublicKey(pk.String()); err != nil {
		return keys.PublicKey{}, nil, errors.Wrap(errors.ErrCodeSignature, "bad signer public key", err)
	}
	return pk, w.Sig, nil
}

// EncodeSignatureMsg is the host-side counterpart of DecodeSignatureMsg.
func EncodeSignatureMsg(pk keys.PublicKey, sig []byte) ([]byte, error) {
	blob, err := borsh.Serialize(wireSigMsg{
		Scheme: byte(pk.Scheme),
		PubKey: pk.Bytes,
		Sig:    sig,
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSignature, "encoding signature blob", err)
	}
	return blob, nil
}
