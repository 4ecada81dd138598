package sdk

import (
	"context"

	"veil/errors"
	"veil/keys"
	"veil/tx"
)

// SigningTxData is the resolved signing plan for one submission attempt.
// The SDK supports a single-signer model: PublicKeys is expected to hold
// exactly one key, and resolution fails explicitly rather than guessing
// when a multi-signer account is encountered.
type SigningTxData struct {
	PublicKeys []keys.PublicKey
	GasPayer   keys.PublicKey
	Owner      keys.Address
}

// signingData resolves who must sign for owner. The default signer is the
// owner itself; the ledger is asked for the revealed public key, and the
// local keyring is the fallback for addresses that have not transacted yet.
func (s *Sdk) signingData(ctx context.Context, owner keys.Address, args *tx.TxArgs) (*SigningTxData, error) {
	account, err := s.ledger.QueryAccount(ctx, owner.String())
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSigningDataUnavailable, errors.ErrMsgNoPublicKey, err)
	}

	var pk keys.PublicKey
	switch {
	case account.PublicKey != "":
		pk, err = keys.ParsePublicKey(account.PublicKey)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeSigningDataUnavailable, "ledger returned malformed public key", err)
		}
	default:
		local, ok := s.wallet.FindPublicKeyByAddress(owner)
		if !ok {
			return nil, errors.New(errors.ErrCodeSigningDataUnavailable, errors.ErrMsgNoPublicKey)
		}
		pk = local
	}

	// In this SDK the gas payer is the signer itself; delegated fee
	// payment is a ledger feature the web flow does not use.
	return &SigningTxData{
		PublicKeys: []keys.PublicKey{pk},
		GasPayer:   pk,
		Owner:      owner,
	}, nil
}

// signerKey picks the signing key out of resolved signing data. Zero keys
// is a fatal precondition failure; more than one falls back to the first,
// deterministically — a documented single-signer limitation, not multisig.
func signerKey(signingData *SigningTxData) (keys.PublicKey, error) {
	if len(signingData.PublicKeys) == 0 {
		return keys.PublicKey{}, errors.New(errors.ErrCodeMissingSigner, errors.ErrMsgNoSigner)
	}
	return signingData.PublicKeys[0], nil
}
