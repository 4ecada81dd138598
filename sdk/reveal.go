package sdk

import (
	"context"

	"veil/errors"
	"veil/keys"
	"veil/logx"
	"veil/tx"
)

// revealRequired asks the ledger whether pk's address has already revealed
// its key. Reveal is a one-time on-chain fact; once present it stays.
func (s *Sdk) revealRequired(ctx context.Context, pk keys.PublicKey) (bool, error) {
	addr := keys.AddressFromPublicKey(pk)
	account, err := s.ledger.QueryAccount(ctx, addr.String())
	if err != nil {
		return false, errors.Wrap(errors.ErrCodeSubmission, "reveal check failed", err)
	}
	return account.PublicKey == "", nil
}

// submitRevealPK builds and submits a reveal-pk transaction for pk when the
// address has not revealed yet. With a local gas-payer key the reveal is
// signed here; external flows submit it for ledger-side completion.
func (s *Sdk) submitRevealPK(ctx context.Context, args *tx.TxArgs, pk keys.PublicKey, gasPayer *keys.SecretKey) error {
	required, err := s.revealRequired(ctx, pk)
	if err != nil {
		return err
	}
	if !required {
		logx.Debug("SDK", "key already revealed for ", keys.AddressFromPublicKey(pk))
		return nil
	}

	// The signer pays for its own reveal.
	reveal, err := s.builder.BuildRevealPK(ctx, args, pk, pk)
	if err != nil {
		return err
	}

	if gasPayer != nil && !args.FaucetSkipRevealGas {
		lc := tx.NewLifecycle()
		if err := lc.Advance(tx.StageRevealChecked); err != nil {
			return err
		}
		if err := signLocal(reveal, *gasPayer, lc); err != nil {
			return err
		}
	}

	return s.processTx(ctx, reveal)
}

// signAndProcess is the tail of every locally-keyed submission: reveal the
// signer if needed, then sign raw and wrapper in order, then submit. The
// two-phase reveal+submit is not atomic — if the primary submission fails
// after a successful reveal, the address simply stays revealed and the
// caller retries the whole pipeline.
func (s *Sdk) signAndProcess(ctx context.Context, args *tx.TxArgs, unsigned *tx.Tx, signingData *SigningTxData) error {
	lc := tx.NewLifecycle()

	pk, err := signerKey(signingData)
	if err != nil {
		return err
	}
	sk, err := s.wallet.FindKeyByPublicKey(pk, args.Password)
	if err != nil {
		return err
	}

	// Reveal-pk failure short-circuits: the primary tx is never signed.
	if err := s.submitRevealPK(ctx, args, pk, &sk); err != nil {
		return err
	}
	if err := lc.Advance(tx.StageRevealChecked); err != nil {
		return err
	}

	if err := signLocal(unsigned, sk, lc); err != nil {
		return err
	}

	if err := s.processTx(ctx, unsigned); err != nil {
		return err
	}
	return lc.Advance(tx.StageSubmitted)
}
