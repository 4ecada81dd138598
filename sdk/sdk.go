package sdk

import (
	"context"

	"veil/builder"
	"veil/client"
	"veil/errors"
	"veil/keys"
	"veil/logx"
	"veil/shielded"
	"veil/tx"
	"veil/wallet"
)

// Ledger is the slice of the RPC client the orchestrator depends on.
type Ledger interface {
	QueryAccount(ctx context.Context, address string) (*client.AccountInfo, error)
	QueryEpoch(ctx context.Context) (uint64, error)
	BroadcastTx(ctx context.Context, txBytes []byte) (*client.BroadcastResult, error)
}

type Config struct {
	ChainID string
}

// Sdk holds one session's mutable state: the keyring, the shielded context
// and the ledger handle. It assumes single-threaded sequential use; two
// concurrent submissions against the same instance must be serialized by
// the caller.
type Sdk struct {
	ledger   Ledger
	wallet   *wallet.Store
	shielded *shielded.Context
	builder  builder.Builder
	chainID  string
}

func New(ledger Ledger, cfg Config) *Sdk {
	shieldedCtx := &shielded.Context{}
	return &Sdk{
		ledger:   ledger,
		wallet:   wallet.NewStore(),
		shielded: shieldedCtx,
		builder:  builder.NewProtocolBuilder(ledger, shieldedCtx, cfg.ChainID),
		chainID:  cfg.ChainID,
	}
}

// NewWithBuilder swaps the construction backend, primarily for tests.
func NewWithBuilder(ledger Ledger, cfg Config, b builder.Builder) *Sdk {
	s := New(ledger, cfg)
	s.builder = b
	return s
}

// --- Keyring surface ---

func (s *Sdk) AddKey(secretKey string, password string, alias string) error {
	return s.wallet.AddKey(secretKey, password, alias)
}

func (s *Sdk) AddSpendingKey(xsk []byte, password string, alias string) error {
	return s.wallet.AddSpendingKey(xsk, password, alias)
}

func (s *Sdk) EncodeWallet() ([]byte, error) {
	return s.wallet.Encode()
}

// DecodeWallet fully replaces the in-memory keyring.
func (s *Sdk) DecodeWallet(data []byte) error {
	store, err := wallet.Decode(data)
	if err != nil {
		return err
	}
	s.wallet = store
	return nil
}

// ClearStorage resets the keyring to an empty store.
func (s *Sdk) ClearStorage() {
	s.wallet = wallet.NewStore()
}

func (s *Sdk) Wallet() *wallet.Store {
	return s.wallet
}

// --- Shielded parameter surface ---

// LoadShieldedParams loads the proving parameters into this session's
// shielded context. Until it succeeds every shielded build fails with
// params_not_loaded.
func (s *Sdk) LoadShieldedParams(ctx context.Context, src shielded.ParamsSource) error {
	return s.shielded.LoadFromSource(ctx, src)
}

func (s *Sdk) HasShieldedParams() bool {
	return s.shielded.Loaded()
}

// --- Build / submit surface ---

// BuildTx builds an unsigned transaction of the given kind and returns its
// serialized bytes for an external signer. The gas payer arrives in its
// textual public-key encoding and is validated before use.
func (s *Sdk) BuildTx(ctx context.Context, txType tx.TxType, argsBlob []byte, gasPayer string) ([]byte, error) {
	payerPk, err := keys.ParsePublicKey(gasPayer)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDecode, "invalid gas payer public key", err)
	}

	var unsigned *tx.Tx
	switch txType {
	case tx.TxBond:
		args, err := tx.DecodeBondArgs(argsBlob, "")
		if err != nil {
			return nil, err
		}
		unsigned, err = s.builder.BuildBond(ctx, args, payerPk)
		if err != nil {
			return nil, err
		}
	case tx.TxUnbond:
		args, err := tx.DecodeUnbondArgs(argsBlob, "")
		if err != nil {
			return nil, err
		}
		unsigned, err = s.builder.BuildUnbond(ctx, args, payerPk)
		if err != nil {
			return nil, err
		}
	case tx.TxWithdraw:
		args, err := tx.DecodeWithdrawArgs(argsBlob, "")
		if err != nil {
			return nil, err
		}
		unsigned, err = s.builder.BuildWithdraw(ctx, args, payerPk)
		if err != nil {
			return nil, err
		}
	case tx.TxTransfer:
		args, err := tx.DecodeTransferArgs(argsBlob, "", "")
		if err != nil {
			return nil, err
		}
		unsigned, err = s.builder.BuildTransfer(ctx, args, payerPk)
		if err != nil {
			return nil, err
		}
	case tx.TxIBCTransfer:
		args, err := tx.DecodeIBCTransferArgs(argsBlob, "")
		if err != nil {
			return nil, err
		}
		unsigned, err = s.builder.BuildIBCTransfer(ctx, args, payerPk)
		if err != nil {
			return nil, err
		}
	case tx.TxRevealPK:
		args, err := tx.DecodeTxArgs(argsBlob, "")
		if err != nil {
			return nil, err
		}
		if args.VerificationKey == "" {
			return nil, errors.New(errors.ErrCodeMissingRequiredField, errors.ErrMsgVerificationKey)
		}
		pk, err := keys.ParsePublicKey(args.VerificationKey)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeDecode, "invalid verification key", err)
		}
		unsigned, err = s.builder.BuildRevealPK(ctx, args, pk, payerPk)
		if err != nil {
			return nil, err
		}
	default:
		return nil, errors.Errorf(errors.ErrCodeDecode, "unknown tx type %d", int32(txType))
	}

	return unsigned.Encode()
}

// SubmitSignedTx attaches externally produced signatures to previously
// built tx bytes and submits, revealing the signer's key first if needed.
func (s *Sdk) SubmitSignedTx(ctx context.Context, argsBlob, txBytes, rawSig, wrapperSig []byte) error {
	args, err := tx.DecodeTxArgs(argsBlob, "")
	if err != nil {
		return err
	}
	if args.VerificationKey == "" {
		return errors.New(errors.ErrCodeMissingRequiredField, errors.ErrMsgVerificationKey)
	}
	pk, err := keys.ParsePublicKey(args.VerificationKey)
	if err != nil {
		return errors.Wrap(errors.ErrCodeDecode, "invalid verification key", err)
	}

	// Reveal before submission; external signers cannot interleave it.
	if err := s.submitRevealPK(ctx, args, pk, nil); err != nil {
		return err
	}

	signed, err := s.SignTx(txBytes, rawSig, wrapperSig)
	if err != nil {
		return err
	}
	return s.processTx(ctx, signed)
}

// SubmitRevealPK reveals a locally held key on chain. A no-op when the
// ledger already knows the key.
func (s *Sdk) SubmitRevealPK(ctx context.Context, argsBlob []byte, password string) error {
	args, err := tx.DecodeTxArgs(argsBlob, password)
	if err != nil {
		return err
	}
	if args.VerificationKey == "" {
		return errors.New(errors.ErrCodeMissingRequiredField, errors.ErrMsgVerificationKey)
	}
	pk, err := keys.ParsePublicKey(args.VerificationKey)
	if err != nil {
		return errors.Wrap(errors.ErrCodeDecode, "invalid verification key", err)
	}
	sk, err := s.wallet.FindKeyByPublicKey(pk, password)
	if err != nil {
		return err
	}
	return s.submitRevealPK(ctx, args, pk, &sk)
}

// SubmitSignedRevealPK submits an externally signed reveal-pk transaction.
func (s *Sdk) SubmitSignedRevealPK(ctx context.Context, argsBlob, txBytes, rawSig, wrapperSig []byte) error {
	if _, err := tx.DecodeTxArgs(argsBlob, ""); err != nil {
		return err
	}
	signed, err := s.SignTx(txBytes, rawSig, wrapperSig)
	if err != nil {
		return err
	}
	return s.processTx(ctx, signed)
}

// --- End-to-end submissions with locally held keys ---

func (s *Sdk) SubmitTransfer(ctx context.Context, argsBlob []byte, password, spendingKey string) error {
	args, err := tx.DecodeTransferArgs(argsBlob, password, spendingKey)
	if err != nil {
		return err
	}
	source, err := args.EffectiveSource()
	if err != nil {
		return err
	}
	signingData, err := s.signingData(ctx, source, &args.Tx)
	if err != nil {
		return err
	}
	unsigned, err := s.builder.BuildTransfer(ctx, args, signingData.GasPayer)
	if err != nil {
		return err
	}
	return s.signAndProcess(ctx, &args.Tx, unsigned, signingData)
}

func (s *Sdk) SubmitIBCTransfer(ctx context.Context, argsBlob []byte, password string) error {
	args, err := tx.DecodeIBCTransferArgs(argsBlob, password)
	if err != nil {
		return err
	}
	signingData, err := s.signingData(ctx, args.Source, &args.Tx)
	if err != nil {
		return err
	}
	unsigned, err := s.builder.BuildIBCTransfer(ctx, args, signingData.GasPayer)
	if err != nil {
		return err
	}
	return s.signAndProcess(ctx, &args.Tx, unsigned, signingData)
}

func (s *Sdk) SubmitBond(ctx context.Context, argsBlob []byte, password string) error {
	args, err := tx.DecodeBondArgs(argsBlob, password)
	if err != nil {
		return err
	}
	signingData, err := s.signingData(ctx, args.Source, &args.Tx)
	if err != nil {
		return err
	}
	unsigned, err := s.builder.BuildBond(ctx, args, signingData.GasPayer)
	if err != nil {
		return err
	}
	return s.signAndProcess(ctx, &args.Tx, unsigned, signingData)
}

func (s *Sdk) SubmitUnbond(ctx context.Context, argsBlob []byte, password string) error {
	args, err := tx.DecodeUnbondArgs(argsBlob, password)
	if err != nil {
		return err
	}
	signingData, err := s.signingData(ctx, args.Source, &args.Tx)
	if err != nil {
		return err
	}
	unsigned, err := s.builder.BuildUnbond(ctx, args, signingData.GasPayer)
	if err != nil {
		return err
	}
	return s.signAndProcess(ctx, &args.Tx, unsigned, signingData)
}

func (s *Sdk) SubmitWithdraw(ctx context.Context, argsBlob []byte, password string) error {
	args, err := tx.DecodeWithdrawArgs(argsBlob, password)
	if err != nil {
		return err
	}
	signingData, err := s.signingData(ctx, args.Source, &args.Tx)
	if err != nil {
		return err
	}
	unsigned, err := s.builder.BuildWithdraw(ctx, args, signingData.GasPayer)
	if err != nil {
		return err
	}
	return s.signAndProcess(ctx, &args.Tx, unsigned, signingData)
}

// processTx broadcasts a finalized transaction. Failures surface
// immediately; retrying means rebuilding the whole pipeline, since the
// construction may be stale by then.
func (s *Sdk) processTx(ctx context.Context, signed *tx.Tx) error {
	encoded, err := signed.Encode()
	if err != nil {
		return err
	}
	res, err := s.ledger.BroadcastTx(ctx, encoded)
	if err != nil {
		return err
	}
	logx.Info("SDK", "tx accepted: ", res.Hash)
	return nil
}
