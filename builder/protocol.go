package builder

import (
	"context"
	"time"

	"github.com/near/borsh-go"

	"veil/errors"
	"veil/keys"
	"veil/logx"
	"veil/shielded"
	"veil/tx"
)

// Borsh payloads for the data section of each kind.

type bondPayload struct {
	Source    string
	Validator string
	Amount    string
	Epoch     uint64
	Unbond    bool
}

type withdrawPayload struct {
	Source    string
	Validator string
	Epoch     uint64
}

type transferPayload struct {
	Source   string
	Target   string
	Token    string
	Amount   string
	Shielded bool
	Nonce    uint64
}

type ibcTransferPayload struct {
	Source        string
	Receiver      string
	Token         string
	Amount        string
	PortID        string
	ChannelID     string
	TimeoutHeight uint64
}

type revealPKPayload struct {
	Scheme    byte
	PublicKey []byte
}

// shieldedStage is builder working data staged for the prover. It rides in
// a scratch section and never reaches the ledger: ProtocolFilter strips it.
type shieldedStage struct {
	SpendParamLen   uint64
	OutputParamLen  uint64
	ConvertParamLen uint64
	SpendingKey     string
}

// blocksPerEpoch mirrors the chain's epoch length; used only to derive a
// default IBC timeout when the caller leaves it unset.
const blocksPerEpoch = 1024

// ProtocolBuilder is the ledger-protocol construction backend. It queries
// the node for the state a transaction depends on (epoch, account nonce)
// and assembles the unsigned container.
type ProtocolBuilder struct {
	ledger   Queryer
	shielded *shielded.Context
	chainID  string
}

func NewProtocolBuilder(ledger Queryer, shieldedCtx *shielded.Context, chainID string) *ProtocolBuilder {
	return &ProtocolBuilder{ledger: ledger, shielded: shieldedCtx, chainID: chainID}
}

func (b *ProtocolBuilder) newTx(args tx.TxArgs, gasPayer keys.PublicKey) *tx.Tx {
	chainID := args.ChainID
	if chainID == "" {
		chainID = b.chainID
	}
	return &tx.Tx{
		ChainID:   chainID,
		Timestamp: uint64(time.Now().Unix()),
		Fee: tx.Fee{
			GasToken:  args.GasToken,
			GasLimit:  args.GasLimit,
			FeeAmount: amountString(args),
			GasPayer:  gasPayer.String(),
		},
	}
}

func amountString(args tx.TxArgs) string {
	if args.FeeAmount == nil {
		return "0"
	}
	return args.FeeAmount.String()
}

func appendData(t *tx.Tx, payload interface{}) error {
	data, err := borsh.Serialize(payload)
	if err != nil {
		return errors.Wrap(errors.ErrCodeBuild, "encoding tx payload", err)
	}
	t.AddSection(tx.Section{Kind: tx.SectionData, Data: data})
	return nil
}

func (b *ProtocolBuilder) epoch(ctx context.Context) (uint64, error) {
	epoch, err := b.ledger.QueryEpoch(ctx)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeBuild, "querying epoch", err)
	}
	return epoch, nil
}

func (b *ProtocolBuilder) buildStake(ctx context.Context, args *tx.BondArgs, gasPayer keys.PublicKey, unbond bool) (*tx.Tx, error) {
	if args.Validator == "" {
		return nil, errors.New(errors.ErrCodeMissingRequiredField, "validator is required")
	}
	epoch, err := b.epoch(ctx)
	if err != nil {
		return nil, err
	}
	t := b.newTx(args.Tx, gasPayer)
	err = appendData(t, bondPayload{
		Source:    args.Source.String(),
		Validator: args.Validator,
		Amount:    args.Amount.String(),
		Epoch:     epoch,
		Unbond:    unbond,
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (b *ProtocolBuilder) BuildBond(ctx context.Context, args *tx.BondArgs, gasPayer keys.PublicKey) (*tx.Tx, error) {
	return b.buildStake(ctx, args, gasPayer, false)
}

func (b *ProtocolBuilder) BuildUnbond(ctx context.Context, args *tx.UnbondArgs, gasPayer keys.PublicKey) (*tx.Tx, error) {
	bond := tx.BondArgs{Tx: args.Tx, Source: args.Source, Validator: args.Validator, Amount: args.Amount}
	return b.buildStake(ctx, &bond, gasPayer, true)
}

func (b *ProtocolBuilder) BuildWithdraw(ctx context.Context, args *tx.WithdrawArgs, gasPayer keys.PublicKey) (*tx.Tx, error) {
	if args.Validator == "" {
		return nil, errors.New(errors.ErrCodeMissingRequiredField, "validator is required")
	}
	epoch, err := b.epoch(ctx)
	if err != nil {
		return nil, err
	}
	t := b.newTx(args.Tx, gasPayer)
	err = appendData(t, withdrawPayload{
		Source:    args.Source.String(),
		Validator: args.Validator,
		Epoch:     epoch,
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (b *ProtocolBuilder) BuildTransfer(ctx context.Context, args *tx.TransferArgs, gasPayer keys.PublicKey) (*tx.Tx, error) {
	isShielded := args.Shielded()
	var params *shielded.Params
	if isShielded {
		// Guard: a shielded transfer must never be assembled from absent
		// or partial proving parameters.
		var err error
		params, err = b.shielded.Params()
		if err != nil {
			return nil, err
		}
	}

	source, err := args.EffectiveSource()
	if err != nil {
		return nil, err
	}
	account, err := b.ledger.QueryAccount(ctx, source.String())
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeBuild, "querying source account", err)
	}

	t := b.newTx(args.Tx, gasPayer)
	err = appendData(t, transferPayload{
		Source:   args.Source,
		Target:   args.Target,
		Token:    args.Token,
		Amount:   args.Amount.String(),
		Shielded: isShielded,
		Nonce:    account.Nonce,
	})
	if err != nil {
		return nil, err
	}

	if isShielded {
		stage, err := borsh.Serialize(shieldedStage{
			SpendParamLen:   uint64(len(params.Spend)),
			OutputParamLen:  uint64(len(params.Output)),
			ConvertParamLen: uint64(len(params.Convert)),
			SpendingKey:     args.SpendingKey,
		})
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeBuild, "staging shielded proof data", err)
		}
		t.AddSection(tx.Section{Kind: tx.SectionScratch, Data: stage})
		logx.Debug("BUILDER", "staged shielded proof data for ", args.Source)
	}
	return t, nil
}

func (b *ProtocolBuilder) BuildIBCTransfer(ctx context.Context, args *tx.IBCTransferArgs, gasPayer keys.PublicKey) (*tx.Tx, error) {
	if args.ChannelID == "" || args.PortID == "" {
		return nil, errors.New(errors.ErrCodeMissingRequiredField, "IBC port and channel are required")
	}
	timeout := args.TimeoutHeight
	if timeout == 0 {
		epoch, err := b.epoch(ctx)
		if err != nil {
			return nil, err
		}
		timeout = (epoch + 1) * blocksPerEpoch
	}
	t := b.newTx(args.Tx, gasPayer)
	err := appendData(t, ibcTransferPayload{
		Source:        args.Source.String(),
		Receiver:      args.Receiver,
		Token:         args.Token,
		Amount:        args.Amount.String(),
		PortID:        args.PortID,
		ChannelID:     args.ChannelID,
		TimeoutHeight: timeout,
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (b *ProtocolBuilder) BuildRevealPK(ctx context.Context, args *tx.TxArgs, pk keys.PublicKey, gasPayer keys.PublicKey) (*tx.Tx, error) {
	t := b.newTx(*args, gasPayer)
	err := appendData(t, revealPKPayload{
		Scheme:    byte(pk.Scheme),
		PublicKey: pk.Bytes,
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}
