package builder

import (
	"context"

	"veil/client"
	"veil/keys"
	"veil/tx"
)

// Queryer is the slice of the ledger client that construction needs.
type Queryer interface {
	QueryAccount(ctx context.Context, address string) (*client.AccountInfo, error)
	QueryEpoch(ctx context.Context) (uint64, error)
}

// Builder constructs unsigned transactions for each kind. This is the only
// place protocol construction logic lives; callers pass decoded arguments
// and the resolved gas payer and take the result unchanged.
type Builder interface {
	BuildBond(ctx context.Context, args *tx.BondArgs, gasPayer keys.PublicKey) (*tx.Tx, error)
	BuildUnbond(ctx context.Context, args *tx.UnbondArgs, gasPayer keys.PublicKey) (*tx.Tx, error)
	BuildWithdraw(ctx context.Context, args *tx.WithdrawArgs, gasPayer keys.PublicKey) (*tx.Tx, error)
	BuildTransfer(ctx context.Context, args *tx.TransferArgs, gasPayer keys.PublicKey) (*tx.Tx, error)
	BuildIBCTransfer(ctx context.Context, args *tx.IBCTransferArgs, gasPayer keys.PublicKey) (*tx.Tx, error)
	BuildRevealPK(ctx context.Context, args *tx.TxArgs, pk keys.PublicKey, gasPayer keys.PublicKey) (*tx.Tx, error)
}
