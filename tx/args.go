package tx

import (
	"strings"

	"github.com/holiman/uint256"
	"github.com/near/borsh-go"

	"veil/errors"
	"veil/keys"
)

// ShieldedAddressPrefix marks payment addresses that live in the shielded
// pool. Transfers touching such an address cannot be built before the
// proving parameters are loaded.
const ShieldedAddressPrefix = "zveil"

// TxArgs is the envelope every transaction kind carries: fee and gas
// settings plus the odds and ends of the signing flow. The password never
// travels inside the argument blob; hosts supply it out of band and the
// decoder attaches it.
type TxArgs struct {
	ChainID   string
	GasToken  string
	GasLimit  uint64
	FeeAmount *uint256.Int
	// VerificationKey substitutes for a source address when building a
	// standalone reveal-pk transaction.
	VerificationKey string
	// FaucetSkipRevealGas skips gas-payer auto-completion on the injected
	// reveal-pk tx for faucet-style callers. TODO: drop once the ledger
	// completes faucet gas payers itself.
	FaucetSkipRevealGas bool
	Password            string
}

type BondArgs struct {
	Tx        TxArgs
	Source    keys.Address
	Validator string
	Amount    *uint256.Int
}

type UnbondArgs struct {
	Tx        TxArgs
	Source    keys.Address
	Validator string
	Amount    *uint256.Int
}

type WithdrawArgs struct {
	Tx        TxArgs
	Source    keys.Address
	Validator string
}

type TransferArgs struct {
	Tx     TxArgs
	Source string
	Target string
	Token  string
	Amount *uint256.Int
	// SpendingKey references the shielded key authorizing a spend from the
	// pool. Supplied out of band like the password.
	SpendingKey string
}

// Shielded reports whether the transfer touches the shielded pool.
func (a *TransferArgs) Shielded() bool {
	return a.SpendingKey != "" ||
		strings.HasPrefix(a.Source, ShieldedAddressPrefix) ||
		strings.HasPrefix(a.Target, ShieldedAddressPrefix)
}

// ShieldedPoolAddress is the internal account owning all shielded balances.
// Spends out of the pool are signed for this address.
const ShieldedPoolAddress keys.Address = "veil-shielded-pool"

// EffectiveSource resolves the address that authorizes this transfer: the
// transparent source itself, or the pool's internal account for shielded
// sources.
func (a *TransferArgs) EffectiveSource() (keys.Address, error) {
	if strings.HasPrefix(a.Source, ShieldedAddressPrefix) {
		return ShieldedPoolAddress, nil
	}
	return requireSource(a.Source)
}

type IBCTransferArgs struct {
	Tx            TxArgs
	Source        keys.Address
	Receiver      string
	Token         string
	Amount        *uint256.Int
	PortID        string
	ChannelID     string
	TimeoutHeight uint64
}

// Wire forms. Positional and versionless: reordering fields is a breaking
// change for every host.

type wireTxArgs struct {
	ChainID             string
	GasToken            string
	GasLimit            uint64
	FeeAmount           string
	VerificationKey     string
	FaucetSkipRevealGas bool
}

type wireBondArgs struct {
	Tx        wireTxArgs
	Source    string
	Validator string
	Amount    string
}

type wireWithdrawArgs struct {
	Tx        wireTxArgs
	Source    string
	Validator string
}

type wireTransferArgs struct {
	Tx     wireTxArgs
	Source string
	Target string
	Token  string
	Amount string
}

type wireIBCTransferArgs struct {
	Tx            wireTxArgs
	Source        string
	Receiver      string
	Token         string
	Amount        string
	PortID        string
	ChannelID     string
	TimeoutHeight uint64
}

func decodeArgsBlob(blob []byte, into interface{}) error {
	if err := borsh.Deserialize(into, blob); err != nil {
		return errors.Wrap(errors.ErrCodeDecode, errors.ErrMsgArgsDecode, err)
	}
	return nil
}

func parseAmount(s string) (*uint256.Int, error) {
	if s == "" {
		return uint256.NewInt(0), nil
	}
	v, err := uint256.FromDecimal(s)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDecode, "invalid amount", err)
	}
	return v, nil
}

func fromWireTxArgs(w wireTxArgs, password string) (TxArgs, error) {
	fee, err := parseAmount(w.FeeAmount)
	if err != nil {
		return TxArgs{}, err
	}
	return TxArgs{
		ChainID:             w.ChainID,
		GasToken:            w.GasToken,
		GasLimit:            w.GasLimit,
		FeeAmount:           fee,
		VerificationKey:     w.VerificationKey,
		FaucetSkipRevealGas: w.FaucetSkipRevealGas,
		Password:            password,
	}, nil
}

func requireSource(source string) (keys.Address, error) {
	if source == "" {
		return "", errors.New(errors.ErrCodeMissingRequiredField, errors.ErrMsgSourceRequired)
	}
	addr, err := keys.ParseAddress(source)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeDecode, "invalid source address", err)
	}
	return addr, nil
}

// DecodeTxArgs decodes the bare argument envelope, used for reveal-pk and
// for the externally-signed submission paths.
func DecodeTxArgs(blob []byte, password string) (*TxArgs, error) {
	var w wireTxArgs
	if err := decodeArgsBlob(blob, &w); err != nil {
		return nil, err
	}
	args, err := fromWireTxArgs(w, password)
	if err != nil {
		return nil, err
	}
	return &args, nil
}

func DecodeBondArgs(blob []byte, password string) (*BondArgs, error) {
	var w wireBondArgs
	if err := decodeArgsBlob(blob, &w); err != nil {
		return nil, err
	}
	txArgs, err := fromWireTxArgs(w.Tx, password)
	if err != nil {
		return nil, err
	}
	source, err := requireSource(w.Source)
	if err != nil {
		return nil, err
	}
	amount, err := parseAmount(w.Amount)
	if err != nil {
		return nil, err
	}
	return &BondArgs{Tx: txArgs, Source: source, Validator: w.Validator, Amount: amount}, nil
}

func DecodeUnbondArgs(blob []byte, password string) (*UnbondArgs, error) {
	bond, err := DecodeBondArgs(blob, password)
	if err != nil {
		return nil, err
	}
	return &UnbondArgs{Tx: bond.Tx, Source: bond.Source, Validator: bond.Validator, Amount: bond.Amount}, nil
}

func DecodeWithdrawArgs(blob []byte, password string) (*WithdrawArgs, error) {
	var w wireWithdrawArgs
	if err := decodeArgsBlob(blob, &w); err != nil {
		return nil, err
	}
	txArgs, err := fromWireTxArgs(w.Tx, password)
	if err != nil {
		return nil, err
	}
	source, err := requireSource(w.Source)
	if err != nil {
		return nil, err
	}
	return &WithdrawArgs{Tx: txArgs, Source: source, Validator: w.Validator}, nil
}

func DecodeTransferArgs(blob []byte, password, spendingKey string) (*TransferArgs, error) {
	var w wireTransferArgs
	if err := decodeArgsBlob(blob, &w); err != nil {
		return nil, err
	}
	txArgs, err := fromWireTxArgs(w.Tx, password)
	if err != nil {
		return nil, err
	}
	if w.Source == "" {
		return nil, errors.New(errors.ErrCodeMissingRequiredField, errors.ErrMsgSourceRequired)
	}
	amount, err := parseAmount(w.Amount)
	if err != nil {
		return nil, err
	}
	return &TransferArgs{
		Tx:          txArgs,
		Source:      w.Source,
		Target:      w.Target,
		Token:       w.Token,
		Amount:      amount,
		SpendingKey: spendingKey,
	}, nil
}

func DecodeIBCTransferArgs(blob []byte, password string) (*IBCTransferArgs, error) {
	var w wireIBCTransferArgs
	if err := decodeArgsBlob(blob, &w); err != nil {
		return nil, err
	}
	txArgs, err := fromWireTxArgs(w.Tx, password)
	if err != nil {
		return nil, err
	}
	source, err := requireSource(w.Source)
	if err != nil {
		return nil, err
	}
	amount, err := parseAmount(w.Amount)
	if err != nil {
		return nil, err
	}
	return &IBCTransferArgs{
		Tx:            txArgs,
		Source:        source,
		Receiver:      w.Receiver,
		Token:         w.Token,
		Amount:        amount,
		PortID:        w.PortID,
		ChannelID:     w.ChannelID,
		TimeoutHeight: w.TimeoutHeight,
	}, nil
}
