package tx

import (
	"github.com/holiman/uint256"
	"github.com/near/borsh-go"

	"veil/errors"
)

// Encoding counterparts used by hosts and the CLI to produce argument
// blobs. Kept next to the decoders so the positional layouts stay in sync.

func amountString(v *uint256.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

func toWireTxArgs(a TxArgs) wireTxArgs {
	return wireTxArgs{
		ChainID:             a.ChainID,
		GasToken:            a.GasToken,
		GasLimit:            a.GasLimit,
		FeeAmount:           amountString(a.FeeAmount),
		VerificationKey:     a.VerificationKey,
		FaucetSkipRevealGas: a.FaucetSkipRevealGas,
	}
}

func encodeArgsBlob(v interface{}) ([]byte, error) {
	blob, err := borsh.Serialize(v)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDecode, errors.ErrMsgArgsDecode, err)
	}
	return blob, nil
}

func EncodeTxArgs(a *TxArgs) ([]byte, error) {
	return encodeArgsBlob(toWireTxArgs(*a))
}

func EncodeBondArgs(a *BondArgs) ([]byte, error) {
	return encodeArgsBlob(wireBondArgs{
		Tx:        toWireTxArgs(a.Tx),
		Source:    a.Source.String(),
		Validator: a.Validator,
		Amount:    amountString(a.Amount),
	})
}

func EncodeUnbondArgs(a *UnbondArgs) ([]byte, error) {
	return encodeArgsBlob(wireBondArgs{
		Tx:        toWireTxArgs(a.Tx),
		Source:    a.Source.String(),
		Validator: a.Validator,
		Amount:    amountString(a.Amount),
	})
}

func EncodeWithdrawArgs(a *WithdrawArgs) ([]byte, error) {
	return encodeArgsBlob(wireWithdrawArgs{
		Tx:        toWireTxArgs(a.Tx),
		Source:    a.Source.String(),
		Validator: a.Validator,
	})
}

func EncodeTransferArgs(a *TransferArgs) ([]byte, error) {
	return encodeArgsBlob(wireTransferArgs{
		Tx:     toWireTxArgs(a.Tx),
		Source: a.Source,
		Target: a.Target,
		Token:  a.Token,
		Amount: amountString(a.Amount),
	})
}

func EncodeIBCTransferArgs(a *IBCTransferArgs) ([]byte, error) {
	return encodeArgsBlob(wireIBCTransferArgs{
		Tx:            toWireTxArgs(a.Tx),
		Source:        a.Source.String(),
		Receiver:      a.Receiver,
		Token:         a.Token,
		Amount:        amountString(a.Amount),
		PortID:        a.PortID,
		ChannelID:     a.ChannelID,
		TimeoutHeight: a.TimeoutHeight,
	})
}
