package tx

import "fmt"

// TxType discriminates the six transaction kinds the SDK can build. The
// integer values are part of the host contract and must not be reordered.
type TxType int32

const (
	TxBond        TxType = 1
	TxUnbond      TxType = 2
	TxWithdraw    TxType = 3
	TxTransfer    TxType = 4
	TxIBCTransfer TxType = 5
	TxRevealPK    TxType = 6
)

func (t TxType) String() string {
	switch t {
	case TxBond:
		return "bond"
	case TxUnbond:
		return "unbond"
	case TxWithdraw:
		return "withdraw"
	case TxTransfer:
		return "transfer"
	case TxIBCTransfer:
		return "ibc-transfer"
	case TxRevealPK:
		return "reveal-pk"
	}
	return fmt.Sprintf("tx-type(%d)", int32(t))
}

// TxTypeFromInt validates a host-supplied discriminant.
func TxTypeFromInt(v int32) (TxType, error) {
	if v < int32(TxBond) || v > int32(TxRevealPK) {
		return 0, fmt.Errorf("unknown tx type %d", v)
	}
	return TxType(v), nil
}
