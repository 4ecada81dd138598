package client

// Params/results mirroring the node's JSON-RPC surface.

type getAccountParams struct {
	Address string `json:"address"`
}

// AccountInfo is the on-chain view of an address. PublicKey is empty until
// the address has revealed its key.
type AccountInfo struct {
	Address   string `json:"address"`
	Exists    bool   `json:"exists"`
	PublicKey string `json:"public_key"`
	Nonce     uint64 `json:"nonce"`
}

type epochResult struct {
	Epoch uint64 `json:"epoch"`
}

type broadcastParams struct {
	Tx []byte `json:"tx"`
}

// BroadcastResult is the node's acceptance verdict. Code zero means the tx
// was accepted into the ledger.
type BroadcastResult struct {
	Hash string `json:"hash"`
	Code uint32 `json:"code"`
	Log  string `json:"log"`
}
