package client

import (
	"context"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/jhttp"

	"veil/errors"
)

type Config struct {
	Endpoint string
}

// LedgerClient talks JSON-RPC over HTTP to a remote ledger node. It is the
// SDK's only network dependency; everything it returns is already decoded
// into the small result structs in types.go.
type LedgerClient struct {
	cfg Config
	ch  *jhttp.Channel
	rpc *jrpc2.Client
}

func NewClient(cfg Config) *LedgerClient {
	ch := jhttp.NewChannel(cfg.Endpoint, nil)
	return &LedgerClient{
		cfg: cfg,
		ch:  ch,
		rpc: jrpc2.NewClient(ch, nil),
	}
}

// QueryAccount fetches the on-chain view of an address. A missing account
// is not an error: Exists is false and PublicKey empty.
func (c *LedgerClient) QueryAccount(ctx context.Context, address string) (*AccountInfo, error) {
	var res AccountInfo
	if err := c.rpc.CallResult(ctx, "account.get", getAccountParams{Address: address}, &res); err != nil {
		return nil, errors.Wrap(errors.ErrCodeSubmission, "account query failed", err)
	}
	return &res, nil
}

// QueryEpoch returns the chain's current epoch, used during construction.
func (c *LedgerClient) QueryEpoch(ctx context.Context) (uint64, error) {
	var res epochResult
	if err := c.rpc.CallResult(ctx, "chain.epoch", nil, &res); err != nil {
		return 0, errors.Wrap(errors.ErrCodeSubmission, "epoch query failed", err)
	}
	return res.Epoch, nil
}

// BroadcastTx submits finalized transaction bytes and waits for the node's
// acceptance result. Ledger rejection surfaces as a submission error; no
// retry happens here.
func (c *LedgerClient) BroadcastTx(ctx context.Context, txBytes []byte) (*BroadcastResult, error) {
	var res BroadcastResult
	if err := c.rpc.CallResult(ctx, "tx.broadcast", broadcastParams{Tx: txBytes}, &res); err != nil {
		return nil, errors.Wrap(errors.ErrCodeSubmission, "broadcast failed", err)
	}
	if res.Code != 0 {
		return nil, errors.Errorf(errors.ErrCodeSubmission, "%s: %s",
			errors.ErrMsgSubmissionRejected, res.Log)
	}
	return &res, nil
}

func (c *LedgerClient) Close() error {
	return c.rpc.Close()
}
