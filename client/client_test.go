package client

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/creachadair/jrpc2/handler"
	"github.com/creachadair/jrpc2/jhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"veil/errors"
)

func newTestNode(t *testing.T, rejectLog string) *LedgerClient {
	t.Helper()
	bridge := jhttp.NewBridge(handler.Map{
		"account.get": handler.New(func(_ context.Context, params getAccountParams) (AccountInfo, error) {
			if params.Address == "revealed" {
				return AccountInfo{Address: params.Address, Exists: true, PublicKey: "pk-string", Nonce: 7}, nil
			}
			return AccountInfo{Address: params.Address}, nil
		}),
		"chain.epoch": handler.New(func(context.Context) (epochResult, error) {
			return epochResult{Epoch: 42}, nil
		}),
		"tx.broadcast": handler.New(func(_ context.Context, params broadcastParams) (BroadcastResult, error) {
			if rejectLog != "" {
				return BroadcastResult{Code: 1, Log: rejectLog}, nil
			}
			return BroadcastResult{Hash: "deadbeef"}, nil
		}),
	}, nil)
	srv := httptest.NewServer(bridge)
	t.Cleanup(func() {
		srv.Close()
		bridge.Close()
	})

	c := NewClient(Config{Endpoint: srv.URL})
	t.Cleanup(func() { c.Close() })
	return c
}

func TestQueryAccount(t *testing.T) {
	c := newTestNode(t, "")

	acct, err := c.QueryAccount(context.Background(), "revealed")
	require.NoError(t, err)
	assert.True(t, acct.Exists)
	assert.Equal(t, "pk-string", acct.PublicKey)
	assert.Equal(t, uint64(7), acct.Nonce)

	missing, err := c.QueryAccount(context.Background(), "unknown")
	require.NoError(t, err)
	assert.False(t, missing.Exists)
	assert.Empty(t, missing.PublicKey)
}

func TestQueryEpoch(t *testing.T) {
	c := newTestNode(t, "")
	epoch, err := c.QueryEpoch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(42), epoch)
}

func TestBroadcastTx(t *testing.T) {
	c := newTestNode(t, "")
	res, err := c.BroadcastTx(context.Background(), []byte{0x01, 0x02})
	require.NoError(t, err)
	assert.Equal(t, "deadbeef", res.Hash)
}

func TestBroadcastTxRejected(t *testing.T) {
	c := newTestNode(t, "insufficient balance")
	_, err := c.BroadcastTx(context.Background(), []byte{0x01})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeSubmission))
	assert.Contains(t, err.Error(), "insufficient balance")
}

func TestQueryAgainstDeadEndpoint(t *testing.T) {
	c := NewClient(Config{Endpoint: "http://127.0.0.1:1"})
	defer c.Close()
	_, err := c.QueryEpoch(context.Background())
	assert.True(t, errors.HasCode(err, errors.ErrCodeSubmission))
}
