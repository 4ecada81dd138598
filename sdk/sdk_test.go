package sdk

import (
	"context"
	"crypto/rand"
	"fmt"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"veil/client"
	"veil/errors"
	"veil/keys"
	"veil/tx"
)

// fakeLedger serves canned accounts and records every broadcast.
type fakeLedger struct {
	epoch     uint64
	accounts  map[string]*client.AccountInfo
	broadcast [][]byte
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{epoch: 3, accounts: make(map[string]*client.AccountInfo)}
}

func (f *fakeLedger) QueryAccount(_ context.Context, address string) (*client.AccountInfo, error) {
	if acct, ok := f.accounts[address]; ok {
		return acct, nil
	}
	return nil, fmt.Errorf("no such account %s", address)
}

func (f *fakeLedger) QueryEpoch(context.Context) (uint64, error) {
	return f.epoch, nil
}

func (f *fakeLedger) BroadcastTx(_ context.Context, txBytes []byte) (*client.BroadcastResult, error) {
	f.broadcast = append(f.broadcast, txBytes)
	return &client.BroadcastResult{Hash: fmt.Sprintf("hash-%d", len(f.broadcast))}, nil
}

// addAccount registers an address. revealed controls whether the ledger
// already knows its public key.
func (f *fakeLedger) addAccount(addr keys.Address, pk keys.PublicKey, revealed bool) {
	info := &client.AccountInfo{Address: addr.String(), Exists: true}
	if revealed {
		info.PublicKey = pk.String()
	}
	f.accounts[addr.String()] = info
}

func newSigner(t *testing.T) (keys.SecretKey, keys.PublicKey, keys.Address) {
	t.Helper()
	seed := make([]byte, 32)
	_, err := rand.Read(seed)
	require.NoError(t, err)
	sk := keys.SecretKey{Scheme: keys.SchemeEd25519, Bytes: seed}
	pk := sk.PublicKey()
	return sk, pk, keys.AddressFromPublicKey(pk)
}

func newTestSdk(t *testing.T, ledger *fakeLedger) *Sdk {
	t.Helper()
	return New(ledger, Config{ChainID: "veil-test-1"})
}

func transferBlob(t *testing.T, source, target keys.Address) []byte {
	t.Helper()
	blob, err := tx.EncodeTransferArgs(&tx.TransferArgs{
		Tx: tx.TxArgs{
			ChainID:   "veil-test-1",
			GasToken:  "VEIL",
			GasLimit:  200_000,
			FeeAmount: uint256.NewInt(10),
		},
		Source: source.String(),
		Target: target.String(),
		Token:  "VEIL",
		Amount: uint256.NewInt(42),
	})
	require.NoError(t, err)
	return blob
}

func TestSubmitTransferRevealsUnrevealedSigner(t *testing.T) {
	sk, pk, addr := newSigner(t)
	_, _, target := newSigner(t)

	ledger := newFakeLedger()
	ledger.addAccount(addr, pk, false)
	s := newTestSdk(t, ledger)
	require.NoError(t, s.AddKey(sk.String(), "pw", "main"))

	err := s.SubmitTransfer(context.Background(), transferBlob(t, addr, target), "pw", "")
	require.NoError(t, err)

	// Reveal-pk first, then the transfer itself.
	require.Len(t, ledger.broadcast, 2)

	reveal, err := tx.Decode(ledger.broadcast[0])
	require.NoError(t, err)
	// The reveal was signed locally: one data section plus two signatures.
	assert.Len(t, reveal.SignatureSections(), 2)

	transfer, err := tx.Decode(ledger.broadcast[1])
	require.NoError(t, err)
	assert.Len(t, transfer.SignatureSections(), 2)
}

func TestSubmitTransferSkipsRevealWhenRevealed(t *testing.T) {
	sk, pk, addr := newSigner(t)
	_, _, target := newSigner(t)

	ledger := newFakeLedger()
	ledger.addAccount(addr, pk, true)
	s := newTestSdk(t, ledger)
	require.NoError(t, s.AddKey(sk.String(), "", "main"))

	err := s.SubmitTransfer(context.Background(), transferBlob(t, addr, target), "", "")
	require.NoError(t, err)
	require.Len(t, ledger.broadcast, 1)
}

func TestSubmitTransferSignatureOrder(t *testing.T) {
	sk, pk, addr := newSigner(t)
	_, _, target := newSigner(t)

	ledger := newFakeLedger()
	ledger.addAccount(addr, pk, true)
	s := newTestSdk(t, ledger)
	require.NoError(t, s.AddKey(sk.String(), "", "main"))

	require.NoError(t, s.SubmitTransfer(context.Background(), transferBlob(t, addr, target), "", ""))
	require.Len(t, ledger.broadcast, 1)

	signed, err := tx.Decode(ledger.broadcast[0])
	require.NoError(t, err)
	sigs := signed.SignatureSections()
	require.Len(t, sigs, 2)

	// The first signature covers the raw hash, which ignores signature
	// sections and therefore still matches after assembly.
	assert.Equal(t, signed.RawHash(), sigs[0].Signature.TargetHash)
	// The second covers a wrapper hash that includes the first signature,
	// so the two targets must differ.
	assert.NotEqual(t, sigs[0].Signature.TargetHash, sigs[1].Signature.TargetHash)

	rawHash := sigs[0].Signature.TargetHash
	assert.True(t, pk.Verify(rawHash[:], sigs[0].Signature.Bytes))
	wrapperHash := sigs[1].Signature.TargetHash
	assert.True(t, pk.Verify(wrapperHash[:], sigs[1].Signature.Bytes))
}

func TestSubmitTransferWrongPassword(t *testing.T) {
	sk, pk, addr := newSigner(t)
	_, _, target := newSigner(t)

	ledger := newFakeLedger()
	ledger.addAccount(addr, pk, true)
	s := newTestSdk(t, ledger)
	require.NoError(t, s.AddKey(sk.String(), "pw", "main"))

	err := s.SubmitTransfer(context.Background(), transferBlob(t, addr, target), "wrong", "")
	assert.True(t, errors.HasCode(err, errors.ErrCodeKeyNotFound))
	assert.Empty(t, ledger.broadcast)
}

func TestSubmitTransferUnknownAccount(t *testing.T) {
	sk, _, addr := newSigner(t)
	_, _, target := newSigner(t)

	ledger := newFakeLedger()
	s := newTestSdk(t, ledger)
	require.NoError(t, s.AddKey(sk.String(), "", "main"))

	err := s.SubmitTransfer(context.Background(), transferBlob(t, addr, target), "", "")
	assert.True(t, errors.HasCode(err, errors.ErrCodeSigningDataUnavailable))
}

func TestSubmitBondLifecycle(t *testing.T) {
	sk, pk, addr := newSigner(t)

	ledger := newFakeLedger()
	ledger.addAccount(addr, pk, true)
	s := newTestSdk(t, ledger)
	require.NoError(t, s.AddKey(sk.String(), "", "main"))

	blob, err := tx.EncodeBondArgs(&tx.BondArgs{
		Tx:        tx.TxArgs{GasToken: "VEIL", GasLimit: 200_000},
		Source:    addr,
		Validator: "validator-1",
		Amount:    uint256.NewInt(1_000),
	})
	require.NoError(t, err)

	require.NoError(t, s.SubmitBond(context.Background(), blob, ""))
	require.Len(t, ledger.broadcast, 1)
}

func TestBuildTxAllKinds(t *testing.T) {
	_, pk, addr := newSigner(t)
	_, _, target := newSigner(t)

	ledger := newFakeLedger()
	ledger.addAccount(addr, pk, true)
	s := newTestSdk(t, ledger)

	args := tx.TxArgs{GasToken: "VEIL", GasLimit: 200_000}

	bondBlob, err := tx.EncodeBondArgs(&tx.BondArgs{Tx: args, Source: addr, Validator: "v", Amount: uint256.NewInt(1)})
	require.NoError(t, err)
	withdrawBlob, err := tx.EncodeWithdrawArgs(&tx.WithdrawArgs{Tx: args, Source: addr, Validator: "v"})
	require.NoError(t, err)
	transferArgsBlob := transferBlob(t, addr, target)
	ibcBlob, err := tx.EncodeIBCTransferArgs(&tx.IBCTransferArgs{
		Tx: args, Source: addr, Receiver: "cosmos1xyz", Token: "VEIL",
		Amount: uint256.NewInt(1), PortID: "transfer", ChannelID: "channel-0",
	})
	require.NoError(t, err)
	revealArgs := args
	revealArgs.VerificationKey = pk.String()
	revealBlob, err := tx.EncodeTxArgs(&revealArgs)
	require.NoError(t, err)

	cases := []struct {
		kind tx.TxType
		blob []byte
	}{
		{tx.TxBond, bondBlob},
		{tx.TxUnbond, bondBlob},
		{tx.TxWithdraw, withdrawBlob},
		{tx.TxTransfer, transferArgsBlob},
		{tx.TxIBCTransfer, ibcBlob},
		{tx.TxRevealPK, revealBlob},
	}
	for _, tc := range cases {
		txBytes, err := s.BuildTx(context.Background(), tc.kind, tc.blob, pk.String())
		require.NoError(t, err, tc.kind.String())

		decoded, err := tx.Decode(txBytes)
		require.NoError(t, err, tc.kind.String())
		assert.NotEmpty(t, decoded.Sections, tc.kind.String())
		assert.Empty(t, decoded.SignatureSections(), tc.kind.String())
	}
	assert.Empty(t, ledger.broadcast)
}

func TestBuildTxRevealNeedsVerificationKey(t *testing.T) {
	_, pk, _ := newSigner(t)
	s := newTestSdk(t, newFakeLedger())

	blob, err := tx.EncodeTxArgs(&tx.TxArgs{GasToken: "VEIL"})
	require.NoError(t, err)

	_, err = s.BuildTx(context.Background(), tx.TxRevealPK, blob, pk.String())
	assert.True(t, errors.HasCode(err, errors.ErrCodeMissingRequiredField))
}

func TestBuildTxRejectsBadGasPayer(t *testing.T) {
	s := newTestSdk(t, newFakeLedger())
	_, err := s.BuildTx(context.Background(), tx.TxBond, nil, "garbage")
	assert.True(t, errors.HasCode(err, errors.ErrCodeDecode))
}

func TestSignTxAssemblesExternalSignatures(t *testing.T) {
	sk, pk, addr := newSigner(t)
	_, _, target := newSigner(t)

	ledger := newFakeLedger()
	ledger.addAccount(addr, pk, true)
	s := newTestSdk(t, ledger)

	txBytes, err := s.BuildTx(context.Background(), tx.TxTransfer, transferBlob(t, addr, target), pk.String())
	require.NoError(t, err)

	// Play the external signer: raw over the raw hash, then wrapper over
	// the hash that covers the raw signature.
	unsigned, err := tx.Decode(txBytes)
	require.NoError(t, err)
	rawHash := unsigned.RawHash()
	rawBytes, err := sk.Sign(rawHash[:])
	require.NoError(t, err)
	rawMsg, err := tx.EncodeSignatureMsg(pk, rawBytes)
	require.NoError(t, err)

	staged, err := tx.Decode(txBytes)
	require.NoError(t, err)
	rawSig, err := tx.ConstructSignature(rawBytes, pk, rawHash)
	require.NoError(t, err)
	staged.AddSection(tx.Section{Kind: tx.SectionSignature, Signature: rawSig})
	wrapperHash := staged.WrapperHash()
	wrapperBytes, err := sk.Sign(wrapperHash[:])
	require.NoError(t, err)
	wrapperMsg, err := tx.EncodeSignatureMsg(pk, wrapperBytes)
	require.NoError(t, err)

	signed, err := s.SignTx(txBytes, rawMsg, wrapperMsg)
	require.NoError(t, err)
	sigs := signed.SignatureSections()
	require.Len(t, sigs, 2)
	assert.Equal(t, rawHash, sigs[0].Signature.TargetHash)
	assert.Equal(t, wrapperHash, sigs[1].Signature.TargetHash)
}

func TestSubmitRevealPKSkipsWhenRevealed(t *testing.T) {
	sk, pk, addr := newSigner(t)

	ledger := newFakeLedger()
	ledger.addAccount(addr, pk, true)
	s := newTestSdk(t, ledger)
	require.NoError(t, s.AddKey(sk.String(), "", "main"))

	blob, err := tx.EncodeTxArgs(&tx.TxArgs{GasToken: "VEIL", VerificationKey: pk.String()})
	require.NoError(t, err)

	require.NoError(t, s.SubmitRevealPK(context.Background(), blob, ""))
	assert.Empty(t, ledger.broadcast)
}

func TestSubmitRevealPKSubmitsSignedReveal(t *testing.T) {
	sk, pk, addr := newSigner(t)

	ledger := newFakeLedger()
	ledger.addAccount(addr, pk, false)
	s := newTestSdk(t, ledger)
	require.NoError(t, s.AddKey(sk.String(), "", "main"))

	blob, err := tx.EncodeTxArgs(&tx.TxArgs{GasToken: "VEIL", VerificationKey: pk.String()})
	require.NoError(t, err)

	require.NoError(t, s.SubmitRevealPK(context.Background(), blob, ""))
	require.Len(t, ledger.broadcast, 1)

	reveal, err := tx.Decode(ledger.broadcast[0])
	require.NoError(t, err)
	assert.Len(t, reveal.SignatureSections(), 2)
}

func TestSubmitRevealPKFaucetSkipsGas(t *testing.T) {
	sk, pk, addr := newSigner(t)

	ledger := newFakeLedger()
	ledger.addAccount(addr, pk, false)
	s := newTestSdk(t, ledger)
	require.NoError(t, s.AddKey(sk.String(), "", "main"))

	blob, err := tx.EncodeTxArgs(&tx.TxArgs{
		GasToken:            "VEIL",
		VerificationKey:     pk.String(),
		FaucetSkipRevealGas: true,
	})
	require.NoError(t, err)

	require.NoError(t, s.SubmitRevealPK(context.Background(), blob, ""))
	require.Len(t, ledger.broadcast, 1)

	// The reveal went out unsigned for ledger-side completion.
	reveal, err := tx.Decode(ledger.broadcast[0])
	require.NoError(t, err)
	assert.Empty(t, reveal.SignatureSections())
}

func TestWalletSurface(t *testing.T) {
	sk, _, _ := newSigner(t)
	s := newTestSdk(t, newFakeLedger())

	require.NoError(t, s.AddKey(sk.String(), "pw", "main"))
	blob, err := s.EncodeWallet()
	require.NoError(t, err)

	other := newTestSdk(t, newFakeLedger())
	require.NoError(t, other.DecodeWallet(blob))
	assert.Equal(t, 1, other.Wallet().Len())

	other.ClearStorage()
	assert.Equal(t, 0, other.Wallet().Len())
}

func TestSignerKeyRequiresAKey(t *testing.T) {
	_, err := signerKey(&SigningTxData{})
	assert.True(t, errors.HasCode(err, errors.ErrCodeMissingSigner))
}

func TestHasShieldedParams(t *testing.T) {
	s := newTestSdk(t, newFakeLedger())
	assert.False(t, s.HasShieldedParams())
}
