package tx

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"veil/errors"
	"veil/keys"
)

func testSecretKey(t *testing.T) keys.SecretKey {
	t.Helper()
	seed := make([]byte, 32)
	_, err := rand.Read(seed)
	require.NoError(t, err)
	return keys.SecretKey{Scheme: keys.SchemeEd25519, Bytes: seed}
}

func testTx() *Tx {
	tx := &Tx{
		ChainID:    "veil-test-1",
		Timestamp:  1_700_000_000,
		Expiration: 1_700_003_600,
		Fee: Fee{
			GasToken:  "VEIL",
			GasLimit:  200_000,
			FeeAmount: "10",
			GasPayer:  "payer-pk",
		},
	}
	tx.AddSection(Section{Kind: SectionData, Data: []byte("protocol payload")})
	return tx
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	original := testTx()
	encoded, err := original.Encode()
	require.NoError(t, err)

	decoded, err := Decode(encoded)
	require.NoError(t, err)
	assert.Equal(t, original.ChainID, decoded.ChainID)
	assert.Equal(t, original.Timestamp, decoded.Timestamp)
	assert.Equal(t, original.Fee, decoded.Fee)
	require.Len(t, decoded.Sections, 1)
	assert.Equal(t, SectionData, decoded.Sections[0].Kind)
	assert.Equal(t, []byte("protocol payload"), decoded.Sections[0].Data)
}

func TestEncodeDecodeKeepsSignatures(t *testing.T) {
	sk := testSecretKey(t)
	tx := testTx()
	raw := tx.RawHash()
	sigBytes, err := sk.Sign(raw[:])
	require.NoError(t, err)
	sig, err := ConstructSignature(sigBytes, sk.PublicKey(), raw)
	require.NoError(t, err)
	tx.AddSection(Section{Kind: SectionSignature, Signature: sig})

	encoded, err := tx.Encode()
	require.NoError(t, err)
	decoded, err := Decode(encoded)
	require.NoError(t, err)

	sigs := decoded.SignatureSections()
	require.Len(t, sigs, 1)
	assert.True(t, sigs[0].Signature.PubKey.Equal(sk.PublicKey()))
	assert.Equal(t, raw, sigs[0].Signature.TargetHash)
	assert.Equal(t, sigBytes, sigs[0].Signature.Bytes)
}

func TestDecodeRejectsGarbageBytes(t *testing.T) {
	_, err := Decode([]byte{0x01, 0x02, 0x03})
	assert.True(t, errors.HasCode(err, errors.ErrCodeDecode))
}

func TestRawHashIgnoresSignatureSections(t *testing.T) {
	tx := testTx()
	before := tx.RawHash()

	sk := testSecretKey(t)
	sigBytes, err := sk.Sign(before[:])
	require.NoError(t, err)
	sig, err := ConstructSignature(sigBytes, sk.PublicKey(), before)
	require.NoError(t, err)
	tx.AddSection(Section{Kind: SectionSignature, Signature: sig})

	assert.Equal(t, before, tx.RawHash())
}

func TestWrapperHashCoversSignatureSections(t *testing.T) {
	tx := testTx()
	before := tx.WrapperHash()

	sk := testSecretKey(t)
	raw := tx.RawHash()
	sigBytes, err := sk.Sign(raw[:])
	require.NoError(t, err)
	sig, err := ConstructSignature(sigBytes, sk.PublicKey(), raw)
	require.NoError(t, err)
	tx.AddSection(Section{Kind: SectionSignature, Signature: sig})

	assert.NotEqual(t, before, tx.WrapperHash())
}

func TestRawAndWrapperHashDiffer(t *testing.T) {
	tx := testTx()
	assert.NotEqual(t, tx.RawHash(), tx.WrapperHash())
}

func TestProtocolFilterStripsScratchOnly(t *testing.T) {
	tx := testTx()
	tx.AddSection(Section{Kind: SectionScratch, Data: []byte("builder working data")})
	sk := testSecretKey(t)
	raw := tx.RawHash()
	sigBytes, err := sk.Sign(raw[:])
	require.NoError(t, err)
	sig, err := ConstructSignature(sigBytes, sk.PublicKey(), raw)
	require.NoError(t, err)
	tx.AddSection(Section{Kind: SectionSignature, Signature: sig})

	tx.ProtocolFilter()

	require.Len(t, tx.Sections, 2)
	assert.Equal(t, SectionData, tx.Sections[0].Kind)
	assert.Equal(t, SectionSignature, tx.Sections[1].Kind)
}

func TestConstructSignatureValidation(t *testing.T) {
	sk := testSecretKey(t)
	pk := sk.PublicKey()
	var target [32]byte

	_, err := ConstructSignature(nil, pk, target)
	assert.True(t, errors.HasCode(err, errors.ErrCodeSignature))

	_, err = ConstructSignature(make([]byte, 63), pk, target)
	assert.True(t, errors.HasCode(err, errors.ErrCodeSignature))

	_, err = ConstructSignature(make([]byte, 64), pk, target)
	assert.NoError(t, err)

	secpPk := keys.PublicKey{Scheme: keys.SchemeSecp256k1, Bytes: make([]byte, 33)}
	_, err = ConstructSignature(make([]byte, 64), secpPk, target)
	assert.True(t, errors.HasCode(err, errors.ErrCodeSignature))
}

func TestSignatureMsgRoundTrip(t *testing.T) {
	sk := testSecretKey(t)
	pk := sk.PublicKey()
	sigBytes, err := sk.Sign([]byte("payload"))
	require.NoError(t, err)

	blob, err := EncodeSignatureMsg(pk, sigBytes)
	require.NoError(t, err)

	gotPk, gotSig, err := DecodeSignatureMsg(blob)
	require.NoError(t, err)
	assert.True(t, pk.Equal(gotPk))
	assert.Equal(t, sigBytes, gotSig)
}

func TestDecodeSignatureMsgRejectsBadKey(t *testing.T) {
	blob, err := EncodeSignatureMsg(keys.PublicKey{Scheme: keys.SchemeEd25519, Bytes: make([]byte, 5)}, make([]byte, 64))
	require.NoError(t, err)
	_, _, err = DecodeSignatureMsg(blob)
	assert.True(t, errors.HasCode(err, errors.ErrCodeSignature))
}

func TestLifecycleOrdering(t *testing.T) {
	lc := NewLifecycle()
	assert.Equal(t, StageBuilt, lc.Stage())

	// Skipping a stage is illegal.
	assert.Error(t, lc.Advance(StageSignedRaw))

	require.NoError(t, lc.Advance(StageRevealChecked))
	require.NoError(t, lc.Advance(StageSignedRaw))

	// Going backwards or repeating is illegal.
	assert.Error(t, lc.Advance(StageSignedRaw))
	assert.Error(t, lc.Advance(StageRevealChecked))

	require.NoError(t, lc.Advance(StageSignedWrapper))
	require.NoError(t, lc.Advance(StageSubmitted))
	assert.Equal(t, StageSubmitted, lc.Stage())
}

func TestTxTypeFromInt(t *testing.T) {
	for v := int32(1); v <= 6; v++ {
		kind, err := TxTypeFromInt(v)
		require.NoError(t, err)
		assert.Equal(t, TxType(v), kind)
	}
	_, err := TxTypeFromInt(0)
	assert.Error(t, err)
	_, err = TxTypeFromInt(7)
	assert.Error(t, err)
}
