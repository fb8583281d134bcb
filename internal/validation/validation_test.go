package validation

import (
	"bytes"
	"strings"
	"testing"

	"regtest-transfer/internal/models"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func witnessAddress(t *testing.T, fill byte, params *chaincfg.Params) string {
	t.Helper()
	addr, err := btcutil.NewAddressWitnessPubKeyHash(bytes.Repeat([]byte{fill}, 20), params)
	require.NoError(t, err)
	return addr.EncodeAddress()
}

func TestCanonicalAddress(t *testing.T) {
	regtest := &chaincfg.RegressionNetParams
	addr := witnessAddress(t, 0x11, regtest)
	require.True(t, strings.HasPrefix(addr, "bcrt1q"))

	canonical, err := CanonicalAddress(addr, regtest)
	require.NoError(t, err)
	assert.Equal(t, addr, canonical)

	canonical, err = CanonicalAddress("  "+addr+"\n", regtest)
	require.NoError(t, err)
	assert.Equal(t, addr, canonical)
}

func TestCanonicalAddress_Invalid(t *testing.T) {
	regtest := &chaincfg.RegressionNetParams

	tests := []struct {
		name    string
		address string
	}{
		{name: "empty", address: ""},
		{name: "garbage", address: "not-an-address"},
		{name: "mainnet address", address: witnessAddress(t, 0x22, &chaincfg.MainNetParams)},
		{name: "bad checksum", address: witnessAddress(t, 0x33, regtest)[:40] + "qqqq"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, ValidateAddress(tt.address, regtest))
		})
	}
}

func TestNormalizeHash(t *testing.T) {
	hash := "0f9188f13cb7b2c71f2a335e3a4fc328bf5beb436012afca590b1a11466e2206"

	normalized, err := NormalizeHash(strings.ToUpper(hash))
	require.NoError(t, err)
	assert.Equal(t, hash, normalized)

	assert.NoError(t, ValidateTxHash(hash))
	assert.Error(t, ValidateTxHash(strings.ToUpper(hash)))
	assert.Error(t, ValidateTxHash(hash[:63]))
	assert.Error(t, ValidateTxHash(hash[:63]+"z"))
	assert.Error(t, ValidateTxHash(""))
}

func TestValidateAmount(t *testing.T) {
	assert.NoError(t, ValidateAmount(0))
	assert.NoError(t, ValidateAmount(models.MustParseAmount("20")))
	assert.Error(t, ValidateAmount(-1))
	assert.Error(t, ValidateAmount(models.Amount(btcutil.MaxSatoshi+1)))
}
