package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"regtest-transfer/internal/models"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

var hashRegex = regexp.MustCompile(`^[a-f0-9]{64}$`)

// CanonicalAddress decodes address for the given network and re-encodes it,
// so two spellings of the same destination compare equal as strings.
func CanonicalAddress(address string, params *chaincfg.Params) (string, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return "", errors.New("address cannot be empty")
	}

	decoded, err := btcutil.DecodeAddress(address, params)
	if err != nil {
		return "", fmt.Errorf("invalid %s address %q: %w", params.Name, address, err)
	}
	if !decoded.IsForNet(params) {
		return "", fmt.Errorf("address %q is not for network %s", address, params.Name)
	}

	return decoded.EncodeAddress(), nil
}

// ValidateAddress validates a Bitcoin address for the given network
func ValidateAddress(address string, params *chaincfg.Params) error {
	_, err := CanonicalAddress(address, params)
	return err
}

// NormalizeHash checks a txid or block hash and returns its lowercase hex form.
func NormalizeHash(hash string) (string, error) {
	if hash == "" {
		return "", errors.New("hash cannot be empty")
	}

	lower := strings.ToLower(hash)
	if !hashRegex.MatchString(lower) {
		return "", fmt.Errorf("invalid hash %q: want 64 hex characters", hash)
	}

	h, err := chainhash.NewHashFromStr(lower)
	if err != nil {
		return "", fmt.Errorf("invalid hash %q: %w", hash, err)
	}

	return h.String(), nil
}

// ValidateTxHash validates a transaction hash is 64 lowercase hex characters
func ValidateTxHash(txHash string) error {
	normalized, err := NormalizeHash(txHash)
	if err != nil {
		return err
	}
	if normalized != txHash {
		return fmt.Errorf("hash %q is not lowercase", txHash)
	}
	return nil
}

// ValidateAmount validates amount is nonnegative and within the money supply
func ValidateAmount(amount models.Amount) error {
	if amount < 0 {
		return fmt.Errorf("amount %s is negative", amount)
	}
	if amount.Satoshis() > btcutil.MaxSatoshi {
		return fmt.Errorf("amount %s exceeds the money supply", amount)
	}
	return nil
}
