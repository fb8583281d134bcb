// Package report holds the reconstructed transfer record and its
// ten-line file format.
package report

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"regtest-transfer/internal/models"
	"regtest-transfer/internal/validation"
)

// LineCount is the number of lines in a serialized report.
const LineCount = 10

// Report is the attributed view of one send transaction. Field order
// matches the line order of the file.
type Report struct {
	TxID                string
	MinerInputAddress   string
	MinerInputAmount    models.Amount
	TraderOutputAddress string
	TraderOutputAmount  models.Amount
	MinerChangeAddress  string
	MinerChangeAmount   models.Amount
	Fee                 models.Amount
	BlockHeight         int64
	BlockHash           string
}

// Lines renders the report as its ten lines, without terminators.
func (r *Report) Lines() []string {
	return []string{
		r.TxID,
		r.MinerInputAddress,
		r.MinerInputAmount.String(),
		r.TraderOutputAddress,
		r.TraderOutputAmount.String(),
		r.MinerChangeAddress,
		r.MinerChangeAmount.String(),
		r.Fee.String(),
		strconv.FormatInt(r.BlockHeight, 10),
		r.BlockHash,
	}
}

// Validate checks the format guarantees of the serialized report.
func (r *Report) Validate() error {
	var errs []error

	if err := validation.ValidateTxHash(r.TxID); err != nil {
		errs = append(errs, fmt.Errorf("txid: %w", err))
	}
	if err := validation.ValidateTxHash(r.BlockHash); err != nil {
		errs = append(errs, fmt.Errorf("blockhash: %w", err))
	}

	addresses := map[string]string{
		"miner_input_address":   r.MinerInputAddress,
		"trader_output_address": r.TraderOutputAddress,
		"miner_change_address":  r.MinerChangeAddress,
	}
	for field, value := range addresses {
		if strings.TrimSpace(value) == "" || strings.ContainsAny(value, "\r\n") {
			errs = append(errs, fmt.Errorf("%s: must be a single non-empty line", field))
		}
	}

	amounts := []struct {
		field string
		value models.Amount
	}{
		{"miner_input_amount", r.MinerInputAmount},
		{"trader_output_amount", r.TraderOutputAmount},
		{"miner_change_amount", r.MinerChangeAmount},
		{"fee", r.Fee},
	}
	for _, a := range amounts {
		if err := validation.ValidateAmount(a.value); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", a.field, err))
		}
	}

	if r.BlockHeight < 0 {
		errs = append(errs, fmt.Errorf("block_height: %d is negative", r.BlockHeight))
	}

	return errors.Join(errs...)
}

// Event converts the report for the optional sinks.
func (r *Report) Event(network models.Network, at time.Time) models.ReportEvent {
	return models.ReportEvent{
		TxHash:              r.TxID,
		Network:             network,
		MinerInputAddress:   r.MinerInputAddress,
		MinerInputAmount:    r.MinerInputAmount,
		TraderOutputAddress: r.TraderOutputAddress,
		TraderOutputAmount:  r.TraderOutputAmount,
		MinerChangeAddress:  r.MinerChangeAddress,
		MinerChangeAmount:   r.MinerChangeAmount,
		Fee:                 r.Fee,
		BlockHeight:         r.BlockHeight,
		BlockHash:           r.BlockHash,
		Timestamp:           at,
	}
}

// Write validates r and writes it to path, truncating any previous file.
// Each line ends with a single '\n'.
func Write(path string, r *Report) (err error) {
	if err := r.Validate(); err != nil {
		return fmt.Errorf("refusing to write invalid report: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
	}()

	w := bufio.NewWriter(file)
	for _, line := range r.Lines() {
		if _, err := w.WriteString(line + "\n"); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", path, err)
	}

	return nil
}

// Parse reads a serialized report back. It accepts exactly the format
// produced by Write.
func Parse(data []byte) (*Report, error) {
	text := string(data)
	if !strings.HasSuffix(text, "\n") {
		return nil, errors.New("report must end with a newline")
	}

	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	if len(lines) != LineCount {
		return nil, fmt.Errorf("report has %d lines, want %d", len(lines), LineCount)
	}

	r := &Report{
		TxID:                lines[0],
		MinerInputAddress:   lines[1],
		TraderOutputAddress: lines[3],
		MinerChangeAddress:  lines[5],
		BlockHash:           lines[9],
	}

	amounts := []struct {
		line int
		dst  *models.Amount
	}{
		{2, &r.MinerInputAmount},
		{4, &r.TraderOutputAmount},
		{6, &r.MinerChangeAmount},
		{7, &r.Fee},
	}
	for _, a := range amounts {
		v, err := models.ParseAmount(lines[a.line])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", a.line+1, err)
		}
		*a.dst = v
	}

	height, err := strconv.ParseInt(lines[8], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("line 9: %w", err)
	}
	r.BlockHeight = height

	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Read loads and parses the report at path.
func Read(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}
