package emitters

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"regtest-transfer/internal/config"
	"regtest-transfer/internal/logger"
	"regtest-transfer/internal/models"

	bolt "go.etcd.io/bbolt"
)

const reportsBucket = "reports"

// HistoryEmitter keeps every report in a local bbolt file, keyed by txid.
type HistoryEmitter struct {
	db *bolt.DB
}

func NewHistoryEmitter(cfg config.HistoryConfig) (*HistoryEmitter, error) {
	db, err := bolt.Open(cfg.Path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open history %s: %w", cfg.Path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(reportsBucket))
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create %s bucket: %w", reportsBucket, err)
	}

	return &HistoryEmitter{db: db}, nil
}

func (h *HistoryEmitter) EmitEvent(ctx context.Context, event models.ReportEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = h.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(reportsBucket)).Put([]byte(event.TxHash), value)
	})
	if err != nil {
		return fmt.Errorf("failed to record report %s: %w", event.TxHash, err)
	}

	logger.GetLogger().Debug().
		Str("txid", event.TxHash).
		Str("path", h.db.Path()).
		Msg("Recorded report in history")
	return nil
}

// Lookup returns the recorded report for txid.
func (h *HistoryEmitter) Lookup(txid string) (models.ReportEvent, bool, error) {
	var (
		event models.ReportEvent
		found bool
	)
	err := h.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(reportsBucket)).Get([]byte(txid))
		if v == nil {
			return nil
		}
		found = true
		return json.Unmarshal(v, &event)
	})
	return event, found, err
}

// Len returns the number of recorded reports.
func (h *HistoryEmitter) Len() (int, error) {
	n := 0
	err := h.db.View(func(tx *bolt.Tx) error {
		n = tx.Bucket([]byte(reportsBucket)).Stats().KeyN
		return nil
	})
	return n, err
}

func (h *HistoryEmitter) Close() error {
	return h.db.Close()
}
