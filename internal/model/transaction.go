package model

import (
	"crypto/sha256"
	"fmt"
	"time"
)

// Transaction represents a single statement line after upstream extraction.
// It is immutable once ingested; categorization attaches results by
// transaction ID rather than mutating the transaction itself.
type Transaction struct {
	Date    time.Time
	ID      string   // Stable identity assigned at ingestion
	Name    string   // Raw transaction description
	Hash    string   // Content-derived key for cache lookups
	Balance *float64 // Running balance when the statement provides one
	Amount  float64  // Signed: negative for debits, positive for credits
}

// GenerateHash creates a content-derived key used for cache lookups and
// duplicate detection.
func (t *Transaction) GenerateHash() string {
	data := fmt.Sprintf("%s:%.2f:%s",
		t.Date.Format("2006-01-02"),
		t.Amount,
		t.Name)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}
