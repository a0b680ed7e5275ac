// Package ingest reads extracted transaction lists produced by the
// upstream document-processing step. It assumes well-formed, deduplicated
// input: the engine treats whatever it receives as categorizable.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spendlens/spendlens/internal/model"
)

// dateLayouts are the statement date formats accepted, tried in order.
var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"01/02/06",
}

// ReadCSVFile reads transactions from a CSV file on disk.
func ReadCSVFile(path string) ([]model.Transaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return ReadCSV(f)
}

// ReadCSV parses "date,description,amount[,balance]" records into an
// ordered transaction list. A leading header row is skipped. Each
// transaction gets a stable ordinal ID and a content-derived hash.
func ReadCSV(r io.Reader) ([]model.Transaction, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	var txns []model.Transaction
	line := 0

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record: %w", err)
		}
		line++

		if len(record) < 3 {
			return nil, fmt.Errorf("record %d: expected at least 3 fields, got %d", line, len(record))
		}

		date, dateErr := parseDate(record[0])
		amount, amountErr := parseAmount(record[2])
		if dateErr != nil || amountErr != nil {
			if line == 1 {
				// Header row.
				continue
			}
			if dateErr != nil {
				return nil, fmt.Errorf("record %d: %w", line, dateErr)
			}
			return nil, fmt.Errorf("record %d: %w", line, amountErr)
		}

		txn := model.Transaction{
			ID:     fmt.Sprintf("txn-%04d", len(txns)),
			Date:   date,
			Name:   strings.TrimSpace(record[1]),
			Amount: amount,
		}
		if len(record) > 3 && strings.TrimSpace(record[3]) != "" {
			balance, err := parseAmount(record[3])
			if err != nil {
				return nil, fmt.Errorf("record %d: %w", line, err)
			}
			txn.Balance = &balance
		}
		txn.Hash = txn.GenerateHash()

		txns = append(txns, txn)
	}

	return txns, nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date: %q", s)
}

func parseAmount(s string) (float64, error) {
	cleaned := strings.NewReplacer("$", "", ",", "", " ", "").Replace(strings.TrimSpace(s))
	// Some statements mark debits with parentheses.
	if strings.HasPrefix(cleaned, "(") && strings.HasSuffix(cleaned, ")") {
		cleaned = "-" + strings.Trim(cleaned, "()")
	}
	amount, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("unrecognized amount: %q", s)
	}
	return amount, nil
}
