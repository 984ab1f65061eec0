// Package ledger is the append-only record of send attempts used to
// enforce the daily rate cap. One CSV row per attempt; the file is
// opened, appended and closed on every write so a crash loses at most
// the in-flight row.
package ledger

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"time"
)

const StatusSent = "Sent"
const StatusFailed = "Failed"

var header = []string{"timestamp", "company", "role", "email_sent_to", "status"}

type Entry struct {
	Timestamp time.Time
	Company   string
	Role      string
	Recipient string
	Status    string
}

type Ledger struct {
	path   string
	logger *slog.Logger
}

func New(path string, logger *slog.Logger) *Ledger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ledger{path: path, logger: logger}
}

// CountToday returns the number of entries stamped with the current
// calendar day. An unreadable or malformed ledger fails open: it counts
// as zero so the run proceeds, with the error logged.
func (l *Ledger) CountToday() int {
	return l.countOn(time.Now())
}

func (l *Ledger) countOn(now time.Time) int {
	f, err := os.Open(l.path)
	if err != nil {
		if !os.IsNotExist(err) {
			l.logger.Error("failed to read ledger, failing open", "path", l.path, "error", err)
		}
		return 0
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		l.logger.Error("failed to parse ledger, failing open", "path", l.path, "error", err)
		return 0
	}

	y, m, d := now.Date()
	count := 0
	for i, rec := range records {
		if i == 0 && len(rec) > 0 && rec[0] == header[0] {
			continue
		}
		if len(rec) == 0 {
			continue
		}
		ts, err := time.Parse(time.RFC3339, rec[0])
		if err != nil {
			continue
		}
		ty, tm, td := ts.Date()
		if ty == y && tm == m && td == d {
			count++
		}
	}
	return count
}

// Append writes one entry immediately, creating the file (with header)
// on first use.
func (l *Ledger) Append(e Entry) error {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}

	_, statErr := os.Stat(l.path)
	fresh := os.IsNotExist(statErr)

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open ledger: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if fresh {
		if err := w.Write(header); err != nil {
			return fmt.Errorf("write ledger header: %w", err)
		}
	}
	row := []string{e.Timestamp.Format(time.RFC3339), e.Company, e.Role, e.Recipient, e.Status}
	if err := w.Write(row); err != nil {
		return fmt.Errorf("write ledger row: %w", err)
	}
	w.Flush()
	return w.Error()
}
