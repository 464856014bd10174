package activity

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cognicore/persona/pkg/persona/internalerr"
)

// line is one JSONL entry; exactly one of the fields is set.
type line struct {
	Account *Account `json:"account,omitempty"`
	Record  *Record  `json:"record,omitempty"`
}

// WriteJSONL writes the snapshot as JSON lines: the account first, then one
// record per line in snapshot order.
func WriteJSONL(w io.Writer, snap Snapshot) error {
	enc := json.NewEncoder(w)
	acct := snap.Account
	if err := enc.Encode(line{Account: &acct}); err != nil {
		return fmt.Errorf("encode account: %w", err)
	}
	for i := range snap.Records {
		if err := enc.Encode(line{Record: &snap.Records[i]}); err != nil {
			return fmt.Errorf("encode record %s: %w", snap.Records[i].ID, err)
		}
	}
	return nil
}

// ReadJSONL parses a snapshot written by WriteJSONL. Blank lines are ignored.
func ReadJSONL(r io.Reader) (Snapshot, error) {
	var snap Snapshot
	seenAccount := false

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" {
			continue
		}
		var l line
		if err := json.Unmarshal([]byte(raw), &l); err != nil {
			return Snapshot{}, fmt.Errorf("%w: line %d: %v", internalerr.ErrInvalidInput, lineNo, err)
		}
		switch {
		case l.Account != nil:
			snap.Account = *l.Account
			seenAccount = true
		case l.Record != nil:
			snap.Records = append(snap.Records, *l.Record)
		}
	}
	if err := scanner.Err(); err != nil {
		return Snapshot{}, err
	}
	if !seenAccount {
		return Snapshot{}, fmt.Errorf("%w: snapshot has no account line", internalerr.ErrInvalidInput)
	}
	return snap, nil
}

// ReadSnapshot loads a JSONL snapshot from disk.
func ReadSnapshot(path string) (Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return Snapshot{}, err
	}
	defer f.Close()
	return ReadJSONL(f)
}

// WriteSnapshot writes a JSONL snapshot to disk, replacing any existing file.
func WriteSnapshot(path string, snap Snapshot) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteJSONL(f, snap); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
