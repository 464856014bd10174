package activity

import "fmt"

// Diagnostic records a record that one analysis pass had to leave out.
// Other passes may still have used the record.
type Diagnostic struct {
	Pass     string
	RecordID string
	Err      error
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: record %s skipped: %v", d.Pass, d.RecordID, d.Err)
}
