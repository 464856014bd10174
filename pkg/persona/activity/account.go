package activity

import (
	"fmt"
	"strings"
	"time"

	"github.com/cognicore/persona/pkg/persona/internalerr"
)

// Account is the profile metadata that accompanies a record set.
type Account struct {
	Username     string    `json:"username"`
	CreatedAt    time.Time `json:"created_at"`
	CommentKarma int       `json:"comment_karma"`
	LinkKarma    int       `json:"link_karma"`
	IsMod        bool      `json:"is_mod"`
	IsGold       bool      `json:"is_gold"`
}

// Validate fails when metadata required to synthesize a persona is missing.
func (a Account) Validate() error {
	if strings.TrimSpace(a.Username) == "" {
		return fmt.Errorf("%w: username is required", internalerr.ErrMissingMetadata)
	}
	if a.CreatedAt.IsZero() {
		return fmt.Errorf("%w: account %s has no creation date", internalerr.ErrMissingMetadata, a.Username)
	}
	return nil
}

// Snapshot is the full activity of one account, resident in memory.
// Comments come before posts, each most-recent-first.
type Snapshot struct {
	Account Account
	Records []Record
}
