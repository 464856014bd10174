// Package persona composes the analysis passes into a persona: interests,
// personality, goals and frustrations, behavior, and the citations backing
// every extracted claim.
package persona

import (
	"fmt"
	"time"

	"github.com/cognicore/persona/pkg/persona/activity"
	"github.com/cognicore/persona/pkg/persona/behavior"
	"github.com/cognicore/persona/pkg/persona/extract"
	"github.com/cognicore/persona/pkg/persona/interest"
	"github.com/cognicore/persona/pkg/persona/personality"
)

// Persona is the synthesized result of one analysis run. It is never
// modified after Synthesize returns it.
type Persona struct {
	Account           activity.Account      `json:"account"`
	Age               Age                   `json:"age"`
	GeneratedAt       time.Time             `json:"generated_at"`
	TaxonomyVersion   string                `json:"taxonomy_version"`
	Interests         interest.Profile      `json:"interests"`
	Personality       personality.Profile   `json:"personality"`
	GoalsFrustrations GoalsFrustrations     `json:"goals_frustrations"`
	Behavior          behavior.Profile      `json:"behavior"`
	Citations         []extract.Citation    `json:"citations"`
	Diagnostics       []activity.Diagnostic `json:"-"`
}

// GoalsFrustrations holds the unique extracted phrases, decoupled from how
// many citations back each one.
type GoalsFrustrations struct {
	Goals        []string `json:"goals"`
	Frustrations []string `json:"frustrations"`
}

// Age is an approximate account age: 365-day years and 30-day months.
type Age struct {
	Years  int `json:"years"`
	Months int `json:"months"`
}

func (a Age) String() string {
	return fmt.Sprintf("%d years, %d months", a.Years, a.Months)
}

// AccountAge computes the age of an account created at created, as seen at
// now. A creation time in the future yields zero.
func AccountAge(created, now time.Time) Age {
	days := int(now.Sub(created) / (24 * time.Hour))
	if days < 0 {
		days = 0
	}
	return Age{Years: days / 365, Months: (days % 365) / 30}
}

// Passes bundles the outputs of the four analysis passes.
type Passes struct {
	Interests   interest.Profile
	Personality personality.Profile
	Extraction  extract.Result
	Behavior    behavior.Profile
}

// Synthesize merges pass outputs with account metadata. It does no analysis
// of its own.
func Synthesize(acct activity.Account, now time.Time, taxonomyVersion string, p Passes) *Persona {
	var diags []activity.Diagnostic
	diags = append(diags, p.Extraction.Diagnostics...)
	diags = append(diags, p.Interests.Diagnostics...)
	diags = append(diags, p.Behavior.Diagnostics...)

	return &Persona{
		Account:         acct,
		Age:             AccountAge(acct.CreatedAt, now),
		GeneratedAt:     now,
		TaxonomyVersion: taxonomyVersion,
		Interests:       p.Interests,
		Personality:     p.Personality,
		GoalsFrustrations: GoalsFrustrations{
			Goals:        p.Extraction.Goals,
			Frustrations: p.Extraction.Frustrations,
		},
		Behavior:    p.Behavior,
		Citations:   p.Extraction.Citations,
		Diagnostics: diags,
	}
}
