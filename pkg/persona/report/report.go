// Package report renders a persona as a human-readable text report.
package report

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dustin/go-humanize"

	"github.com/cognicore/persona/pkg/persona"
)

const (
	star       = "★"
	divider    = "════════════════════════════════════════════════════════════"
	subDivider = "--------------------------------------------------"
)

// Render formats p as the plain-text persona report.
func Render(p *persona.Persona) string {
	var b strings.Builder
	acct := p.Account
	stars := strings.Repeat(star, 3)

	fmt.Fprintf(&b, "%s REDDIT USER PERSONA REPORT — u/%s %s\n", stars, acct.Username, stars)
	b.WriteString(divider + "\n\n")

	section(&b, "👤 USER SNAPSHOT")
	fmt.Fprintf(&b, "• Account Age     : %s\n", p.Age)
	fmt.Fprintf(&b, "• Comment Karma   : %s\n", humanize.Comma(int64(acct.CommentKarma)))
	fmt.Fprintf(&b, "• Post Karma      : %s\n", humanize.Comma(int64(acct.LinkKarma)))
	fmt.Fprintf(&b, "• Premium Member  : %s\n", yesNo(acct.IsGold))
	fmt.Fprintf(&b, "• Moderator Role  : %s\n", yesNo(acct.IsMod))

	b.WriteString("\n")
	section(&b, "💡 INTEREST AREAS")
	fmt.Fprintf(&b, "Most Active Subreddits: %s\n\n", orNA(strings.Join(p.Interests.TopCommunities, ", ")))
	b.WriteString("Interest Categories:\n")
	for _, cat := range p.Interests.Categories {
		if len(cat.Communities) == 0 {
			continue
		}
		fmt.Fprintf(&b, "  🔸 %-12s: %s\n", Capitalize(cat.Name), strings.Join(cat.Communities, ", "))
	}

	beh := p.Behavior
	b.WriteString("\n")
	section(&b, "📈 BEHAVIOR INSIGHTS")
	fmt.Fprintf(&b, "• Posts Made     : %d\n", beh.PostFrequency)
	fmt.Fprintf(&b, "• Comments Made  : %d\n", beh.CommentFrequency)
	fmt.Fprintf(&b, "• Post Types     : 📝 %d text | 🔗 %d link\n", beh.PostTypes.Text, beh.PostTypes.Link)
	fmt.Fprintf(&b, "• Active Hours   : %s\n\n", orNA(strings.Join(beh.TopActiveTimes, ", ")))
	b.WriteString("Engagement Style:\n")
	fmt.Fprintf(&b, "  ❓ Questions          : %d\n", beh.Engagement.Questions)
	fmt.Fprintf(&b, "  💬 Opinions           : %d\n", beh.Engagement.Opinions)
	fmt.Fprintf(&b, "  📚 Information Sharing: %d\n", beh.Engagement.InformationSharing)
	fmt.Fprintf(&b, "  😄 Humor              : %d\n", beh.Engagement.Humor)
	fmt.Fprintf(&b, "  🔍 Debate             : %d\n", beh.Engagement.Debate)

	pers := p.Personality
	traits := "Not enough data"
	if len(pers.Traits) > 0 {
		traits = strings.Join(pers.Traits, ", ")
	}
	b.WriteString("\n")
	section(&b, "🧠 PERSONALITY OVERVIEW")
	fmt.Fprintf(&b, "• Traits             : %s\n", traits)
	fmt.Fprintf(&b, "• Communication Style: %s\n", pers.CommunicationStyle)
	fmt.Fprintf(&b, "• General Sentiment  : %s\n", Capitalize(pers.Sentiment))

	if goals := p.GoalsFrustrations.Goals; len(goals) > 0 {
		b.WriteString("\n")
		section(&b, "🎯 GOALS & ASPIRATIONS")
		for _, g := range goals {
			fmt.Fprintf(&b, "• %s\n", Capitalize(g))
		}
	}

	if frs := p.GoalsFrustrations.Frustrations; len(frs) > 0 {
		b.WriteString("\n")
		section(&b, "⚠️  FRUSTRATIONS & PAIN POINTS")
		for _, f := range frs {
			fmt.Fprintf(&b, "• %s\n", Capitalize(f))
		}
	}

	if len(p.Citations) > 0 {
		b.WriteString("\n")
		section(&b, "🔗 INSIGHT SOURCES")
		for _, c := range p.Citations {
			fmt.Fprintf(&b, "[%s] \"%s\"\n", Capitalize(string(c.Type)), Capitalize(c.Text))
			fmt.Fprintf(&b, " ↳ Source: %s\n\n", c.Source)
		}
	}

	b.WriteString(divider + "\n📄 Report generated by Reddit Persona\n")
	return b.String()
}

func section(b *strings.Builder, title string) {
	b.WriteString(title + "\n" + subDivider + "\n")
}

func yesNo(v bool) string {
	if v {
		return "✅ Yes"
	}
	return "❌ No"
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// Capitalize upper-cases the first letter and lower-cases the rest.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
