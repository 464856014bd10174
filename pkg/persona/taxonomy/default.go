package taxonomy

// DefaultVersion identifies the built-in tables.
const DefaultVersion = "2024.1"

// Default returns a fresh copy of the built-in tables.
func Default() *Taxonomy {
	return &Taxonomy{
		Version: DefaultVersion,
		Interests: Interests{
			Top:      5,
			Fallback: "other",
			Categories: []Group{
				{Name: "technology", Keywords: []string{"programming", "python", "technology", "android", "apple", "linux"}},
				{Name: "gaming", Keywords: []string{"gaming", "games", "pcgaming", "ps4", "xbox"}},
				{Name: "sports", Keywords: []string{"sports", "nba", "nfl", "soccer", "baseball"}},
				{Name: "movies", Keywords: []string{"movies", "television", "netflix", "marvel"}},
				{Name: "science", Keywords: []string{"science", "space", "physics", "askscience"}},
				{Name: "health", Keywords: []string{"fitness", "nutrition", "loseit", "bodybuilding"}},
				{Name: "finance", Keywords: []string{"personalfinance", "investing", "stocks", "financialindependence"}},
			},
		},
		Traits: []Group{
			{Name: "analytical", Keywords: []string{"data", "research", "study", "evidence", "according to", "statistics"}},
			{Name: "emotional", Keywords: []string{"i feel", "emotion", "relationship", "happy", "sad", "angry"}},
			{Name: "helpful", Keywords: []string{"help", "advice", "suggestion", "support", "recommend"}},
			{Name: "humorous", Keywords: []string{"joke", "funny", "lol", "haha", "lmao"}},
			{Name: "curious", Keywords: []string{"why", "how", "what if", "question", "wonder"}},
			{Name: "opinionated", Keywords: []string{"i think", "i believe", "in my opinion", "the truth is"}},
		},
		Sentiment: Sentiment{
			Positive: []string{"love", "great", "awesome", "amazing", "happy", "wonderful"},
			Negative: []string{"hate", "awful", "terrible", "bad", "angry", "frustrated"},
			Margin:   3,
		},
		Style: Style{
			DetailedAbove: 300,
			BalancedAbove: 100,
		},
		Engagement: Engagement{
			Question:    "?",
			Opinion:     []string{"i think", "i believe", "in my opinion"},
			Information: []string{"source:", "according to", "study shows", "research indicates"},
			Humor:       []string{"lol", "haha", "funny", "joke"},
			Debate:      []string{"actually", "wrong", "disagree", "but"},
			TopHours:    3,
		},
		Phrases: Phrases{
			Goals: []string{
				"i want to",
				"i need to",
				"i would like to",
				"my goal is to",
				"i'm trying to",
			},
			Frustrations: []string{
				"i hate",
				"i dislike",
				"it's annoying that",
				"it's frustrating that",
				"the problem with",
				"i wish",
			},
			MinWords: 3,
		},
	}
}
