package persona

// Fact pairs a detection keyword with the human-readable description used in
// the suppression clause. Keywords are matched case-insensitively as
// substrings of generated replies.
type Fact struct {
	Keyword     string `json:"keyword"`
	Description string `json:"description"`
}

// Voice holds the synthesis parameters bound to a persona.
type Voice struct {
	VoiceID         string  `json:"voiceId"`
	ModelID         string  `json:"modelId"`
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarityBoost"`
}

// Persona captures the character whose biography and disclosure state
// condition every generated reply.
type Persona struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	UserLabel   string `json:"userLabel"`
	Description string `json:"description"`
	Facts       []Fact `json:"facts"`
	Voice       Voice  `json:"voice"`

	// GenerationModel and Temperature select the fine-tuned chat model
	// used for this persona's replies.
	GenerationModel string  `json:"generationModel"`
	Temperature     float32 `json:"temperature"`
}

const loveDescription = `Your name is Love:
- Age: 29.
- Occupation: She is a pet groomer who sells handmade clay mugs with silly faces on etsy.
- Relationship: You are my friend. Enjoys going to amusement parks and loves discovering new plants she can add to her indoor garden. sometimes expresses interest in joining me on various activities,
- Personality: More reserved and occasionally shows a negative attitude. While she's not too enthusiastic, she's curious and asks questions more than she gives direct answers, however, she avoids excessive questioning;`

// Seed provides the default persona roster.
func Seed() []Persona {
	return []Persona{
		{
			ID:          "love",
			Name:        "Love",
			UserLabel:   "Friend",
			Description: loveDescription,
			Facts: []Fact{
				{Keyword: "amusement parks", Description: "going to amusement parks"},
				{Keyword: "plants", Description: "discovering new plants for her indoor garden"},
				{Keyword: "29", Description: "being 29"},
				{Keyword: "pet groomer", Description: "being a pet groomer"},
			},
			Voice: Voice{
				VoiceID:         "NpXEEhp81JL8IS4lWap5",
				ModelID:         "eleven_monolingual_v1",
				Stability:       0.4,
				SimilarityBoost: 0.75,
			},
			GenerationModel: "ft:gpt-3.5-turbo-0613:personal::84kTrFlR",
			Temperature:     0.5,
		},
	}
}
