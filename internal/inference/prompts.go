package inference

import "reflectd/pkg/types"

// Fixed fallback answers.
const (
	ChatApology    = "I'm sorry, I'm having trouble responding right now. Please try again in a moment."
	SummaryFailure = "Unable to generate a summary at this time."
)

const (
	summaryInstruction    = "Please summarize the following journal entry in a concise way (30 words or less):\n\n"
	reflectionInstruction = "Please provide a thoughtful, empathetic reflection (2-3 sentences) on this journal entry. The person's mood is %s.\n\n%s"
	moodClassifierPrompt  = "You classify the mood of journal entries. Answer with exactly one word, one of: happy, neutral, reflective, sad. No punctuation, no explanation."
)

var cannedReflections = map[types.Mood]string{
	types.MoodHappy:      "It's great to see you're feeling positive. Keep this momentum going!",
	types.MoodNeutral:    "Days like these are important too. What small thing could make tomorrow a bit brighter?",
	types.MoodReflective: "Taking time to reflect shows great self-awareness. What insights will you carry forward?",
	types.MoodSad:        "It's okay to have difficult days. Be gentle with yourself and remember that emotions are temporary.",
}

// CannedReflection returns the offline reflection for mood; unknown moods
// get the neutral one.
func CannedReflection(mood types.Mood) string {
	if r, ok := cannedReflections[mood]; ok {
		return r
	}
	return cannedReflections[types.MoodNeutral]
}
