package ollama

import "strings"

// meetingPrompt is the fixed instruction sent ahead of every transcript.
const meetingPrompt = `You are a meeting notes formatter. Given a raw voice transcript, produce clean structured meeting notes in markdown. Include these sections only if relevant content exists:

## Attendees
- (list if mentioned)

## Key Points
- (main topics discussed)

## Action Items
- [ ] (tasks assigned, with owner if mentioned)

## Decisions
- (decisions made)

## Notes
- (anything else noteworthy)

Keep it concise. Do not add information that wasn't in the transcript. If the transcript is short or informal, keep the notes proportionally brief.

Raw transcript:
{transcript}`

// buildPrompt substitutes the transcript into the instruction template.
func buildPrompt(transcript string) string {
	return strings.Replace(meetingPrompt, "{transcript}", transcript, 1)
}
