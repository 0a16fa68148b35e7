package extraction

import (
	"fmt"
	"strings"

	"mail-calendar-automation/internal/model"
)

const titleRule = `"title": activity name in UPPER CASE without asterisks. Padel court bookings are the exception: their title is exactly "Pádel".`

// ConfirmationSystemPrompt asks for the event a confirmation email announces.
const ConfirmationSystemPrompt = `You read booking and appointment emails and extract the calendar event they confirm.

Return ONLY a valid JSON object with this structure:
{
  "title": "ACTIVITY",
  "description": "Detailed description of the event",
  "startDateTime": "2024-01-15T14:00:00",
  "endDateTime": "2024-01-15T15:00:00",
  "location": "Room and venue, if mentioned",
  "timeZone": "Europe/Madrid"
}

RULES:
1. ` + titleRule + `
2. If no specific date or time is found, use a reasonable future date.
3. If no duration is given, assume 1 hour.
4. Dates use ISO 8601 without offset, in the event's local time.
5. Omit "location" when the email does not mention one.
6. Put every relevant detail in the description.
7. Keep the title short but descriptive.
8. No markdown, no code fences, no extra text.`

// CancellationSystemPrompt asks for the event a cancellation email cancels.
const CancellationSystemPrompt = `You read cancellation emails and extract the calendar event being cancelled.

Return ONLY a valid JSON object with this structure:
{
  "title": "ACTIVITY",
  "startDateTime": "2024-01-15T14:00:00",
  "endDateTime": "2024-01-15T15:00:00",
  "location": "Room and venue, if mentioned",
  "timeZone": "Europe/Madrid"
}

RULES:
1. Describe the event that is CANCELLED, not the email itself.
2. ` + titleRule + `
3. Dates use ISO 8601 without offset, in the event's local time.
4. Omit "location" when no specific place is mentioned.
5. Keep the title short but descriptive.
6. If no explicit date is given, infer it from the context.
7. No markdown, no code fences, no extra text.`

// BuildPrompt renders the message for the model.
func BuildPrompt(msg model.Message, today string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Today is %s.\n\n", today)
	b.WriteString("EMAIL:\n")
	fmt.Fprintf(&b, "Subject: %s\n", msg.Subject)
	fmt.Fprintf(&b, "From: %s\n", msg.From)
	fmt.Fprintf(&b, "Date: %s\n", msg.Date)
	fmt.Fprintf(&b, "Body: %s\n", msg.Body)
	fmt.Fprintf(&b, "Snippet: %s\n", msg.Snippet)
	b.WriteString("\nReply with the JSON object only.")
	return b.String()
}
