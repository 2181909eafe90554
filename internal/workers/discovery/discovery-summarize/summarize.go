package discoverysummarize

import (
	"strings"
	"unicode"
)

const (
	PromptEmpty = "Add a few discovery notes first – what are people telling us?"

	FallbackUnstructured = "The notes are not yet structured as pains or needs. " +
		"A next step would be to rewrite them as clear problem statements from the customer's perspective."

	ProposalIntro = "From the discovery so far, a strong candidate problem for Lime Go to focus on is:"

	ProposalBody = "Sales teams waste energy on the wrong leads and struggle to understand which " +
		"opportunities are most likely to convert. This leads to slow, reactive pipeline reviews and " +
		"missed revenue. Lime Go can help by offering a simple, explainable prioritisation layer on top " +
		"of existing data, starting with a focused 'who to talk to next' view."

	Proposal = ProposalIntro + "\n\n" + ProposalBody
)

// Summarize turns raw discovery notes into one of three fixed messages.
// Bullet lines are extracted and counted but their text never reaches the message.
func Summarize(raw string) Summary {
	trimmed := trimSpace(raw)
	if trimmed == "" {
		return Summary{Text: PromptEmpty, Outcome: OutcomeEmpty}
	}

	bullets := ExtractBullets(trimmed)
	if len(bullets) == 0 {
		return Summary{Text: FallbackUnstructured, Outcome: OutcomeUnstructured}
	}
	return Summary{Text: Proposal, Outcome: OutcomeProposal, BulletCount: len(bullets)}
}

// ExtractBullets returns the content of every line starting with "-" or "•",
// with the marker and the whitespace after it removed. Lines may end in "\n"
// or "\r\n".
func ExtractBullets(text string) []string {
	var bullets []string
	for _, line := range strings.Split(text, "\n") {
		line = trimSpace(strings.TrimSuffix(line, "\r"))
		if line == "" {
			continue
		}
		rest, ok := cutMarker(line)
		if !ok {
			continue
		}
		bullets = append(bullets, strings.TrimLeftFunc(rest, isSpace))
	}
	return bullets
}

func cutMarker(line string) (string, bool) {
	for _, marker := range []string{"-", "•"} {
		if rest, ok := strings.CutPrefix(line, marker); ok {
			return rest, true
		}
	}
	return "", false
}

func trimSpace(s string) string {
	return strings.TrimFunc(s, isSpace)
}

// isSpace matches the whitespace and line terminators a browser trims:
// Unicode White_Space without NEL, plus the byte order mark.
func isSpace(r rune) bool {
	if r == '\u0085' {
		return false
	}
	return r == '\uFEFF' || unicode.IsSpace(r)
}
