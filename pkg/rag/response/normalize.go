package response

import (
	"sort"
	"strings"

	"soros-rag-be/pkg/llm"
)

// Normalized is the backend reply reduced to one of three shapes.
// Nothing downstream of this package looks at raw backend structures.
type Normalized interface {
	isNormalized()
}

// FullText is a single direct answer from the backend.
type FullText struct {
	Text string
}

// FragmentedText holds text parts collected across all candidates, in order.
type FragmentedText struct {
	Fragments []string
}

// Refused means no text came back. Reasons are distinct finish/block reasons, sorted.
type Refused struct {
	Reasons []string
}

func (FullText) isNormalized()       {}
func (FragmentedText) isNormalized() {}
func (Refused) isNormalized()        {}

const refusalRemediation = "This often happens due to safety filters or content restrictions.\n\n" +
	"The underlying model declined to answer this exact phrasing. " +
	"Try rephrasing the question in more general, educational terms " +
	"and avoid asking for explicit buy/sell/hold advice."

// Normalize picks the first usable shape: direct text, then fragments, then refusal.
func Normalize(raw *llm.RawResponse) Normalized {
	if raw == nil {
		return Refused{}
	}

	if raw.Text != nil && strings.TrimSpace(*raw.Text) != "" {
		return FullText{Text: *raw.Text}
	}

	var fragments []string
	for _, c := range raw.Candidates {
		for _, p := range c.Parts {
			if p != "" {
				fragments = append(fragments, p)
			}
		}
	}
	if strings.TrimSpace(strings.Join(fragments, "")) != "" {
		return FragmentedText{Fragments: fragments}
	}

	seen := make(map[string]struct{})
	for _, c := range raw.Candidates {
		if c.FinishReason != "" {
			seen[c.FinishReason] = struct{}{}
		}
	}
	if raw.BlockReason != "" {
		seen[raw.BlockReason] = struct{}{}
	}
	reasons := make([]string, 0, len(seen))
	for r := range seen {
		reasons = append(reasons, r)
	}
	sort.Strings(reasons)

	return Refused{Reasons: reasons}
}

// Render turns any normalized shape into the user-facing string. The result is never empty.
func Render(n Normalized) string {
	switch v := n.(type) {
	case FullText:
		return strings.TrimSpace(v.Text)
	case FragmentedText:
		return strings.TrimSpace(strings.Join(v.Fragments, "\n"))
	case Refused:
		return RefusalMessage(v.Reasons)
	default:
		return RefusalMessage(nil)
	}
}

func RefusalMessage(reasons []string) string {
	info := "unknown"
	if len(reasons) > 0 {
		info = strings.Join(reasons, ", ")
	}
	return "The model could not return a normal answer (finish_reason=" + info + "). " + refusalRemediation
}
