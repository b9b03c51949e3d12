package citations

// fallbackSources caps how many evidence URLs are substituted when the answer
// cites nothing that checks out.
const fallbackSources = 3

// GroundCitations reduces the URLs cited in answerText to the subset backed by
// allowed, the evidence URLs collected from this run's tool output.
//
// With no evidence set (no tool was invoked, or it returned nothing) the
// answer is trusted as-is and its own URLs are returned unfiltered. Otherwise
// each cited URL is kept, in answer order, when its fragment-stripped form
// appears in the fragment-stripped allowed set. If that intersection is empty
// the first few evidence URLs are substituted: the agent clearly searched, so
// show what it found even though it did not explicitly cite it.
//
// The result never contains a URL absent from both the answer and the
// evidence set; grounding only narrows or substitutes, never invents.
func GroundCitations(answerText string, allowed []string) []string {
	if len(allowed) == 0 {
		return ExtractURLs(answerText)
	}

	allowedSet := make(map[string]struct{}, len(allowed))
	for _, u := range allowed {
		allowedSet[StripFragment(u)] = struct{}{}
	}

	var grounded []string
	kept := make(map[string]struct{})
	for _, u := range ExtractURLs(answerText) {
		base := StripFragment(u)
		if _, ok := allowedSet[base]; !ok {
			continue
		}
		if _, dup := kept[base]; dup {
			continue
		}
		kept[base] = struct{}{}
		grounded = append(grounded, base)
	}
	if len(grounded) > 0 {
		return grounded
	}

	var fallback []string
	used := make(map[string]struct{})
	for _, u := range allowed {
		base := StripFragment(u)
		if _, dup := used[base]; dup {
			continue
		}
		used[base] = struct{}{}
		fallback = append(fallback, base)
		if len(fallback) == fallbackSources {
			break
		}
	}
	return fallback
}
