package services

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// SkillSet holds canonical skill names.
type SkillSet map[string]struct{}

func NewSkillSet(skills ...string) SkillSet {
	set := make(SkillSet, len(skills))
	for _, s := range skills {
		set[s] = struct{}{}
	}
	return set
}

func (s SkillSet) Len() int {
	return len(s)
}

// Contains reports whether skill is in the set, ignoring case.
func (s SkillSet) Contains(skill string) bool {
	for k := range s {
		if strings.EqualFold(k, skill) {
			return true
		}
	}
	return false
}

func (s SkillSet) Intersect(other SkillSet) SkillSet {
	shared := make(SkillSet)
	for k := range s {
		if _, ok := other[k]; ok {
			shared[k] = struct{}{}
		}
	}
	return shared
}

func (s SkillSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// SkillMatcher finds vocabulary terms in free text. Matching is
// case-insensitive and respects word boundaries, so "SQLite" does not count
// as "SQL". Letters and digits of any script count as word characters.
type SkillMatcher struct {
	pattern   *regexp.Regexp
	canonical map[string]string
}

// NewSkillMatcher compiles the vocabulary. Blank and duplicate terms are
// ignored; the first spelling of a term is the canonical one.
func NewSkillMatcher(vocabulary []string) (*SkillMatcher, error) {
	m := &SkillMatcher{canonical: make(map[string]string)}

	var terms []string
	for _, term := range vocabulary {
		term = strings.Join(strings.Fields(term), " ")
		if term == "" {
			continue
		}
		key := skillKey(term)
		if _, ok := m.canonical[key]; ok {
			continue
		}
		m.canonical[key] = term
		terms = append(terms, term)
	}

	if len(terms) == 0 {
		return m, nil
	}

	// Longest first so that alternation prefers "Node.js" over "Node".
	sort.SliceStable(terms, func(i, j int) bool {
		return len(terms[i]) > len(terms[j])
	})

	alternatives := make([]string, 0, len(terms))
	for _, term := range terms {
		alternatives = append(alternatives, termPattern(term))
	}

	pattern, err := regexp.Compile(`(?i)(?:` + strings.Join(alternatives, "|") + `)`)
	if err != nil {
		return nil, err
	}
	m.pattern = pattern

	return m, nil
}

// Vocabulary returns the canonical terms, sorted.
func (m *SkillMatcher) Vocabulary() []string {
	out := make([]string, 0, len(m.canonical))
	for _, term := range m.canonical {
		out = append(out, term)
	}
	sort.Strings(out)
	return out
}

// Extract returns the distinct vocabulary terms present in text.
func (m *SkillMatcher) Extract(text string) SkillSet {
	found := make(SkillSet)
	if m == nil || m.pattern == nil {
		return found
	}

	// Boundary guards consume the neighbouring character, so each search
	// resumes right after the previous term rather than after its guard.
	for pos := 0; pos < len(text); {
		loc := m.pattern.FindStringSubmatchIndex(text[pos:])
		if loc == nil {
			break
		}

		start, end := matchedTerm(loc)
		if term, ok := m.canonical[skillKey(text[pos+start:pos+end])]; ok {
			found[term] = struct{}{}
		}
		pos += end
	}

	return found
}

// matchedTerm returns the bounds of the one participating term group.
func matchedTerm(loc []int) (int, int) {
	for i := 2; i+1 < len(loc); i += 2 {
		if loc[i] >= 0 {
			return loc[i], loc[i+1]
		}
	}
	return loc[0], loc[1]
}

func skillKey(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

const (
	leadingBoundary  = `(?:^|[^\p{L}\p{N}_])`
	trailingBoundary = `(?:$|[^\p{L}\p{N}_])`
)

// termPattern captures term, lets inner spaces match any whitespace run and
// guards word boundaries only on edges that are word characters.
func termPattern(term string) string {
	words := strings.Fields(term)
	for i, w := range words {
		words[i] = regexp.QuoteMeta(w)
	}
	p := "(" + strings.Join(words, `\s+`) + ")"

	first, _ := utf8.DecodeRuneInString(term)
	last, _ := utf8.DecodeLastRuneInString(term)
	if isWordRune(first) {
		p = leadingBoundary + p
	}
	if isWordRune(last) {
		p += trailingBoundary
	}
	return p
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}
