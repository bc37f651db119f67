package markdown

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/goliatone/go-textbook/internal/volume"
)

var subHeadingPattern = regexp.MustCompile(`(?m)^### (.+)$`)

// Slugger issues GitHub style heading anchors. A Slugger remembers every slug
// it returned and suffixes repeats with -1, -2 and so on.
type Slugger struct {
	occurrences map[string]int
}

// NewSlugger returns an empty Slugger.
func NewSlugger() *Slugger {
	return &Slugger{occurrences: map[string]int{}}
}

// Slug returns a unique anchor for value.
func (s *Slugger) Slug(value string) string {
	if s.occurrences == nil {
		s.occurrences = map[string]int{}
	}
	base := GithubSlug(value)
	result := base
	for {
		if _, taken := s.occurrences[result]; !taken {
			break
		}
		s.occurrences[base]++
		result = base + "-" + strconv.Itoa(s.occurrences[base])
	}
	s.occurrences[result] = 0
	return result
}

// Reset forgets every issued slug.
func (s *Slugger) Reset() {
	s.occurrences = map[string]int{}
}

// GithubSlug lowercases value, drops characters other than letters, marks,
// decimal and letter numbers, connector punctuation, hyphens and spaces, and turns each space into
// a hyphen. No de-duplication is applied.
func GithubSlug(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	for _, r := range strings.ToLower(value) {
		switch {
		case r == ' ':
			b.WriteByte('-')
		case r == '-',
			unicode.IsLetter(r),
			unicode.IsMark(r),
			unicode.In(r, unicode.Nd, unicode.Nl),
			unicode.Is(unicode.Pc, r):
			b.WriteRune(r)
		}
	}
	return b.String()
}

// TransformContent appends an explicit anchor to every level-3 heading line in
// content and returns the headings it found, in order.
func TransformContent(content string, slugger *Slugger) (string, []volume.Heading) {
	if slugger == nil {
		slugger = NewSlugger()
	}
	headings := []volume.Heading{}
	out := subHeadingPattern.ReplaceAllStringFunc(content, func(line string) string {
		text := strings.TrimPrefix(line, "### ")
		slug := slugger.Slug(text)
		headings = append(headings, volume.Heading{Level: 3, Slug: slug, Title: text})
		return fmt.Sprintf("### %s {#%s}", text, slug)
	})
	return out, headings
}
