// Package sources extracts episode URL lists from text pasted by an operator
// and names the hosting provider behind each list.
package sources

import (
	"regexp"
	"strings"
)

// DefaultArrayName names the list produced by the anonymous-array and
// line-list strategies.
const DefaultArrayName = "default"

// Strategy identifies which parsing strategy produced a Result.
type Strategy string

const (
	StrategyNone        Strategy = ""
	StrategyNamedArrays Strategy = "named_arrays"
	StrategySingleArray Strategy = "single_array"
	StrategyLineList    Strategy = "line_list"
)

// ParsedArray is one group of episode URLs, in paste order.
type ParsedArray struct {
	Name     string   `json:"name"`
	Provider string   `json:"provider"`
	URLs     []string `json:"urls"`
}

// Skip records a candidate literal that was not a usable URL.
type Skip struct {
	Array   string `json:"array"`
	Literal string `json:"literal"`
	Reason  string `json:"reason"`
}

// Result is the outcome of parsing one paste.
type Result struct {
	Strategy   Strategy      `json:"strategy"`
	Arrays     []ParsedArray `json:"arrays"`
	Skipped    []Skip        `json:"skipped,omitempty"`
	Duplicates int           `json:"duplicates"`
}

// URLCount returns the number of URLs across all arrays.
func (r Result) URLCount() int {
	n := 0
	for _, a := range r.Arrays {
		n += len(a.URLs)
	}
	return n
}

var strategies = []struct {
	name  Strategy
	parse func(string) Result
}{
	{StrategyNamedArrays, ParseNamedArrays},
	{StrategySingleArray, ParseSingleArray},
	{StrategyLineList, ParseLineList},
}

// Parse runs the named-array, anonymous-array and line-list strategies in
// that order and returns the first result holding at least one URL, with
// provider labels filled in. Input that yields nothing returns an empty
// Result rather than an error.
func Parse(text string) Result {
	for _, s := range strategies {
		res := s.parse(text)
		if len(res.Arrays) == 0 {
			continue
		}
		res.Strategy = s.name
		for i := range res.Arrays {
			res.Arrays[i].Provider = ProviderLabel(res.Arrays[i])
		}
		return res
	}
	return Result{}
}

// ProviderLabel names the provider of an array from its first URL, falling
// back to the array's declared name and finally to DefaultProvider.
func ProviderLabel(a ParsedArray) string {
	if len(a.URLs) > 0 {
		if p := DetectProvider(a.URLs[0]); p != "" {
			return p
		}
	}
	if n := NameFromArray(a.Name); n != "" {
		return n
	}
	return DefaultProvider
}

var (
	declPattern      = regexp.MustCompile(`\b(?:const|let|var)\s+([A-Za-z_$][\w$]*)\s*=\s*\[`)
	declStartPattern = regexp.MustCompile(`^(?:const|let|var)\s`)
)

// ParseNamedArrays extracts every `var name = [ ... ]` style declaration.
// Declarations whose bracket never closes, or that are followed by something
// other than a statement end or another declaration, are ignored.
func ParseNamedArrays(text string) Result {
	var res Result
	consumed := 0
	for _, loc := range declPattern.FindAllStringSubmatchIndex(text, -1) {
		if loc[0] < consumed {
			continue
		}
		open := loc[1] - 1
		end, ok := matchBracket(text, open)
		if !ok || !terminated(text[end+1:]) {
			continue
		}
		consumed = end + 1

		c := newCollector(text[loc[2]:loc[3]])
		for _, lit := range quotedLiterals(text[open+1 : end]) {
			c.add(lit)
		}
		c.flush(&res)
	}
	return res
}

// ParseSingleArray handles input that is exactly one bracketed list,
// optionally followed by a semicolon.
func ParseSingleArray(text string) Result {
	t := strings.TrimSpace(text)
	t = strings.TrimSpace(strings.TrimSuffix(t, ";"))
	if !strings.HasPrefix(t, "[") {
		return Result{}
	}
	end, ok := matchBracket(t, 0)
	if !ok || end != len(t)-1 {
		return Result{}
	}

	var res Result
	c := newCollector(DefaultArrayName)
	for _, lit := range quotedLiterals(t[1:end]) {
		c.add(lit)
	}
	c.flush(&res)
	return res
}

const linePunctuation = "'\"`[],; \t\r"

// ParseLineList treats every non-empty line as a candidate URL once quoting,
// bracket and comma punctuation is stripped from both ends.
func ParseLineList(text string) Result {
	var res Result
	c := newCollector(DefaultArrayName)
	for _, line := range strings.Split(text, "\n") {
		c.add(strings.Trim(line, linePunctuation))
	}
	c.flush(&res)
	return res
}

// collector accumulates the URLs of one array, dropping invalid literals and
// repeats while keeping first-seen order.
type collector struct {
	name    string
	seen    map[string]struct{}
	urls    []string
	skipped []Skip
	dups    int
}

func newCollector(name string) *collector {
	return &collector{name: name, seen: make(map[string]struct{})}
}

func (c *collector) add(literal string) {
	literal = strings.TrimSpace(literal)
	if literal == "" {
		return
	}
	if !IsValidURL(literal) {
		c.skipped = append(c.skipped, Skip{Array: c.name, Literal: literal, Reason: "not an absolute URL"})
		return
	}
	if _, ok := c.seen[literal]; ok {
		c.dups++
		return
	}
	c.seen[literal] = struct{}{}
	c.urls = append(c.urls, literal)
}

// flush appends the array to res when it holds at least one URL.
func (c *collector) flush(res *Result) {
	res.Skipped = append(res.Skipped, c.skipped...)
	res.Duplicates += c.dups
	if len(c.urls) == 0 {
		return
	}
	res.Arrays = append(res.Arrays, ParsedArray{Name: c.name, URLs: c.urls})
}

// matchBracket returns the index of the bracket closing the one at open.
// Quoted strings and line comments are skipped.
func matchBracket(s string, open int) (int, bool) {
	depth := 0
	var quote byte
	for i := open; i < len(s); i++ {
		ch := s[i]
		if quote != 0 {
			switch ch {
			case '\\':
				i++
			case quote:
				quote = 0
			}
			continue
		}
		switch ch {
		case '\'', '"', '`':
			quote = ch
		case '/':
			if i+1 < len(s) && s[i+1] == '/' {
				i = skipLine(s, i)
			}
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return -1, false
}

// terminated reports whether rest starts, after blanks, with a statement end,
// a line comment, the end of input or the next declaration.
func terminated(rest string) bool {
	for i := 0; i < len(rest); i++ {
		switch rest[i] {
		case ' ', '\t', '\r':
			continue
		case '\n', ';', ',':
			return true
		}
		if strings.HasPrefix(rest[i:], "//") {
			return true
		}
		return declStartPattern.MatchString(rest[i:])
	}
	return true
}

// quotedLiterals returns the contents of every quoted string in body with
// backslash escapes resolved.
func quotedLiterals(body string) []string {
	var (
		out   []string
		cur   strings.Builder
		quote byte
	)
	for i := 0; i < len(body); i++ {
		ch := body[i]
		if quote != 0 {
			switch {
			case ch == '\\' && i+1 < len(body):
				i++
				cur.WriteByte(body[i])
			case ch == quote:
				out = append(out, cur.String())
				cur.Reset()
				quote = 0
			default:
				cur.WriteByte(ch)
			}
			continue
		}
		switch ch {
		case '\'', '"', '`':
			quote = ch
		case '/':
			if i+1 < len(body) && body[i+1] == '/' {
				i = skipLine(body, i)
			}
		}
	}
	return out
}

// skipLine returns the index of the newline ending the line that contains i,
// or the last index of s.
func skipLine(s string, i int) int {
	if nl := strings.IndexByte(s[i:], '\n'); nl >= 0 {
		return i + nl
	}
	return len(s) - 1
}
