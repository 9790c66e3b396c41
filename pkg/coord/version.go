// SPDX-License-Identifier: MPL-2.0

package coord

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

var (
	// ErrInvalidRange is returned when a version range specification cannot be parsed.
	ErrInvalidRange = errors.New("invalid version range")
	// ErrNoMatchingVersion is returned when no available version satisfies a range.
	ErrNoMatchingVersion = errors.New("no matching version")
)

// qualifierRank orders well-known qualifiers. Unknown qualifiers sort after all of them.
var qualifierRank = map[string]int{
	"alpha":     0,
	"a":         0,
	"beta":      1,
	"b":         1,
	"milestone": 2,
	"m":         2,
	"rc":        3,
	"cr":        3,
	"snapshot":  4,
	"":          5,
	"ga":        5,
	"final":     5,
	"release":   5,
	"sp":        6,
}

const unknownQualifierRank = 7

type (
	// versionItem is one numeric or textual segment of a version.
	versionItem struct {
		numeric bool
		num     int
		str     string
	}

	// Restriction is one interval of a version range. A nil bound is unbounded.
	Restriction struct {
		Lower          string
		LowerInclusive bool
		Upper          string
		UpperInclusive bool
	}

	// Range is a parsed version specification. A soft requirement ("1.0") has a
	// Recommended version and no restrictions.
	Range struct {
		Spec         string
		Recommended  string
		Restrictions []Restriction
	}
)

// parseItems splits a version into comparable segments. Separators are '.', '-' and
// transitions between digits and letters.
func parseItems(v string) []versionItem {
	var items []versionItem
	var cur strings.Builder
	curDigit := false

	flush := func() {
		if cur.Len() == 0 {
			return
		}
		s := cur.String()
		cur.Reset()
		if curDigit {
			n, err := strconv.Atoi(s)
			if err == nil {
				items = append(items, versionItem{numeric: true, num: n})
				return
			}
		}
		items = append(items, versionItem{str: strings.ToLower(s)})
	}

	for _, r := range v {
		switch {
		case r == '.' || r == '-' || r == '_':
			flush()
		case unicode.IsDigit(r):
			if !curDigit {
				flush()
			}
			curDigit = true
			cur.WriteRune(r)
		default:
			if curDigit {
				flush()
			}
			curDigit = false
			cur.WriteRune(r)
		}
	}
	flush()

	// Trailing zero and release-equivalent segments do not change ordering.
	for len(items) > 0 {
		last := items[len(items)-1]
		if (last.numeric && last.num == 0) || (!last.numeric && qualifierRank[last.str] == 5 && last.str != "") {
			items = items[:len(items)-1]
			continue
		}
		break
	}
	return items
}

func rankOf(s string) int {
	if r, ok := qualifierRank[s]; ok {
		return r
	}
	return unknownQualifierRank
}

// compareItem compares two segments; a nil item stands for a missing segment.
func compareItem(a, b *versionItem) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -compareItem(b, nil)
	case b == nil:
		if a.numeric {
			return cmpInt(a.num, 0)
		}
		return cmpInt(rankOf(a.str), qualifierRank[""])
	case a.numeric && b.numeric:
		return cmpInt(a.num, b.num)
	case a.numeric:
		return 1
	case b.numeric:
		return -1
	default:
		ra, rb := rankOf(a.str), rankOf(b.str)
		if ra != rb {
			return cmpInt(ra, rb)
		}
		if ra == unknownQualifierRank {
			return strings.Compare(a.str, b.str)
		}
		return 0
	}
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Compare compares two versions. It returns -1 if a < b, 0 if they are equivalent
// and 1 if a > b.
func Compare(a, b string) int {
	ia, ib := parseItems(a), parseItems(b)
	n := max(len(ia), len(ib))
	for i := range n {
		var x, y *versionItem
		if i < len(ia) {
			x = &ia[i]
		}
		if i < len(ib) {
			y = &ib[i]
		}
		if c := compareItem(x, y); c != 0 {
			return c
		}
	}
	return 0
}

// ParseRange parses a version specification such as "1.0", "[1.0]", "[1.0,2.0)",
// "(,1.0]" or "[1,2),[3,4)".
func ParseRange(spec string) (*Range, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, fmt.Errorf("%w: empty specification", ErrInvalidRange)
	}
	if !strings.ContainsAny(spec, "[(") {
		if strings.ContainsAny(spec, "])") {
			return nil, fmt.Errorf("%w: %s", ErrInvalidRange, spec)
		}
		return &Range{Spec: spec, Recommended: spec}, nil
	}

	r := &Range{Spec: spec}
	rest := spec
	for rest != "" {
		if rest[0] != '[' && rest[0] != '(' {
			return nil, fmt.Errorf("%w: %s", ErrInvalidRange, spec)
		}
		end := strings.IndexAny(rest, "])")
		if end < 0 {
			return nil, fmt.Errorf("%w: unbalanced brackets in %s", ErrInvalidRange, spec)
		}
		restriction, err := parseRestriction(rest[:end+1])
		if err != nil {
			return nil, fmt.Errorf("%w: %s", err, spec)
		}
		r.Restrictions = append(r.Restrictions, restriction)
		rest = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(rest[end+1:]), ","))
	}
	return r, nil
}

func parseRestriction(s string) (Restriction, error) {
	lowerInclusive := s[0] == '['
	upperInclusive := s[len(s)-1] == ']'
	inner := strings.TrimSpace(s[1 : len(s)-1])

	lower, upper, found := strings.Cut(inner, ",")
	if !found {
		if !lowerInclusive || !upperInclusive || inner == "" {
			return Restriction{}, ErrInvalidRange
		}
		return Restriction{Lower: inner, LowerInclusive: true, Upper: inner, UpperInclusive: true}, nil
	}

	lower, upper = strings.TrimSpace(lower), strings.TrimSpace(upper)
	if lower != "" && upper != "" && Compare(lower, upper) > 0 {
		return Restriction{}, ErrInvalidRange
	}
	return Restriction{Lower: lower, LowerInclusive: lowerInclusive, Upper: upper, UpperInclusive: upperInclusive}, nil
}

// Contains reports whether v satisfies the restriction.
func (r Restriction) Contains(v string) bool {
	if r.Lower != "" {
		c := Compare(v, r.Lower)
		if c < 0 || (c == 0 && !r.LowerInclusive) {
			return false
		}
	}
	if r.Upper != "" {
		c := Compare(v, r.Upper)
		if c > 0 || (c == 0 && !r.UpperInclusive) {
			return false
		}
	}
	return true
}

// IsSoft reports whether the range is a plain recommended version.
func (r *Range) IsSoft() bool {
	return len(r.Restrictions) == 0
}

// Contains reports whether v satisfies the range. A soft requirement only contains itself.
func (r *Range) Contains(v string) bool {
	if r.IsSoft() {
		return Compare(v, r.Recommended) == 0
	}
	for _, res := range r.Restrictions {
		if res.Contains(v) {
			return true
		}
	}
	return false
}

// RecommendedVersion returns the version a range points at without consulting a
// repository: the soft version itself, or the single version of an exact range.
// It returns "" when the range is open.
func (r *Range) RecommendedVersion() string {
	if r.IsSoft() {
		return r.Recommended
	}
	if len(r.Restrictions) == 1 {
		res := r.Restrictions[0]
		if res.Lower != "" && res.Lower == res.Upper {
			return res.Lower
		}
	}
	return ""
}

// Resolve picks the highest available version satisfying spec. A soft requirement
// resolves to itself.
func Resolve(spec string, available []string) (string, error) {
	r, err := ParseRange(spec)
	if err != nil {
		return "", err
	}
	if r.IsSoft() {
		return r.Recommended, nil
	}

	var matching []string
	for _, v := range available {
		if r.Contains(v) {
			matching = append(matching, v)
		}
	}
	if len(matching) == 0 {
		return "", fmt.Errorf("%w: %q (available: %v)", ErrNoMatchingVersion, spec, available)
	}

	SortVersions(matching)
	return matching[0], nil
}

// SortVersions sorts versions in descending order (newest first).
func SortVersions(versions []string) {
	sort.SliceStable(versions, func(i, j int) bool {
		return Compare(versions[i], versions[j]) > 0
	})
}
