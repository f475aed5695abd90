package svgicon

import (
	"sort"
	"strings"
)

// Basic support for <style> elements: only simple selectors
// (type, class, id, universal, and their compounds) are supported.

type selector struct {
	tag     string // empty for any
	id      string
	classes []string
}

// specificity as (ids, classes, types), packed
func (s selector) specificity() int {
	spec := len(s.classes) << 8
	if s.id != "" {
		spec += 1 << 16
	}
	if s.tag != "" {
		spec++
	}
	return spec
}

func (s selector) matches(el *Element) bool {
	if s.tag != "" && s.tag != el.Name.Local {
		return false
	}
	if s.id != "" {
		if id, _ := el.Get("id"); id != s.id {
			return false
		}
	}
	if len(s.classes) != 0 {
		class, _ := el.Get("class")
		elClasses := strings.Fields(class)
		for _, c := range s.classes {
			if !containsString(elClasses, c) {
				return false
			}
		}
	}
	return true
}

func containsString(l []string, s string) bool {
	for _, v := range l {
		if v == s {
			return true
		}
	}
	return false
}

// parseSelector returns false for unsupported selectors
func parseSelector(s string) (selector, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, " \t\n>+~:[") {
		return selector{}, false
	}
	var out selector
	// split on '.' and '#', keeping the delimiters
	start := 0
	for i := 0; i <= len(s); i++ {
		if i < len(s) && s[i] != '.' && s[i] != '#' {
			continue
		}
		part := s[start:i]
		start = i
		switch {
		case part == "":
		case part[0] == '.':
			if len(part) == 1 {
				return selector{}, false
			}
			out.classes = append(out.classes, part[1:])
		case part[0] == '#':
			if len(part) == 1 || out.id != "" {
				return selector{}, false
			}
			out.id = part[1:]
		case part == "*":
		default:
			out.tag = part
		}
	}
	return out, true
}

type cssRule struct {
	selector     selector
	specificity  int
	order        int
	declarations []declaration
}

// styleSheet stores the rules sorted by specificity then source order,
// so that later rules override earlier ones.
type styleSheet []cssRule

func (sh styleSheet) match(el *Element) []declaration {
	var out []declaration
	for _, rule := range sh {
		if rule.selector.matches(el) {
			out = append(out, rule.declarations...)
		}
	}
	return out
}

// stripComments removes the /* */ comments
func stripComments(css string) string {
	var b strings.Builder
	for {
		start := strings.Index(css, "/*")
		if start == -1 {
			break
		}
		b.WriteString(css[:start])
		end := strings.Index(css[start+2:], "*/")
		if end == -1 {
			css = ""
			break
		}
		css = css[start+2+end+2:]
	}
	b.WriteString(css)
	return b.String()
}

// skipBlock returns the index following the block starting
// at css[i] == '{', handling nested blocks.
func skipBlock(css string, i int) int {
	depth := 0
	for ; i < len(css); i++ {
		switch css[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return len(css)
}

// parseStyleSheet adds the rules found in `css` to the sheet.
// At-rules and unsupported selectors are skipped.
func (sh *styleSheet) parse(css string) {
	css = stripComments(css)
	for i := 0; i < len(css); {
		open := strings.IndexAny(css[i:], "{;")
		if open == -1 {
			break
		}
		open += i
		prelude := strings.TrimSpace(css[i:open])
		if css[open] == ';' { // at-rule statement, such as @import
			i = open + 1
			continue
		}
		end := skipBlock(css, open)
		if strings.HasPrefix(prelude, "@") {
			Logger().Debug("ignoring CSS at-rule", "rule", prelude)
			i = end
			continue
		}
		body := css[open+1 : end]
		body = strings.TrimSuffix(body, "}")
		decls := parseDeclarations(body)
		for _, sel := range strings.Split(prelude, ",") {
			s, ok := parseSelector(sel)
			if !ok {
				Logger().Debug("ignoring unsupported CSS selector", "selector", sel)
				continue
			}
			*sh = append(*sh, cssRule{selector: s, specificity: s.specificity(), order: len(*sh), declarations: decls})
		}
		i = end
	}
	sort.SliceStable(*sh, func(i, j int) bool {
		a, b := (*sh)[i], (*sh)[j]
		if a.specificity != b.specificity {
			return a.specificity < b.specificity
		}
		return a.order < b.order
	})
}
