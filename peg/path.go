package peg

import "strings"

// Path is the chain of rules from the root frame down to a frame.
type Path []Matcher

// Path computes the rule chain of the frame, root first. It is rebuilt on
// every call because frames are reused for different rules.
func (c *Context) Path() Path {
	path := make(Path, c.level+1)
	for f := c; f != nil; f = f.parent {
		path[f.level] = f.matcher
	}
	return path
}

// Contains reports whether m occurs in the path.
func (p Path) Contains(m Matcher) bool {
	for _, x := range p {
		if x == m {
			return true
		}
	}
	return false
}

// Head returns the innermost rule, or nil for an empty path.
func (p Path) Head() Matcher {
	if len(p) == 0 {
		return nil
	}
	return p[len(p)-1]
}

func (p Path) String() string {
	var sb strings.Builder
	for i, m := range p {
		if i > 0 {
			sb.WriteByte('/')
		}
		if m == nil {
			sb.WriteString("<retired>")
			continue
		}
		sb.WriteString(m.Label())
	}
	return sb.String()
}
