package statepath

import (
	"fmt"
	"strconv"
	"strings"
)

// Path addresses a single node in a state tree: string elements select
// struct fields (by json tag, then field name) or map keys, int elements
// select slice positions.
type Path []any

// P builds a Path from its elements.
func P(elems ...any) Path {
	return Path(elems)
}

// Parse converts the dotted convenience form into a Path. Segments made
// entirely of digits become int indices, everything else stays a string
// key. A string without dots parses to a single-key path.
func Parse(s string) Path {
	if s == "" {
		return nil
	}
	segs := strings.Split(s, ".")
	p := make(Path, len(segs))
	for i, seg := range segs {
		if n, err := strconv.Atoi(seg); err == nil {
			p[i] = n
		} else {
			p[i] = seg
		}
	}
	return p
}

// From normalizes the three accepted path forms (Path, single key, dotted
// string) into a Path.
func From(v any) Path {
	switch p := v.(type) {
	case Path:
		return p
	case []any:
		return Path(p)
	case string:
		return Parse(p)
	case int:
		return Path{p}
	}
	panic(fmt.Sprintf("statepath: unsupported path form %T", v))
}

func (p Path) String() string {
	var b strings.Builder
	for i, e := range p {
		if i > 0 {
			b.WriteByte('.')
		}
		fmt.Fprintf(&b, "%v", e)
	}
	return b.String()
}
