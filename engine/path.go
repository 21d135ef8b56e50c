package engine

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// ErrInvalidPathFile is returned for any malformed path description.
var ErrInvalidPathFile = errors.New("invalid path file")

// siteTokenLen is the width of one site token: a two-character code plus a
// capacity character.
const siteTokenLen = 3

// Site is one position on the path.
type Site struct {
	Type      SiteType
	Capacity  int   // 0 = unlimited
	Occupants []int // player ids in arrival order
}

// Available reports whether another player may land on the site.
func Available(s Site) bool {
	return s.Capacity == 0 || len(s.Occupants) < s.Capacity
}

// Path is the ordered sequence of sites. Its shape never changes after load;
// only occupant lists mutate.
type Path struct {
	Sites []Site
}

// LoadPath parses a path description of the form "N;" followed by N
// three-character site tokens, e.g. "4;::-Mo1Do1::-".
func LoadPath(text string) (*Path, error) {
	text = strings.TrimRight(text, "\r\n")
	countStr, body, ok := strings.Cut(text, ";")
	if !ok {
		return nil, fmt.Errorf("%w: missing ';' after site count", ErrInvalidPathFile)
	}
	n, err := strconv.Atoi(countStr)
	if err != nil || n < 2 {
		return nil, fmt.Errorf("%w: bad site count %q", ErrInvalidPathFile, countStr)
	}
	if len(body)%siteTokenLen != 0 || len(body)/siteTokenLen != n {
		return nil, fmt.Errorf("%w: expected %d sites, got %d characters", ErrInvalidPathFile, n, len(body))
	}

	p := &Path{Sites: make([]Site, n)}
	for i := 0; i < n; i++ {
		tok := body[i*siteTokenLen : (i+1)*siteTokenLen]
		st, ok := ParseSiteType(tok[:2])
		if !ok {
			return nil, fmt.Errorf("%w: unknown site code %q at %d", ErrInvalidPathFile, tok[:2], i)
		}
		capacity, err := parseCapacity(st, tok[2])
		if err != nil {
			return nil, fmt.Errorf("%w: site %d: %v", ErrInvalidPathFile, i, err)
		}
		p.Sites[i] = Site{Type: st, Capacity: capacity}
	}
	if p.Sites[0].Type != SiteBarrier || p.Sites[n-1].Type != SiteBarrier {
		return nil, fmt.Errorf("%w: path must start and end with a barrier", ErrInvalidPathFile)
	}
	return p, nil
}

func parseCapacity(st SiteType, c byte) (int, error) {
	if st == SiteBarrier {
		if c != '-' {
			return 0, fmt.Errorf("barrier capacity must be '-', got %q", c)
		}
		return 0, nil
	}
	if c < '1' || c > '9' {
		return 0, fmt.Errorf("capacity must be 1-9, got %q", c)
	}
	return int(c - '0'), nil
}

// Encode renders the path back into its file form.
func (p *Path) Encode() string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(len(p.Sites)))
	b.WriteByte(';')
	for _, s := range p.Sites {
		b.WriteString(s.Type.String())
		if s.Capacity == 0 {
			b.WriteByte('-')
		} else {
			b.WriteString(strconv.Itoa(s.Capacity))
		}
	}
	return b.String()
}

// Len returns the number of sites.
func (p *Path) Len() int { return len(p.Sites) }

// Last returns the index of the goal site.
func (p *Path) Last() int { return len(p.Sites) - 1 }

// FindNextBarrier returns the index of the nearest barrier strictly after
// from, or the last index if there is none.
func (p *Path) FindNextBarrier(from int) int {
	for i := from + 1; i < len(p.Sites); i++ {
		if p.Sites[i].Type == SiteBarrier {
			return i
		}
	}
	return p.Last()
}

// FindEarliest returns the index of the nearest barrier strictly before
// from, or 0 if there is none.
func (p *Path) FindEarliest(from int) int {
	for i := from - 1; i > 0; i-- {
		if p.Sites[i].Type == SiteBarrier {
			return i
		}
	}
	return 0
}

// Segment returns the barriers enclosing site: the nearest one at or before
// it and the nearest one after it.
func (p *Path) Segment(site int) (start, end int) {
	start = site
	if p.Sites[site].Type != SiteBarrier {
		start = p.FindEarliest(site)
	}
	return start, p.FindNextBarrier(site)
}

// Available reports whether site i can take another occupant.
func (p *Path) Available(i int) bool {
	return i >= 0 && i < len(p.Sites) && Available(p.Sites[i])
}

// Place appends player id to the occupants of site i.
func (p *Path) Place(id, i int) {
	p.Sites[i].Occupants = append(p.Sites[i].Occupants, id)
}

// Remove drops player id from the occupants of site i.
func (p *Path) Remove(id, i int) {
	p.Sites[i].Occupants = slices.DeleteFunc(p.Sites[i].Occupants, func(o int) bool { return o == id })
}

// Clone returns a deep copy of the path, occupants included.
func (p *Path) Clone() *Path {
	c := &Path{Sites: make([]Site, len(p.Sites))}
	for i, s := range p.Sites {
		c.Sites[i] = Site{Type: s.Type, Capacity: s.Capacity, Occupants: slices.Clone(s.Occupants)}
	}
	return c
}
