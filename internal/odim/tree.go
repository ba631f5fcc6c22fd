// Package odim lays out polar objects as an ODIM_H5 group tree. The tree is
// storage neutral; internal/adapter/hdf5 writes it to disk.
package odim

import (
	"fmt"
	"strings"
)

// Attr is a named scalar or array attribute. Value is a string, int64,
// float64 or []float64.
type Attr struct {
	Name  string
	Value any
}

// Dataset is a two-dimensional array of packed values.
type Dataset struct {
	Name  string
	Bits  int // 8 or 16
	Rows  int
	Cols  int
	Data  []uint16
	Attrs []Attr
}

// Group is a node of the tree.
type Group struct {
	Name     string
	Attrs    []Attr
	Groups   []*Group
	Datasets []*Dataset
}

// AddGroup appends and returns a new child group.
func (g *Group) AddGroup(name string) *Group {
	child := &Group{Name: name}
	g.Groups = append(g.Groups, child)
	return child
}

// SetAttr appends an attribute, replacing an existing one of the same name.
func (g *Group) SetAttr(name string, value any) {
	for i := range g.Attrs {
		if g.Attrs[i].Name == name {
			g.Attrs[i].Value = value
			return
		}
	}
	g.Attrs = append(g.Attrs, Attr{Name: name, Value: value})
}

// Attr returns the value of a named attribute.
func (g *Group) Attr(name string) (any, bool) {
	for _, a := range g.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return nil, false
}

// Child returns the direct child group called name.
func (g *Group) Child(name string) *Group {
	for _, c := range g.Groups {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Lookup resolves a slash separated path such as "dataset1/data2/what".
func (g *Group) Lookup(path string) *Group {
	cur := g
	for _, part := range strings.Split(strings.Trim(path, "/"), "/") {
		if part == "" {
			continue
		}
		if cur = cur.Child(part); cur == nil {
			return nil
		}
	}
	return cur
}

// Walk visits g and every descendant depth first, passing the full path.
func (g *Group) Walk(fn func(path string, grp *Group) error) error {
	return g.walk("/", fn)
}

func (g *Group) walk(path string, fn func(string, *Group) error) error {
	if err := fn(path, g); err != nil {
		return err
	}
	for _, c := range g.Groups {
		childPath := path + c.Name
		if err := c.walk(childPath+"/", fn); err != nil {
			return fmt.Errorf("%s: %w", childPath, err)
		}
	}
	return nil
}
