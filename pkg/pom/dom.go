// SPDX-License-Identifier: MPL-2.0

package pom

import (
	"encoding/xml"
	"strings"
)

// Dom is a generic XML element used for free-form configuration blocks.
type Dom struct {
	Name     string
	Attrs    []xml.Attr
	Value    string
	Children []*Dom
}

// NewDom creates an element with the given name and text value.
func NewDom(name, value string) *Dom {
	return &Dom{Name: name, Value: value}
}

// UnmarshalXML implements xml.Unmarshaler.
func (d *Dom) UnmarshalXML(dec *xml.Decoder, start xml.StartElement) error {
	d.Name = start.Name.Local
	d.Attrs = nil
	d.Children = nil
	for _, a := range start.Attr {
		if a.Name.Space == "xmlns" || a.Name.Local == "xmlns" {
			continue
		}
		name := a.Name.Local
		if a.Name.Space != "" {
			name = a.Name.Space + ":" + name
		}
		d.Attrs = append(d.Attrs, xml.Attr{Name: xml.Name{Local: name}, Value: a.Value})
	}

	var text strings.Builder
	for {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			child := &Dom{}
			if err := child.UnmarshalXML(dec, t); err != nil {
				return err
			}
			d.Children = append(d.Children, child)
		case xml.CharData:
			text.Write(t)
		case xml.EndElement:
			if len(d.Children) == 0 {
				d.Value = strings.TrimSpace(text.String())
			}
			return nil
		}
	}
}

// MarshalXML implements xml.Marshaler.
func (d *Dom) MarshalXML(enc *xml.Encoder, start xml.StartElement) error {
	if d.Name != "" {
		start.Name = xml.Name{Local: d.Name}
	}
	start.Attr = d.Attrs
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	if len(d.Children) == 0 && d.Value != "" {
		if err := enc.EncodeToken(xml.CharData(d.Value)); err != nil {
			return err
		}
	}
	for _, c := range d.Children {
		if err := enc.EncodeElement(c, xml.StartElement{Name: xml.Name{Local: c.Name}}); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}

// Child returns the first child element with the given name, or nil.
func (d *Dom) Child(name string) *Dom {
	if d == nil {
		return nil
	}
	for _, c := range d.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// ChildrenNamed returns all child elements with the given name.
func (d *Dom) ChildrenNamed(name string) []*Dom {
	if d == nil {
		return nil
	}
	var out []*Dom
	for _, c := range d.Children {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// ChildValue returns the text of the single child with the given name. It returns def when
// the child is missing or repeated.
func (d *Dom) ChildValue(name, def string) string {
	matches := d.ChildrenNamed(name)
	if len(matches) != 1 {
		return def
	}
	return matches[0].Value
}

// Attr returns the value of the named attribute, or "" when absent.
func (d *Dom) Attr(name string) string {
	if d == nil {
		return ""
	}
	for _, a := range d.Attrs {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

// SetAttr sets or replaces an attribute.
func (d *Dom) SetAttr(name, value string) {
	for i, a := range d.Attrs {
		if a.Name.Local == name {
			d.Attrs[i].Value = value
			return
		}
	}
	d.Attrs = append(d.Attrs, xml.Attr{Name: xml.Name{Local: name}, Value: value})
}

// AddChild appends a child element and returns it.
func (d *Dom) AddChild(c *Dom) *Dom {
	d.Children = append(d.Children, c)
	return c
}

// RemoveChildren drops every child element with the given name.
func (d *Dom) RemoveChildren(name string) {
	if d == nil {
		return
	}
	kept := d.Children[:0]
	for _, c := range d.Children {
		if c.Name != name {
			kept = append(kept, c)
		}
	}
	d.Children = kept
}

// Clone returns a deep copy of the element.
func (d *Dom) Clone() *Dom {
	if d == nil {
		return nil
	}
	out := &Dom{Name: d.Name, Value: d.Value}
	if d.Attrs != nil {
		out.Attrs = append([]xml.Attr(nil), d.Attrs...)
	}
	for _, c := range d.Children {
		out.Children = append(out.Children, c.Clone())
	}
	return out
}

// AppendChildren appends copies of src's children to d. The receiver's existing children
// are kept, so the result is the concatenation of both lists.
func (d *Dom) AppendChildren(src *Dom) {
	if d == nil || src == nil {
		return
	}
	for _, c := range src.Children {
		d.Children = append(d.Children, c.Clone())
	}
}

// MergeOver returns d layered over parent: values and elements declared on d win, elements
// only present on parent are inherited. A combine.self="override" attribute on d disables
// inheritance for that element, and combine.children="append" appends parent's children
// after d's instead of merging them by name.
func (d *Dom) MergeOver(parent *Dom) *Dom {
	if d == nil {
		return parent.Clone()
	}
	out := d.Clone()
	if parent == nil || d.Attr("combine.self") == "override" {
		return out
	}
	for _, a := range parent.Attrs {
		if out.Attr(a.Name.Local) == "" {
			out.Attrs = append(out.Attrs, a)
		}
	}
	if len(d.Children) == 0 && len(parent.Children) > 0 && d.Value == "" {
		for _, pc := range parent.Children {
			out.Children = append(out.Children, pc.Clone())
		}
		return out
	}
	if d.Attr("combine.children") == "append" {
		for _, pc := range parent.Children {
			out.Children = append(out.Children, pc.Clone())
		}
		return out
	}
	for _, pc := range parent.Children {
		idx := -1
		for i, c := range out.Children {
			if c.Name == pc.Name {
				idx = i
				break
			}
		}
		if idx < 0 {
			out.Children = append(out.Children, pc.Clone())
			continue
		}
		out.Children[idx] = out.Children[idx].MergeOver(pc)
	}
	return out
}
