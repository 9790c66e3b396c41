// SPDX-License-Identifier: MPL-2.0

package pom

import (
	"encoding/xml"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Properties is an insertion-ordered string map. The zero value is ready to use and all
// read methods are safe on a nil receiver.
type Properties struct {
	m *orderedmap.OrderedMap[string, string]
}

// NewProperties creates a property set from alternating key/value pairs.
func NewProperties(kv ...string) *Properties {
	p := &Properties{}
	for i := 0; i+1 < len(kv); i += 2 {
		p.Set(kv[i], kv[i+1])
	}
	return p
}

func (p *Properties) init() {
	if p.m == nil {
		p.m = orderedmap.New[string, string]()
	}
}

// Get returns the value for key.
func (p *Properties) Get(key string) (string, bool) {
	if p == nil || p.m == nil {
		return "", false
	}
	return p.m.Get(key)
}

// Value returns the value for key, or "" when it is not set.
func (p *Properties) Value(key string) string {
	v, _ := p.Get(key)
	return v
}

// Set stores a value. An existing key keeps its position.
func (p *Properties) Set(key, value string) {
	p.init()
	p.m.Set(key, value)
}

// Remove deletes key and returns the value it held.
func (p *Properties) Remove(key string) (string, bool) {
	if p == nil || p.m == nil {
		return "", false
	}
	return p.m.Delete(key)
}

// Len returns the number of properties.
func (p *Properties) Len() int {
	if p == nil || p.m == nil {
		return 0
	}
	return p.m.Len()
}

// Keys returns the keys in declaration order.
func (p *Properties) Keys() []string {
	if p == nil || p.m == nil {
		return nil
	}
	keys := make([]string, 0, p.m.Len())
	for pair := p.m.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// PutAll copies every entry of other into p, overwriting existing keys.
func (p *Properties) PutAll(other *Properties) {
	if other == nil || other.m == nil {
		return
	}
	for pair := other.m.Oldest(); pair != nil; pair = pair.Next() {
		p.Set(pair.Key, pair.Value)
	}
}

// Clone returns an independent copy.
func (p *Properties) Clone() *Properties {
	out := &Properties{}
	out.PutAll(p)
	return out
}

// Map returns the properties as a plain map.
func (p *Properties) Map() map[string]string {
	out := make(map[string]string, p.Len())
	for _, k := range p.Keys() {
		out[k] = p.Value(k)
	}
	return out
}

// UnmarshalXML implements xml.Unmarshaler.
func (p *Properties) UnmarshalXML(dec *xml.Decoder, _ xml.StartElement) error {
	for {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			var value string
			if err := dec.DecodeElement(&value, &t); err != nil {
				return err
			}
			p.Set(t.Name.Local, strings.TrimSpace(value))
		case xml.EndElement:
			return nil
		}
	}
}

// MarshalXML implements xml.Marshaler.
func (p *Properties) MarshalXML(enc *xml.Encoder, start xml.StartElement) error {
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	for _, k := range p.Keys() {
		if err := enc.EncodeElement(p.Value(k), xml.StartElement{Name: xml.Name{Local: k}}); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}
