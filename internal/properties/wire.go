package properties

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// CommaList is an ordered string list that travels as a single comma-joined
// XML element, the wire shape the properties endpoint uses for CORS origins,
// methods and headers.
type CommaList []string

// MarshalXML writes the list as one comma-joined element. An empty list
// still produces the element so "cleared" survives the round trip.
func (c CommaList) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	return e.EncodeElement(strings.Join(c, ","), start)
}

// UnmarshalXML splits the element text on commas. An empty element decodes
// to nil so length comparisons see zero entries, not one empty string.
func (c *CommaList) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var s string
	if err := d.DecodeElement(&s, &start); err != nil {
		return err
	}
	if s == "" {
		*c = nil
		return nil
	}
	*c = strings.Split(s, ",")
	return nil
}

// Marshal serializes the properties to the request body. Only set fields
// appear; that is what gives Set its partial-update semantics.
func Marshal(p *ServiceProperties) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(p); err != nil {
		return nil, fmt.Errorf("marshal service properties: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("marshal service properties: %w", err)
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a response body leniently: blocks absent from the
// document stay nil rather than becoming default-constructed children.
func Unmarshal(r io.Reader) (*ServiceProperties, error) {
	var p ServiceProperties
	if err := xml.NewDecoder(r).Decode(&p); err != nil {
		return nil, fmt.Errorf("unmarshal service properties: %w", err)
	}
	return &p, nil
}
