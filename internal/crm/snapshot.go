package crm

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/Suhaib536/Ai-SalesCall-Assist/internal/models"
	"github.com/xeipuuv/gojsonschema"
)

// documentSchema describes crm.json: an object keyed by customer name.
// Missing lists are tolerated and read back as empty.
const documentSchema = `{
	"type": "object",
	"additionalProperties": {
		"type": "object",
		"properties": {
			"past_purchases":  {"type": "array", "items": {"type": "string"}},
			"interests":       {"type": "array", "items": {"type": "string"}},
			"recommendations": {"type": "array", "items": {"type": "string"}}
		}
	}
}`

var documentSchemaLoader = gojsonschema.NewStringLoader(documentSchema)

// record is the persisted form of a profile; the name lives in the key.
type record struct {
	PastPurchases   []string `json:"past_purchases"`
	Interests       []string `json:"interests"`
	Recommendations []string `json:"recommendations"`
}

// Snapshot is a point-in-time copy of the customer document. It keeps the
// document's key order.
type Snapshot struct {
	order    []string
	profiles map[string]models.CustomerProfile
}

func newSnapshot() *Snapshot {
	return &Snapshot{profiles: make(map[string]models.CustomerProfile)}
}

// Names returns customer names in insertion order.
func (s *Snapshot) Names() []string {
	names := make([]string, len(s.order))
	copy(names, s.order)
	return names
}

// Len returns the number of profiles.
func (s *Snapshot) Len() int {
	return len(s.order)
}

// Get returns a copy of the named profile. Unknown names yield an empty
// profile and false.
func (s *Snapshot) Get(name string) (models.CustomerProfile, bool) {
	p, ok := s.profiles[name]
	if !ok {
		return models.CustomerProfile{Name: name}.Clone(), false
	}
	return p.Clone(), true
}

func (s *Snapshot) has(name string) bool {
	_, ok := s.profiles[name]
	return ok
}

// put inserts or replaces a profile. Replacing keeps the original position.
func (s *Snapshot) put(p models.CustomerProfile) {
	if !s.has(p.Name) {
		s.order = append(s.order, p.Name)
	}
	s.profiles[p.Name] = p.Clone()
}

func decodeSnapshot(data []byte) (*Snapshot, error) {
	result, err := gojsonschema.Validate(documentSchemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptState, err)
	}
	if !result.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrCorruptState, result.Errors()[0].String())
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptState, err)
	}

	snap := newSnapshot()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorruptState, err)
		}
		name, _ := tok.(string)

		var rec record
		if err := dec.Decode(&rec); err != nil {
			return nil, fmt.Errorf("%w: customer %q: %v", ErrCorruptState, name, err)
		}
		snap.put(models.CustomerProfile{
			Name:            name,
			PastPurchases:   rec.PastPurchases,
			Interests:       normalizeInterests(rec.Interests),
			Recommendations: rec.Recommendations,
		})
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptState, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: unexpected data after document", ErrCorruptState)
	}
	return snap, nil
}

func encodeSnapshot(s *Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range s.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		p := s.profiles[name].Clone()
		value, err := json.Marshal(record{
			PastPurchases:   p.PastPurchases,
			Interests:       p.Interests,
			Recommendations: p.Recommendations,
		})
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')

	var out bytes.Buffer
	if err := json.Indent(&out, buf.Bytes(), "", "    "); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
