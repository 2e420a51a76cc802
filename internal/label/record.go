package label

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strings"
)

var nutrientMapType = reflect.TypeOf(NutrientMap{})

// Record is the structured form of one scanned label.
//
// Text fields are nil when the corresponding section was not found. A Record
// is built once by Parse and not modified afterwards.
type Record struct {
	ProductName         *string     `json:"product_name"`
	Ingredients         *string     `json:"ingredients"`
	VitaminsAndMinerals *string     `json:"vitamins_and_minerals"`
	NutritionFactsRaw   *string     `json:"nutrition_facts_raw"`
	NutritionFacts      NutrientMap `json:"nutrition_facts"`
	SpecialNotes        *string     `json:"special_notes"`
}

// Allergens returns the allergens mentioned in the ingredients and special notes.
func (r Record) Allergens() AllergenSet {
	return DetectAllergens(r.allergenText())
}

// Suitability returns the dietary suitability tags for the record.
func (r Record) Suitability() []string {
	return AssessSuitability(r.NutritionFacts, r.Ingredients)
}

// allergenText joins the sections an allergen statement can appear in.
func (r Record) allergenText() string {
	return deref(r.Ingredients) + " " + deref(r.SpecialNotes)
}

// Analysis bundles a Record with the facts derived from it.
type Analysis struct {
	Record      Record   `json:"record"`
	Allergens   []string `json:"allergens"`
	Suitability []string `json:"suitability"`
}

// Analyze computes the derived facts for rec.
func Analyze(rec Record) Analysis {
	return Analysis{
		Record:      rec,
		Allergens:   rec.Allergens().Sorted(),
		Suitability: rec.Suitability(),
	}
}

// NutrientMap maps nutrient names to "<number> <unit>" strings.
//
// Keys keep the order in which they were first detected. Setting an existing
// key replaces its value without moving it. The zero value is empty and ready
// to use.
type NutrientMap struct {
	keys   []string
	values map[string]string
}

// Set stores value under name.
func (m *NutrientMap) Set(name, value string) {
	if m.values == nil {
		m.values = make(map[string]string)
	}
	if _, ok := m.values[name]; !ok {
		m.keys = append(m.keys, name)
	}
	m.values[name] = value
}

// Get returns the value stored under name.
func (m NutrientMap) Get(name string) (string, bool) {
	v, ok := m.values[name]
	return v, ok
}

// Keys returns the nutrient names in detection order.
func (m NutrientMap) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Len reports the number of nutrients.
func (m NutrientMap) Len() int {
	return len(m.keys)
}

// MarshalJSON encodes the map as a JSON object in detection order.
func (m NutrientMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(m.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, keeping the key order of the input.
func (m *NutrientMap) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*m = NutrientMap{}
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return &json.UnmarshalTypeError{Value: "non-object", Type: nutrientMapType}
	}
	out := NutrientMap{}
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return err
		}
		var v string
		if err := dec.Decode(&v); err != nil {
			return err
		}
		out.Set(kt.(string), v)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*m = out
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// optional returns a pointer to s trimmed, or nil when nothing is left.
func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
