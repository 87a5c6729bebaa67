package model

import (
	"encoding/json"
	"slices"

	"github.com/google/uuid"
)

type ProfileField struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// ProfileFields is a user's free-form label/value list, keyed by field id.
// Insertion order is kept so the list reads back the way it was built.
// The zero value is an empty collection.
type ProfileFields struct {
	order []string
	byID  map[string]ProfileField
}

func NewProfileFields(fields ...ProfileField) ProfileFields {
	var pf ProfileFields
	for _, f := range fields {
		pf.put(f)
	}
	return pf
}

func (pf *ProfileFields) put(f ProfileField) {
	if pf.byID == nil {
		pf.byID = make(map[string]ProfileField)
	}
	if _, ok := pf.byID[f.ID]; !ok {
		pf.order = append(pf.order, f.ID)
	}
	pf.byID[f.ID] = f
}

// Add appends a field under a fresh id and returns it.
func (pf *ProfileFields) Add(label, value string) ProfileField {
	f := ProfileField{ID: uuid.New().String(), Label: label, Value: value}
	pf.put(f)
	return f
}

// Update overwrites the attributes that are non-nil. It reports false when
// id is not in the collection.
func (pf *ProfileFields) Update(id string, label, value *string) bool {
	f, ok := pf.byID[id]
	if !ok {
		return false
	}
	if label != nil {
		f.Label = *label
	}
	if value != nil {
		f.Value = *value
	}
	pf.byID[id] = f
	return true
}

func (pf *ProfileFields) Remove(id string) bool {
	if _, ok := pf.byID[id]; !ok {
		return false
	}
	delete(pf.byID, id)
	pf.order = slices.DeleteFunc(pf.order, func(s string) bool { return s == id })
	return true
}

func (pf ProfileFields) Get(id string) (ProfileField, bool) {
	f, ok := pf.byID[id]
	return f, ok
}

func (pf ProfileFields) Len() int { return len(pf.order) }

// List returns an ordered snapshot; mutating it does not touch the collection.
func (pf ProfileFields) List() []ProfileField {
	out := make([]ProfileField, 0, len(pf.order))
	for _, id := range pf.order {
		out = append(out, pf.byID[id])
	}
	return out
}

// Clone returns an independent copy.
func (pf ProfileFields) Clone() ProfileFields {
	return NewProfileFields(pf.List()...)
}

func (pf ProfileFields) MarshalJSON() ([]byte, error) {
	return json.Marshal(pf.List())
}

func (pf *ProfileFields) UnmarshalJSON(b []byte) error {
	var list []ProfileField
	if err := json.Unmarshal(b, &list); err != nil {
		return err
	}
	*pf = NewProfileFields(list...)
	return nil
}
