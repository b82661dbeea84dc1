package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"
)

// MAX_FIELD_LENGTH bounds the length of a single proposed text value
const MAX_FIELD_LENGTH = 20000

// ArtworkField names a provenance column of the artwork record that can be edited
// directly by the owner or proposed by a non-owner through a provenance update request.
// The field name is also the column name.
type ArtworkField string

const (
	FieldTitle              ArtworkField = "title"
	FieldDescription        ArtworkField = "description"
	FieldArtistName         ArtworkField = "artist_name"
	FieldMedium             ArtworkField = "medium"
	FieldCreationDate       ArtworkField = "creation_date"
	FieldDimensions         ArtworkField = "dimensions"
	FieldFormerOwners       ArtworkField = "former_owners"
	FieldAuctionHistory     ArtworkField = "auction_history"
	FieldExhibitionHistory  ArtworkField = "exhibition_history"
	FieldHistoricContext    ArtworkField = "historic_context"
	FieldCelebrityNotes     ArtworkField = "celebrity_notes"
	FieldValue              ArtworkField = "value"
	FieldEdition            ArtworkField = "edition"
	FieldProductionLocation ArtworkField = "production_location"
	FieldOwnedBy            ArtworkField = "owned_by"
	FieldSoldBy             ArtworkField = "sold_by"

	FieldFormerOwnersPublic      ArtworkField = "former_owners_public"
	FieldAuctionHistoryPublic    ArtworkField = "auction_history_public"
	FieldExhibitionHistoryPublic ArtworkField = "exhibition_history_public"
	FieldHistoricContextPublic   ArtworkField = "historic_context_public"
	FieldCelebrityNotesPublic    ArtworkField = "celebrity_notes_public"
	FieldValuePublic             ArtworkField = "value_public"
	FieldOwnedByPublic           ArtworkField = "owned_by_public"
	FieldSoldByPublic            ArtworkField = "sold_by_public"
)

type fieldKind int

const (
	textField fieldKind = iota
	visibilityField
)

var artworkFieldKinds = map[ArtworkField]fieldKind{
	FieldTitle:              textField,
	FieldDescription:        textField,
	FieldArtistName:         textField,
	FieldMedium:             textField,
	FieldCreationDate:       textField,
	FieldDimensions:         textField,
	FieldFormerOwners:       textField,
	FieldAuctionHistory:     textField,
	FieldExhibitionHistory:  textField,
	FieldHistoricContext:    textField,
	FieldCelebrityNotes:     textField,
	FieldValue:              textField,
	FieldEdition:            textField,
	FieldProductionLocation: textField,
	FieldOwnedBy:            textField,
	FieldSoldBy:             textField,

	FieldFormerOwnersPublic:      visibilityField,
	FieldAuctionHistoryPublic:    visibilityField,
	FieldExhibitionHistoryPublic: visibilityField,
	FieldHistoricContextPublic:   visibilityField,
	FieldCelebrityNotesPublic:    visibilityField,
	FieldValuePublic:             visibilityField,
	FieldOwnedByPublic:           visibilityField,
	FieldSoldByPublic:            visibilityField,
}

// SensitiveFields maps each privately-scoped text field to the flag that makes it public
var SensitiveFields = map[ArtworkField]ArtworkField{
	FieldFormerOwners:      FieldFormerOwnersPublic,
	FieldAuctionHistory:    FieldAuctionHistoryPublic,
	FieldExhibitionHistory: FieldExhibitionHistoryPublic,
	FieldHistoricContext:   FieldHistoricContextPublic,
	FieldCelebrityNotes:    FieldCelebrityNotesPublic,
	FieldValue:             FieldValuePublic,
	FieldOwnedBy:           FieldOwnedByPublic,
	FieldSoldBy:            FieldSoldByPublic,
}

// Valid checks if the field is part of the artwork provenance schema
func (f ArtworkField) Valid() bool {
	_, ok := artworkFieldKinds[f]
	return ok
}

// IsVisibilityFlag reports whether the field is a public/private flag rather than a text value
func (f ArtworkField) IsVisibilityFlag() bool {
	return artworkFieldKinds[f] == visibilityField
}

// Column returns the database column backing the field
func (f ArtworkField) Column() string {
	return string(f)
}

// ProposedValue is a single proposed value. Text fields carry Text (nil clears the column);
// visibility flags carry Flag.
type ProposedValue struct {
	Text *string
	Flag bool
}

// ProvenancePatch is a partial update against the artwork schema. Only fields present
// in the patch are written; every key is validated against the schema when the patch
// is built, so an unknown field can never reach the artwork table.
type ProvenancePatch struct {
	values map[ArtworkField]ProposedValue
}

// NewProvenancePatch returns an empty patch
func NewProvenancePatch() ProvenancePatch {
	return ProvenancePatch{values: make(map[ArtworkField]ProposedValue)}
}

// SetText sets a text field. A nil or blank value clears the column.
func (p *ProvenancePatch) SetText(field ArtworkField, value *string) error {
	kind, ok := artworkFieldKinds[field]
	if !ok {
		return fmt.Errorf("%w: unknown field %q", ErrInvalidPatch, field)
	}
	if kind != textField {
		return fmt.Errorf("%w: field %q expects a boolean", ErrInvalidPatch, field)
	}

	if value != nil {
		if utf8.RuneCountInString(*value) > MAX_FIELD_LENGTH {
			return fmt.Errorf("%w: field %q exceeds %d characters", ErrInvalidPatch, field, MAX_FIELD_LENGTH)
		}
		if strings.TrimSpace(*value) == "" {
			value = nil
		}
	}

	p.ensure()
	p.values[field] = ProposedValue{Text: value}
	return nil
}

// SetFlag sets a visibility flag
func (p *ProvenancePatch) SetFlag(field ArtworkField, value bool) error {
	kind, ok := artworkFieldKinds[field]
	if !ok {
		return fmt.Errorf("%w: unknown field %q", ErrInvalidPatch, field)
	}
	if kind != visibilityField {
		return fmt.Errorf("%w: field %q expects a string", ErrInvalidPatch, field)
	}

	p.ensure()
	p.values[field] = ProposedValue{Flag: value}
	return nil
}

func (p *ProvenancePatch) ensure() {
	if p.values == nil {
		p.values = make(map[ArtworkField]ProposedValue)
	}
}

// Get returns the proposed value for a field
func (p ProvenancePatch) Get(field ArtworkField) (ProposedValue, bool) {
	v, ok := p.values[field]
	return v, ok
}

// Len returns the number of fields in the patch
func (p ProvenancePatch) Len() int {
	return len(p.values)
}

// IsEmpty reports whether the patch changes nothing
func (p ProvenancePatch) IsEmpty() bool {
	return len(p.values) == 0
}

// Fields returns the patched fields in stable order
func (p ProvenancePatch) Fields() []ArtworkField {
	fields := make([]ArtworkField, 0, len(p.values))
	for f := range p.values {
		fields = append(fields, f)
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i] < fields[j] })
	return fields
}

// Columns returns the column assignments for the patch. Cleared text fields map to nil.
func (p ProvenancePatch) Columns() map[string]any {
	columns := make(map[string]any, len(p.values))
	for field, v := range p.values {
		if field.IsVisibilityFlag() {
			columns[field.Column()] = v.Flag
			continue
		}
		if v.Text == nil {
			columns[field.Column()] = nil
		} else {
			columns[field.Column()] = *v.Text
		}
	}
	return columns
}

// MarshalJSON encodes the patch as a flat object of field name to value
func (p ProvenancePatch) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(p.values))
	for field, v := range p.values {
		if field.IsVisibilityFlag() {
			out[string(field)] = v.Flag
		} else {
			out[string(field)] = v.Text
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes and validates a patch
func (p *ProvenancePatch) UnmarshalJSON(data []byte) error {
	parsed, err := ParseProvenancePatch(data)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// ParseProvenancePatch decodes a JSON object into a patch, rejecting unknown
// fields and values of the wrong type. JSON null clears a text field and
// resets a visibility flag to private.
func ParseProvenancePatch(data []byte) (ProvenancePatch, error) {
	patch := NewProvenancePatch()

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return patch, nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return ProvenancePatch{}, fmt.Errorf("%w: %v", ErrInvalidPatch, err)
	}

	for key, value := range raw {
		field := ArtworkField(key)
		if !field.Valid() {
			return ProvenancePatch{}, fmt.Errorf("%w: unknown field %q", ErrInvalidPatch, key)
		}

		isNull := bytes.Equal(bytes.TrimSpace(value), []byte("null"))

		if field.IsVisibilityFlag() {
			var flag bool
			if !isNull {
				if err := json.Unmarshal(value, &flag); err != nil {
					return ProvenancePatch{}, fmt.Errorf("%w: field %q expects a boolean", ErrInvalidPatch, key)
				}
			}
			if err := patch.SetFlag(field, flag); err != nil {
				return ProvenancePatch{}, err
			}
			continue
		}

		var text *string
		if !isNull {
			var s string
			if err := json.Unmarshal(value, &s); err != nil {
				return ProvenancePatch{}, fmt.Errorf("%w: field %q expects a string", ErrInvalidPatch, key)
			}
			text = &s
		}
		if err := patch.SetText(field, text); err != nil {
			return ProvenancePatch{}, err
		}
	}

	return patch, nil
}
