// Package classify implements the rule-based label field classifier: given
// OCR text and optionally the applicant's declared values, it identifies
// values for the regulated field catalog with integer confidence scores.
//
// The classifier is pure: no I/O, no clock, no shared mutable state. It
// never errors; a field without textual evidence is reported with a nil
// value and zero confidence.
package classify

import (
	"strings"

	"github.com/colaops/labelcheck/internal/catalog"
)

// Confidence bounds. Callers treat >= ConfidenceCertain as reasonably
// certain and 0 as not found.
const (
	ConfidenceMax     = 100
	ConfidenceCertain = 70
)

// ImageBoundaryMarker separates per-image texts when the orchestrator
// concatenates multiple OCR results before classification. The marker is
// chosen so its significant tokens can never satisfy a field match.
const ImageBoundaryMarker = "\n\n--- IMAGE BOUNDARY ---\n\n"

// JoinImageTexts concatenates per-image OCR texts with explicit boundary
// markers.
func JoinImageTexts(texts []string) string {
	return strings.Join(texts, ImageBoundaryMarker)
}

// Rect is a rectangle in image pixel space.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// BoundingBox locates a field value on one of the submitted images.
type BoundingBox struct {
	ImageIndex int  `json:"image_index"`
	Rect       Rect `json:"rect"`
}

// ExtractedField is one classified label field. Value nil and Confidence 0
// together mean "not found"; a non-nil Value always has Confidence > 0.
type ExtractedField struct {
	FieldName   string       `json:"field_name"`
	Value       *string      `json:"value"`
	Confidence  int          `json:"confidence"`
	Reasoning   *string      `json:"reasoning,omitempty"`
	BoundingBox *BoundingBox `json:"bounding_box,omitempty"`
	WordIndices []int        `json:"word_indices,omitempty"`
}

// Found reports whether the field carries a value.
func (f *ExtractedField) Found() bool {
	return f.Value != nil && f.Confidence > 0
}

// ImageRole classifies what part of the physical packaging an image shows.
type ImageRole string

const (
	ImageRoleBrandLabel ImageRole = "brand_label"
	ImageRoleBackLabel  ImageRole = "back_label"
	ImageRoleNeckLabel  ImageRole = "neck_label"
	ImageRoleOther      ImageRole = "other"
	ImageRoleUnknown    ImageRole = "unknown"
)

// ClassificationResult is the outcome of one classification call.
type ClassificationResult struct {
	Fields               []ExtractedField     `json:"fields"`
	DetectedBeverageType catalog.BeverageType `json:"detected_beverage_type,omitempty"`
	ImageRoles           []ImageRole          `json:"image_roles,omitempty"`
}

// Field returns the entry for a field name, or nil if absent.
func (r *ClassificationResult) Field(name string) *ExtractedField {
	for i := range r.Fields {
		if r.Fields[i].FieldName == name {
			return &r.Fields[i]
		}
	}
	return nil
}

func strPtr(s string) *string { return &s }

func notFound(fieldName string) ExtractedField {
	return ExtractedField{FieldName: fieldName, Value: nil, Confidence: 0}
}

func found(fieldName, value, reasoning string, confidence int) ExtractedField {
	if confidence <= 0 {
		confidence = 1
	}
	if confidence > ConfidenceMax {
		confidence = ConfidenceMax
	}
	return ExtractedField{
		FieldName:  fieldName,
		Value:      strPtr(value),
		Confidence: confidence,
		Reasoning:  strPtr(reasoning),
	}
}
