package types

import (
	"encoding/json"
	"strconv"
)

// Record is one entry of a normalized prediction result. Concrete records
// are DetectionResult, ClassificationResult and GenerationResult.
type Record interface {
	isRecord()
}

// DetectionResult is a single detected object in original-image pixels.
type DetectionResult struct {
	// Class name looked up from the model class table.
	// example: person
	ClassName string `json:"class_name" example:"person"`
	// Backend confidence for this detection.
	// example: 0.87
	DetectionScore float64 `json:"detection_score" example:"0.87"`
	// Bounding box as [x, y, width, height], top-left origin.
	// example: [384,576,192,128]
	BBox [4]int `json:"bbox" example:"384,576,192,128"`
}

// ClassificationResult is the top-1 class of one classified sample.
type ClassificationResult struct {
	// Class name from the class table, or the raw class index when the
	// backend has no table.
	// example: cat
	ClassName ClassLabel `json:"class_name" swaggertype:"string" example:"cat"`
	// Score of the predicted class.
	// example: 0.7
	ClassificationScore float64 `json:"classification_score" example:"0.7"`
}

// GenerationResult holds one generated completion.
type GenerationResult struct {
	// example: The ocean hums softly.
	Text string `json:"text" example:"The ocean hums softly."`
}

func (DetectionResult) isRecord()      {}
func (ClassificationResult) isRecord() {}
func (GenerationResult) isRecord()     {}

// ClassLabel is either a named class or a bare class index. It encodes as a
// JSON string or a JSON integer respectively.
type ClassLabel struct {
	Name  string
	Index int
	Named bool
}

// NamedLabel returns a label carrying a class name.
func NamedLabel(name string) ClassLabel { return ClassLabel{Name: name, Named: true} }

// IndexLabel returns a label carrying only a class index.
func IndexLabel(idx int) ClassLabel { return ClassLabel{Index: idx} }

func (l ClassLabel) String() string {
	if l.Named {
		return l.Name
	}
	return strconv.Itoa(l.Index)
}

func (l ClassLabel) MarshalJSON() ([]byte, error) {
	if l.Named {
		return json.Marshal(l.Name)
	}
	return json.Marshal(l.Index)
}

func (l *ClassLabel) UnmarshalJSON(b []byte) error {
	var idx int
	if err := json.Unmarshal(b, &idx); err == nil {
		*l = IndexLabel(idx)
		return nil
	}
	var name string
	if err := json.Unmarshal(b, &name); err != nil {
		return err
	}
	*l = NamedLabel(name)
	return nil
}
