package deck

import (
	"encoding/json"
	"errors"
	"fmt"

	"pitchcraft/internal/common/validation"
	"pitchcraft/internal/models"
)

var ErrInvalidSlides = errors.New("INVALID_SLIDES")

// presentationSchema is the contract a generated presentation must satisfy
// before it reaches the renderer. Icons are deliberately free-form here and
// normalized on decode.
var presentationSchema = validation.MustCompile(`{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["slides"],
  "properties": {
    "slides": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["id", "type", "title"],
        "properties": {
          "id": {"type": "integer", "minimum": 0},
          "type": {"enum": ["intro", "title", "content", "chart", "image"]},
          "title": {"type": "string"},
          "content": {"type": "string"},
          "bulletPoints": {"type": "array", "items": {"type": "string"}},
          "chartData": {
            "type": "object",
            "required": ["type", "data"],
            "properties": {
              "type": {"enum": ["bar", "line", "pie", "area", "radar"]},
              "data": {
                "type": "array",
                "items": {
                  "type": "object",
                  "required": ["name", "value"],
                  "properties": {
                    "name": {"type": "string"},
                    "value": {"type": "number"},
                    "subject": {"type": "string"},
                    "A": {"type": "number"}
                  }
                }
              }
            }
          },
          "imageUrl": {"type": "string"},
          "imagePrompt": {"type": "string"},
          "metrics": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["label", "value", "icon"],
              "properties": {
                "label": {"type": "string"},
                "value": {"type": "string"},
                "icon": {"type": "string"}
              }
            }
          }
        }
      }
    }
  }
}`)

type presentation struct {
	Slides []models.Slide `json:"slides"`
}

// DecodeSlides validates a generated presentation document and returns its
// slides. Unknown icons decode to the default icon. When ids are not unique
// the slides are renumbered in order.
func DecodeSlides(doc []byte) ([]models.Slide, error) {
	result, err := presentationSchema.ValidateJSON(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSlides, err)
	}
	if !result.Valid {
		return nil, fmt.Errorf("%w: %s", ErrInvalidSlides, result.Summary())
	}

	var p presentation
	if err := json.Unmarshal(doc, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSlides, err)
	}

	normalizeIDs(p.Slides)
	return p.Slides, nil
}

func normalizeIDs(slides []models.Slide) {
	seen := make(map[int]struct{}, len(slides))
	for _, s := range slides {
		if _, dup := seen[s.ID]; dup {
			for i := range slides {
				slides[i].ID = i
			}
			return
		}
		seen[s.ID] = struct{}{}
	}
}
