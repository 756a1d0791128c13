package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// jsonValue and jsonScan back every jsonb column in the schema. Loose
// documents (addresses, snapshots, logs) are stored as-is and marshalled at
// the driver boundary.
func jsonValue(v any) (driver.Value, error) {
	return json.Marshal(v)
}

func jsonScan(dest any, value any) error {
	if value == nil {
		return nil
	}
	switch data := value.(type) {
	case []byte:
		return json.Unmarshal(data, dest)
	case string:
		return json.Unmarshal([]byte(data), dest)
	default:
		return fmt.Errorf("unsupported jsonb source type %T", value)
	}
}

// JSONMap is a schemaless jsonb document.
type JSONMap map[string]any

func (m JSONMap) Value() (driver.Value, error) { return jsonValue(m) }
func (m *JSONMap) Scan(value any) error        { return jsonScan(m, value) }

// LocalizedString maps language codes to translations, e.g. {"en": "Shoes"}.
type LocalizedString map[string]string

func (s LocalizedString) Value() (driver.Value, error) { return jsonValue(s) }
func (s *LocalizedString) Scan(value any) error        { return jsonScan(s, value) }

type StringList []string

func (l StringList) Value() (driver.Value, error) { return jsonValue(l) }
func (l *StringList) Scan(value any) error        { return jsonScan(l, value) }

// Contains reports whether every given value is present in the list.
func (l StringList) Contains(values ...string) bool {
	for _, want := range values {
		found := false
		for _, have := range l {
			if have == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Image is an uploaded picture attached to a product, collection or content.
type Image struct {
	URL  string `json:"url"`
	Meta string `json:"meta,omitempty"`
}

type ImageList []Image

func (l ImageList) Value() (driver.Value, error) { return jsonValue(l) }
func (l *ImageList) Scan(value any) error        { return jsonScan(l, value) }
