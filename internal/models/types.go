package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StringList is a list of strings persisted as a JSON array in a text column.
// An empty list is stored as NULL and always reads back as an empty list.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return nil, nil
	}
	return marshalColumn([]string(l))
}

// Scan never fails on malformed content; a corrupt column reads as empty.
func (l *StringList) Scan(src any) error {
	*l = StringList{}
	raw, err := columnBytes(src)
	if err != nil || len(raw) == 0 {
		return err
	}
	var out []string
	if json.Unmarshal(raw, &out) == nil && out != nil {
		*l = out
	}
	return nil
}

func (StringList) GormDataType() string { return "text" }

// StringMap is a string->string mapping persisted as a JSON object in a text column.
// Entries with empty values are dropped on write.
type StringMap map[string]string

func (m StringMap) Value() (driver.Value, error) {
	compact := m.Compact()
	if len(compact) == 0 {
		return nil, nil
	}
	return marshalColumn(map[string]string(compact))
}

func (m *StringMap) Scan(src any) error {
	*m = StringMap{}
	raw, err := columnBytes(src)
	if err != nil || len(raw) == 0 {
		return err
	}
	var out map[string]string
	if json.Unmarshal(raw, &out) == nil && out != nil {
		*m = out
	}
	return nil
}

func (StringMap) GormDataType() string { return "text" }

// Compact returns a copy without empty values.
func (m StringMap) Compact() StringMap {
	out := StringMap{}
	for k, v := range m {
		if v != "" {
			out[k] = v
		}
	}
	return out
}

// marshalColumn keeps &, < and > literal so substring filters over the
// stored JSON match what users type.
func marshalColumn(v any) (driver.Value, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

func columnBytes(src any) ([]byte, error) {
	switch v := src.(type) {
	case nil:
		return nil, nil
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("unsupported column type %T", src)
	}
}
