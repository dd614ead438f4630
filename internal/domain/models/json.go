package models

import (
	"encoding/json"
	"fmt"
)

// scanJSON decodes a JSON column value produced by the postgres driver into
// dest. Both []byte and string representations occur depending on the column
// type, so accept either.
func scanJSON(value interface{}, dest any) error {
	if value == nil {
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, dest)
	case string:
		return json.Unmarshal([]byte(v), dest)
	default:
		return fmt.Errorf("unsupported JSON column type %T", value)
	}
}
