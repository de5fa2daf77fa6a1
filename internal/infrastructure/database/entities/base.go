package entities

import (
	"encoding/json"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

func newID(id string) string {
	if id == "" {
		return uuid.NewString()
	}
	return id
}

func toJSON(v map[string]any) datatypes.JSON {
	if v == nil {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return datatypes.JSON(raw)
}

func fromJSON(raw datatypes.JSON) map[string]any {
	if len(raw) == 0 {
		return nil
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}
