package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// IDField is the record field that carries an item's identifier.
const IDField = "Id"

// Item is a stored element of a named collection.
type Item struct {
	ID         uuid.UUID      `json:"id"`
	Collection string         `json:"collection"`
	Properties map[string]any `json:"properties"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// NewItem creates an item with a fresh identifier.
func NewItem(collection string, properties map[string]any) Item {
	now := time.Now()
	return Item{
		ID:         uuid.New(),
		Collection: collection,
		Properties: copyProperties(properties),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// WithProperties returns a copy with replaced properties.
func (i Item) WithProperties(properties map[string]any) Item {
	return Item{
		ID:         i.ID,
		Collection: i.Collection,
		Properties: copyProperties(properties),
		CreatedAt:  i.CreatedAt,
		UpdatedAt:  time.Now(),
	}
}

// Record flattens the item into a queryable record with its Id field set.
func (i Item) Record() Record {
	record := RecordFromMap(i.Properties)
	record[IDField] = Text(i.ID.String())
	return record
}

func (i Item) PropertiesJSON() (json.RawMessage, error) {
	if i.Properties == nil {
		return json.RawMessage("{}"), nil
	}
	return json.Marshal(i.Properties)
}

// PropertiesFromJSON decodes a stored JSON object.
func PropertiesFromJSON(data []byte) (map[string]any, error) {
	properties := map[string]any{}
	if len(data) == 0 {
		return properties, nil
	}
	if err := json.Unmarshal(data, &properties); err != nil {
		return nil, err
	}
	return properties, nil
}

// RecordsFromItems converts a collection snapshot into records, in order.
func RecordsFromItems(items []Item) []Record {
	records := make([]Record, len(items))
	for idx, item := range items {
		records[idx] = item.Record()
	}
	return records
}

// copyProperties makes a shallow copy and drops the server-managed Id field.
func copyProperties(properties map[string]any) map[string]any {
	out := make(map[string]any, len(properties))
	for k, v := range properties {
		if k == IDField {
			continue
		}
		out[k] = v
	}
	return out
}
