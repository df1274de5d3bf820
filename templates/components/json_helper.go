package components

import (
	"encoding/json"
	"log"
)

// JSON marshals an object to a JSON string, returning "{}" on error.
// Used to embed chart data in data attributes.
func JSON(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		log.Printf("Error marshaling JSON: %v", err)
		return "{}"
	}
	return string(b)
}
