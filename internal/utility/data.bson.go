package utility

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
)

// BsonWrapper holds the basic update operators so a struct can be encoded straight
// into an update document, e.g. BsonWrapper{Set: data} -> {$set: {...}}.
type BsonWrapper struct {
	Set      interface{} `json:"$set,omitempty" bson:"$set,omitempty"`
	Unset    interface{} `json:"$unset,omitempty" bson:"$unset,omitempty"`
	Push     interface{} `json:"$push,omitempty" bson:"$push,omitempty"`
	AddToSet interface{} `json:"$addToSet,omitempty" bson:"$addToSet,omitempty"`
	Inc      interface{} `json:"$inc,omitempty" bson:"$inc,omitempty"`
}

// ToMap converts s into a map using its bson tags.
func ToMap(s interface{}) (map[string]interface{}, error) {
	data, err := bson.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("bson marshal failed: %w", err)
	}
	var out map[string]interface{}
	if err := bson.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("bson unmarshal failed: %w", err)
	}
	return out, nil
}

// ToUpdate encodes w as an update document.
func (w BsonWrapper) ToUpdate() (map[string]interface{}, error) {
	return ToMap(w)
}
