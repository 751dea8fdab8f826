// Package models - Setting belongs to the settings domain.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Setting is a typed feature flag. Value is a bool for bool flags and a string otherwise.
type Setting struct {
	ID          primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty" yaml:"-"`
	Key         string             `json:"key" bson:"key" yaml:"key" index:"unique"`
	FlagType    string             `json:"flagType" bson:"flagType" yaml:"flagType"`
	Value       interface{}        `json:"value" bson:"value" yaml:"value"`
	Options     []string           `json:"options,omitempty" bson:"options,omitempty" yaml:"options"`
	Description string             `json:"description,omitempty" bson:"description,omitempty" yaml:"description"`
	IsActive    bool               `json:"isActive" bson:"isActive" yaml:"isActive"`
	CreatedAt   int64              `json:"createdAt" bson:"createdAt" yaml:"-"`
	UpdatedAt   int64              `json:"updatedAt" bson:"updatedAt" yaml:"-"`
}
