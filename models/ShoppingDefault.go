package models

import "gorm.io/gorm"

// ShoppingDefault is a typed key/value setting applied to every shopping run.
// Value is stored as text; ValueType records how to read it back ("boolean",
// "number", or "string"; the literal "null" stands for an unset number).
type ShoppingDefault struct {
	gorm.Model
	SettingKey   string `gorm:"uniqueIndex;not null" json:"setting_key"`
	SettingValue string `gorm:"not null" json:"setting_value"`
	ValueType    string `gorm:"type:varchar(16);not null;default:string" json:"setting_type"`
}
