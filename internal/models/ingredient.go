package models

// Ingredient is a catalog entry referenced by recipe lines.
type Ingredient struct {
	ID              uint   `gorm:"primaryKey" json:"id"`
	Name            string `gorm:"not null;size:200;index" json:"name"`
	MeasurementUnit string `gorm:"not null;size:200" json:"measurement_unit"`
}

func (Ingredient) TableName() string {
	return "ingredients"
}
