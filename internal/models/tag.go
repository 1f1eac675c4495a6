package models

// Tag colors allowed by the tags.color column.
const (
	TagColorOrange = "#ffa500"
	TagColorGreen  = "#37ff00"
	TagColorPurple = "#aa00bd"
)

// TagPalette lists every accepted tag color.
var TagPalette = []string{TagColorOrange, TagColorGreen, TagColorPurple}

// Tag is a time-tag attached to recipes for filtering.
type Tag struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Name  string `gorm:"uniqueIndex;not null;size:200" json:"name"`
	Color string `gorm:"uniqueIndex;not null;size:7" json:"color"`
	Slug  string `gorm:"uniqueIndex;not null;size:200" json:"slug"`
}

func (Tag) TableName() string {
	return "tags"
}
