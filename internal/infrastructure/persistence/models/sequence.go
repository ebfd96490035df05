package models

// DocumentSequenceModel is the GORM model for the document_sequences table.
// One row per (kind, year) scope; value is the last allocated sequence.
type DocumentSequenceModel struct {
	Kind  string `gorm:"type:varchar(10);primaryKey"`
	Year  int    `gorm:"primaryKey"`
	Value int    `gorm:"not null;default:0"`
}

// TableName returns the table name for DocumentSequenceModel
func (DocumentSequenceModel) TableName() string {
	return "document_sequences"
}
