package models

// SequenceCounter holds the last issued counter for one (document kind,
// date scope) pair, e.g. scope_key "F20260829". One row per scope; the row
// is incremented under the allocating transaction so concurrent documents
// on the same day never share a number.
type SequenceCounter struct {
	ScopeKey  string `gorm:"primaryKey;column:scope_key" json:"scope_key"`
	LastValue int64  `gorm:"column:last_value;not null" json:"last_value"`
}

func (SequenceCounter) TableName() string {
	return "sequence_counter"
}
