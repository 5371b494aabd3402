package models

// Counter holds the last value handed out for a named identifier sequence
type Counter struct {
	Name string `gorm:"primaryKey;size:50"`
	Seq  int64  `gorm:"not null;default:0"`
}

// TableName specifies the table name for Counter model
func (Counter) TableName() string {
	return "counters"
}
