package entities

// LocalStorageItem is a key/value row backing the history store on postgres.
type LocalStorageItem struct {
	Key   string `gorm:"type:varchar(128);primary_key" json:"key"`
	Value string `gorm:"type:text;not null" json:"value"`

	Timestamp
}
