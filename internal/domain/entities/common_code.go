package entities

// CommonCode is a row of the shared code table (status codes, commentator
// codes and so on), grouped by CommonCodeGrp.
type CommonCode struct {
	CodeID        int64  `gorm:"column:code_id;primaryKey;autoIncrement"`
	CommonCode    int    `gorm:"column:common_code;not null"`
	CommonCodeGrp string `gorm:"column:common_code_grp;type:varchar(50);not null"`
	CodeName      string `gorm:"column:code_name;type:varchar(100)"`
}

func (CommonCode) TableName() string {
	return "common_code"
}
