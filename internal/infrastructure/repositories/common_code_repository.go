package repositories

import (
	"errors"

	"video-orchestrator/internal/domain/entities"

	"gorm.io/gorm"
)

type CommonCodeRepository struct {
	db *gorm.DB
}

func NewCommonCodeRepository(db *gorm.DB) *CommonCodeRepository {
	return &CommonCodeRepository{db: db}
}

func (r *CommonCodeRepository) Get(codeVal int, group string) (*entities.CommonCode, error) {
	var code entities.CommonCode
	err := r.db.First(&code, "common_code = ? AND common_code_grp = ?", codeVal, group).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &code, nil
}
