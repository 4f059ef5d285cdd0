package repositories

import "video-orchestrator/internal/domain/entities"

type CommonCodeRepository interface {
	// Get looks up a code value inside a group. Returns nil without error
	// when the code does not exist.
	Get(codeVal int, group string) (*entities.CommonCode, error)
}
