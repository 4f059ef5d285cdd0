package errors

import "fmt"

type PipelineError struct {
	Code    string
	Message string
	Err     error
}

func (e *PipelineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

var (
	ErrNotFound = func(err error) *PipelineError {
		return &PipelineError{Code: "not_found", Message: "Kayıt bulunamadı", Err: err}
	}
	ErrInvalidRequest = func(err error) *PipelineError {
		return &PipelineError{Code: "invalid_request", Message: "Geçersiz istek", Err: err}
	}
	ErrInternal = func(err error) *PipelineError {
		return &PipelineError{Code: "internal_error", Message: "Sunucu hatası", Err: err}
	}
	ErrTransport = func(err error) *PipelineError {
		return &PipelineError{Code: "transport_failed", Message: "Ağ isteği başarısız", Err: err}
	}
	ErrSubmission = func(err error) *PipelineError {
		return &PipelineError{Code: "submission_failed", Message: "İş gönderilemedi", Err: err}
	}
	ErrStorage = func(err error) *PipelineError {
		return &PipelineError{Code: "storage_failed", Message: "Depolama işlemi başarısız", Err: err}
	}
	ErrReconciliation = func(err error) *PipelineError {
		return &PipelineError{Code: "reconciliation_failed", Message: "Sonuç kaydedilemedi", Err: err}
	}
	ErrAlreadyRunning = func(err error) *PipelineError {
		return &PipelineError{Code: "already_running", Message: "Video zaten işleniyor", Err: err}
	}
	ErrTmpFile = func(err error) *PipelineError {
		return &PipelineError{Code: "tmp_file_error", Message: "Geçici dosya hatası", Err: err}
	}
)
