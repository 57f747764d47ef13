package app

import "fmt"

// AppErrorType represents the type of application error.
type AppErrorType int

const (
	// InvalidOptions indicates the workflow was called with unusable options.
	InvalidOptions AppErrorType = iota
	// FetchFailed indicates the remote template could not be fetched.
	FetchFailed
	// MaterializeFailed indicates the local tree could not be written.
	MaterializeFailed
	// ReadFailed indicates the local tree could not be read.
	ReadFailed
	// ValidationFailed indicates the remote store rejected the local template.
	ValidationFailed
	// DiffFailed indicates the diff could not be computed.
	DiffFailed
	// ConfirmFailed indicates the confirmation prompt failed.
	ConfirmFailed
	// PublishFailed indicates publishing failed.
	PublishFailed
	// DownloadFailed indicates a defaults export could not be downloaded or written.
	DownloadFailed
)

// Stage names the pipeline step an error came from.
type Stage string

const (
	StageOptions  Stage = "options"
	StageFetch    Stage = "fetch"
	StageCheckout Stage = "checkout"
	StageRead     Stage = "read-local"
	StageValidate Stage = "validate"
	StageDiff     Stage = "diff"
	StageConfirm  Stage = "confirm"
	StagePublish  Stage = "publish"
	StageDownload Stage = "download"
)

// AppError represents an application-layer error.
type AppError struct {
	// Type is the error type.
	Type AppErrorType
	// Stage is the pipeline step that failed.
	Stage Stage
	// Message is the error message.
	Message string
	// Cause is the underlying error.
	Cause error
}

// Error returns the error message.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Stage, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Stage, e.Message)
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppError creates a new AppError.
func NewAppError(errType AppErrorType, stage Stage, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Stage:   stage,
		Message: message,
		Cause:   cause,
	}
}

func newOptionsError(message string, cause error) *AppError {
	return NewAppError(InvalidOptions, StageOptions, message, cause)
}

func newFetchError(cause error) *AppError {
	return NewAppError(FetchFailed, StageFetch, "failed to fetch remote template", cause)
}
