package repositories

import "context"

// AccessURLs are the presigned URLs handed to the compute worker, plus the
// output key the orchestrator rebinds the upload to on success. The result
// and script keys share one timestamp so the artifacts can be correlated.
type AccessURLs struct {
	DownloadURL     string
	UploadURL       string
	ScriptUploadURL string
	OutputKey       string
}

// ObjectStorage is the blob-store gateway used by the orchestrator.
type ObjectStorage interface {
	// StageInput streams the local file into the store under inputs/ and
	// returns the object key.
	StageInput(ctx context.Context, localPath string) (string, error)

	// MintAccessURLs produces a read URL for the input key and write URLs
	// for the deterministic output keys, all short-lived.
	MintAccessURLs(ctx context.Context, inputKey string) (*AccessURLs, error)

	// FetchObject returns the raw bytes of an object; the caller decodes.
	FetchObject(ctx context.Context, key string) ([]byte, error)
}
