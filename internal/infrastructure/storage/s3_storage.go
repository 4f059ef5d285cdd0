package storage

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"video-orchestrator/internal/domain/repositories"
	pkgerrors "video-orchestrator/pkg/errors"
	"video-orchestrator/pkg/helper"
)

const urlExpiry = 3600 * time.Second

// Object-storage calls move large binaries, so they get their own transport
// profile: 120s timeouts, adaptive retry mode, up to 10 attempts.
const (
	storageTimeout     = 120 * time.Second
	storageMaxAttempts = 10
)

type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

type presignAPI interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
	PresignPutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

type S3Storage struct {
	client     s3API
	presign    presignAPI
	bucketName string
	region     string
	now        func() time.Time
}

func NewS3Storage(ctx context.Context, bucketName, region string) (*S3Storage, error) {
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(region),
		config.WithRetryMode(aws.RetryModeAdaptive),
		config.WithRetryMaxAttempts(storageMaxAttempts),
		config.WithHTTPClient(&http.Client{Timeout: storageTimeout}),
	)
	if err != nil {
		return nil, fmt.Errorf("AWS config yüklenemedi: %w", err)
	}
	client := s3.NewFromConfig(cfg)
	return &S3Storage{
		client:     client,
		presign:    s3.NewPresignClient(client),
		bucketName: bucketName,
		region:     region,
		now:        time.Now,
	}, nil
}

// StageInput streams the local file into the bucket under inputs/<basename>.
// The copy goes through a temp file so the whole video is never in memory.
func (s *S3Storage) StageInput(ctx context.Context, localPath string) (string, error) {
	filename := filepath.Base(localPath)
	if filename == "." || filename == string(filepath.Separator) || filename == "" {
		filename = fmt.Sprintf("video_%d.mp4", s.now().Unix())
	}
	key := "inputs/" + filename

	log.Printf("S3 upload started (key: %s)", key)

	src, err := os.Open(localPath)
	if err != nil {
		return "", pkgerrors.ErrStorage(err)
	}
	defer src.Close()

	tmp, err := os.CreateTemp("", "stage-*")
	if err != nil {
		return "", pkgerrors.ErrTmpFile(err)
	}
	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	if _, err := io.Copy(tmp, src); err != nil {
		return "", pkgerrors.ErrTmpFile(err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		return "", pkgerrors.ErrTmpFile(err)
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucketName),
		Key:         aws.String(key),
		Body:        tmp,
		ContentType: aws.String(helper.GetMimeTypeFromExtension(filename)),
	})
	if err != nil {
		return "", pkgerrors.ErrStorage(err)
	}

	log.Printf("S3 upload complete: s3://%s/%s", s.bucketName, key)
	return key, nil
}

// MintAccessURLs presigns a read URL for the input and write URLs for the
// output video and script. One timestamp is captured up front so both output
// keys correlate.
func (s *S3Storage) MintAccessURLs(ctx context.Context, inputKey string) (*repositories.AccessURLs, error) {
	download, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(inputKey),
	}, s3.WithPresignExpires(urlExpiry))
	if err != nil {
		return nil, pkgerrors.ErrStorage(err)
	}

	outputKey, scriptKey := outputKeysAt(s.now().Unix())

	upload, err := s.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucketName),
		Key:         aws.String(outputKey),
		ContentType: aws.String("video/mp4"),
	}, s3.WithPresignExpires(urlExpiry))
	if err != nil {
		return nil, pkgerrors.ErrStorage(err)
	}

	scriptUpload, err := s.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucketName),
		Key:         aws.String(scriptKey),
		ContentType: aws.String("application/json"),
	}, s3.WithPresignExpires(urlExpiry))
	if err != nil {
		return nil, pkgerrors.ErrStorage(err)
	}

	return &repositories.AccessURLs{
		DownloadURL:     download.URL,
		UploadURL:       upload.URL,
		ScriptUploadURL: scriptUpload.URL,
		OutputKey:       outputKey,
	}, nil
}

// FetchObject returns the raw bytes of an object.
func (s *S3Storage) FetchObject(ctx context.Context, key string) ([]byte, error) {
	resp, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, pkgerrors.ErrStorage(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, pkgerrors.ErrStorage(err)
	}
	return data, nil
}

func outputKeysAt(ts int64) (outputKey, scriptKey string) {
	return fmt.Sprintf("outputs/result_%d.mp4", ts), fmt.Sprintf("outputs/script_%d.json", ts)
}
