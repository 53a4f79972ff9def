package services

import (
	"context"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/foxxcyber/kargolojik/internal/brand"
)

const (
	sheetContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	importsPrefix    = "imports/"
	sheetsPrefix     = "sheets/"
)

// StorageService keeps company branch sheets in S3-compatible storage
type StorageService struct {
	client     *minio.Client
	bucketName string
	region     string
}

// UploadResult contains information about an uploaded sheet
type UploadResult struct {
	Bucket string
	Key    string
	Size   int64
	ETag   string
}

// SheetObject is one stored sheet
type SheetObject struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// NewStorageService creates a new S3 storage service
func NewStorageService(endpoint, accessKey, secretKey, bucketName, region string, useSSL bool) (*StorageService, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 client: %w", err)
	}

	return &StorageService{
		client:     client,
		bucketName: bucketName,
		region:     region,
	}, nil
}

// EnsureBucket creates the bucket if it doesn't exist
func (s *StorageService) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucketName)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		err = s.client.MakeBucket(ctx, s.bucketName, minio.MakeBucketOptions{
			Region: s.region,
		})
		if err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return nil
}

// ArchiveKey is where an uploaded sheet for company is kept
func ArchiveKey(company string, at time.Time) string {
	return fmt.Sprintf("%s%s/%s.xlsx", importsPrefix, brand.Slug(company), at.UTC().Format("20060102T150405Z"))
}

// Archive stores an imported sheet under ArchiveKey
func (s *StorageService) Archive(ctx context.Context, company string, at time.Time, reader io.Reader, size int64) (*UploadResult, error) {
	return s.upload(ctx, ArchiveKey(company, at), reader, size)
}

func (s *StorageService) upload(ctx context.Context, key string, reader io.Reader, size int64) (*UploadResult, error) {
	info, err := s.client.PutObject(ctx, s.bucketName, key, reader, size, minio.PutObjectOptions{
		ContentType: sheetContentType,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload sheet: %w", err)
	}

	return &UploadResult{
		Bucket: info.Bucket,
		Key:    info.Key,
		Size:   info.Size,
		ETag:   info.ETag,
	}, nil
}

// ListSheets returns the .xlsx objects under prefix, sorted by key.
// An empty prefix lists the seeding area ("sheets/").
func (s *StorageService) ListSheets(ctx context.Context, prefix string) ([]SheetObject, error) {
	if prefix == "" {
		prefix = sheetsPrefix
	}

	var sheets []SheetObject
	for obj := range s.client.ListObjects(ctx, s.bucketName, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list sheets: %w", obj.Err)
		}
		if !IsSheetKey(obj.Key) {
			continue
		}
		sheets = append(sheets, SheetObject{Key: obj.Key, Size: obj.Size, LastModified: obj.LastModified})
	}

	sort.Slice(sheets, func(i, j int) bool { return sheets[i].Key < sheets[j].Key })
	return sheets, nil
}

// IsSheetKey reports whether key names an XLSX workbook
func IsSheetKey(key string) bool {
	return strings.EqualFold(path.Ext(key), ".xlsx")
}

// Download downloads a sheet from S3
func (s *StorageService) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	obj, err := s.client.GetObject(ctx, s.bucketName, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object: %w", err)
	}

	return obj, nil
}

// GetBucketName returns the bucket name
func (s *StorageService) GetBucketName() string {
	return s.bucketName
}
