// Package objectstorage stores media objects in an S3-compatible bucket and
// serves them over the API, with a small LRU cache in front of the bucket.
package objectstorage

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	lru "github.com/hashicorp/golang-lru/v2"
)

var (
	// ErrObjectNotFound is returned when the requested object is not found in storage.
	ErrObjectNotFound = fmt.Errorf("object not found")
	// ErrInvalidObjectID is returned when the provided object ID is invalid or empty.
	ErrInvalidObjectID = fmt.Errorf("invalid object ID")
	// ErrFileTypeNotSupported is returned when the file type is not in the supported types list.
	ErrFileTypeNotSupported = fmt.Errorf("file type not supported")
)

// ObjectFileType represents the MIME type of a stored object file.
type ObjectFileType string

const (
	FileTypeJPEG ObjectFileType = "image/jpeg"
	FileTypePNG  ObjectFileType = "image/png"
	FileTypeJPG  ObjectFileType = "image/jpg"
)

// DefaultSupportedFileTypes is a map of file types that are supported by default.
var DefaultSupportedFileTypes = map[ObjectFileType]bool{
	FileTypeJPEG: true,
	FileTypePNG:  true,
	FileTypeJPG:  true,
}

// Object is a stored media object with its content type.
type Object struct {
	Data        []byte
	ContentType string
}

// Config holds the configuration for the object storage client. Endpoint is
// optional and points at an S3-compatible service such as MinIO; when empty
// the AWS default resolution applies.
type Config struct {
	Region         string
	Bucket         string
	AccessKey      string
	SecretKey      string
	Endpoint       string
	ServerURL      string
	SupportedTypes []ObjectFileType
}

// Client provides functionality for storing and retrieving media objects in
// an S3 bucket. Reads go through an LRU cache.
type Client struct {
	s3client       *s3.Client
	uploader       *manager.Uploader
	bucket         string
	supportedTypes map[ObjectFileType]bool
	cache          *lru.Cache[string, Object]
	ServerURL      string
}

// New initializes the object storage client and verifies the bucket is
// reachable.
func New(conf *Config) (*Client, error) {
	if conf == nil || conf.Bucket == "" {
		return nil, fmt.Errorf("invalid object storage configuration")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(conf.Region),
	}
	if conf.AccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(conf.AccessKey, conf.SecretKey, "")))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("cannot load storage credentials: %w", err)
	}
	s3client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if conf.Endpoint != "" {
			o.BaseEndpoint = aws.String(conf.Endpoint)
			o.UsePathStyle = true
		}
	})
	if _, err := s3client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(conf.Bucket)}); err != nil {
		return nil, fmt.Errorf("cannot reach bucket %s: %w", conf.Bucket, err)
	}
	supportedTypes := DefaultSupportedFileTypes
	for _, t := range conf.SupportedTypes {
		supportedTypes[t] = true
	}
	cache, err := lru.New[string, Object](256)
	if err != nil {
		return nil, fmt.Errorf("cannot create cache: %w", err)
	}
	return &Client{
		s3client:       s3client,
		uploader:       manager.NewUploader(s3client),
		bucket:         conf.Bucket,
		supportedTypes: supportedTypes,
		cache:          cache,
		ServerURL:      conf.ServerURL,
	}, nil
}

// Get retrieves an object by its stored name. It first checks the cache and
// falls back to the bucket.
func (osc *Client) Get(ctx context.Context, objectID string) (*Object, error) {
	if objectID == "" {
		return nil, ErrInvalidObjectID
	}
	if object, ok := osc.cache.Get(objectID); ok {
		return &object, nil
	}
	out, err := osc.s3client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(osc.bucket),
		Key:    aws.String(objectID),
	})
	if err != nil {
		return nil, ErrObjectNotFound
	}
	defer func() { _ = out.Body.Close() }()
	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading object: %w", err)
	}
	object := Object{Data: data, ContentType: aws.ToString(out.ContentType)}
	osc.cache.Add(objectID, object)
	return &object, nil
}

// Put uploads a media object associated to a user. The stored name is
// derived from the content hash, so re-uploading the same bytes yields the
// same name. It returns the stored object name.
func (osc *Client) Put(ctx context.Context, data io.Reader, size int64, user string) (string, error) {
	buff := make([]byte, size)
	if _, err := io.ReadFull(data, buff); err != nil {
		return "", fmt.Errorf("cannot read file: %w", err)
	}
	// only allow image content
	filetype := http.DetectContentType(buff)
	if !osc.supportedTypes[ObjectFileType(filetype)] {
		return "", ErrFileTypeNotSupported
	}
	fileExtension := strings.Split(filetype, "/")[1]
	objectID := fmt.Sprintf("%s.%s", calculateObjectID(buff), fileExtension)
	if _, err := osc.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(osc.bucket),
		Key:         aws.String(objectID),
		Body:        bytes.NewReader(buff),
		ContentType: aws.String(filetype),
		Metadata:    map[string]string{"uploader": user},
	}); err != nil {
		return "", fmt.Errorf("cannot store object: %w", err)
	}
	osc.cache.Add(objectID, Object{Data: buff, ContentType: filetype})
	return objectID, nil
}

// calculateObjectID derives the stored name from the first 12 bytes of the
// md5 hash of the data.
func calculateObjectID(data []byte) string {
	hash := md5.Sum(data)
	return hex.EncodeToString(hash[:12])
}
