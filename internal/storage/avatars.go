// Package storage issues presigned S3 uploads for profile avatars.
package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"connectibles/internal/apperr"
	"connectibles/internal/config"
)

const uploadExpiry = 5 * time.Minute

var extensions = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
}

// AvatarUpload is returned to the client, which PUTs the image to UploadURL
// and then confirms PublicURL.
type AvatarUpload struct {
	UploadURL string `json:"uploadUrl"`
	PublicURL string `json:"publicUrl"`
	ExpiresIn int    `json:"expiresIn"`
}

// Avatars presigns avatar uploads and recognizes the URLs it handed out.
type Avatars interface {
	PresignAvatar(ctx context.Context, userID int64, contentType string) (AvatarUpload, error)
	OwnsURL(userID int64, url string) bool
}

// S3Avatars stores avatars under avatars/<user id>/ in one bucket.
type S3Avatars struct {
	presign   *s3.PresignClient
	bucket    string
	publicURL string
}

// NewS3Avatars builds an S3 client from cfg. Static keys are used when set,
// otherwise the default AWS credential chain applies.
func NewS3Avatars(ctx context.Context, cfg config.AWSConfig) (*S3Avatars, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	publicURL := cfg.PublicURL
	if publicURL == "" {
		publicURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.S3Bucket, cfg.Region)
	}
	return &S3Avatars{
		presign:   s3.NewPresignClient(client),
		bucket:    cfg.S3Bucket,
		publicURL: strings.TrimSuffix(publicURL, "/"),
	}, nil
}

func (s *S3Avatars) PresignAvatar(ctx context.Context, userID int64, contentType string) (AvatarUpload, error) {
	key, err := avatarKey(userID, contentType)
	if err != nil {
		return AvatarUpload{}, err
	}
	req, err := s.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = uploadExpiry
	})
	if err != nil {
		return AvatarUpload{}, fmt.Errorf("failed to generate pre-signed URL: %w", err)
	}
	return AvatarUpload{
		UploadURL: req.URL,
		PublicURL: s.publicURL + "/" + key,
		ExpiresIn: int(uploadExpiry.Seconds()),
	}, nil
}

// OwnsURL reports whether url points into userID's avatar prefix.
func (s *S3Avatars) OwnsURL(userID int64, url string) bool {
	return hasAvatarPrefix(s.publicURL, userID, url)
}

func avatarKey(userID int64, contentType string) (string, error) {
	ext, ok := extensions[contentType]
	if !ok {
		return "", apperr.InvalidInput.Withf("unsupported avatar content type %q", contentType)
	}
	return fmt.Sprintf("%s%s.%s", avatarPrefix(userID), uuid.NewString(), ext), nil
}

func avatarPrefix(userID int64) string {
	return fmt.Sprintf("avatars/%d/", userID)
}

func hasAvatarPrefix(publicURL string, userID int64, url string) bool {
	prefix := publicURL + "/" + avatarPrefix(userID)
	return strings.HasPrefix(url, prefix) && len(url) > len(prefix) && !strings.Contains(url[len(prefix):], "/")
}
