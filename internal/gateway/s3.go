// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package gateway

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"aerogrid/internal/content"
	"aerogrid/internal/imaging"
)

// S3 persists the document and media in a single public bucket behind
// an S3-compatible endpoint, using path-style addressing (required by
// CEPH/Hetzner). Media objects get a public-read ACL so the bucket can
// serve them directly.
type S3 struct {
	client    *s3.Client
	bucket    string
	endpoint  string
	publicURL string // optional CDN/direct URL for media
	now       func() time.Time
}

// S3Config carries the connection settings for the object store.
type S3Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	PublicURL string
}

// NewS3 creates the object store backend with static credentials and
// path-style access.
func NewS3(cfg S3Config) (*S3, error) {
	if cfg.Endpoint == "" || cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, errors.New("s3 backend requires endpoint and credentials")
	}
	endpoint := strings.TrimRight(cfg.Endpoint, "/")

	client := s3.New(s3.Options{
		Region:       cfg.Region,
		BaseEndpoint: aws.String(endpoint),
		Credentials:  credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		UsePathStyle: true,
	})

	return &S3{
		client:    client,
		bucket:    cfg.Bucket,
		endpoint:  endpoint,
		publicURL: strings.TrimRight(cfg.PublicURL, "/"),
		now:       time.Now,
	}, nil
}

// LoadDocument downloads and decodes content.json from the bucket.
func (s *S3) LoadDocument(ctx context.Context) (*content.Document, error) {
	data, err := s.download(ctx, DocumentPath)
	if err != nil {
		return nil, err
	}
	return content.Decode(data)
}

// ReplaceDocument copies the current document into backups/ and then
// uploads the stamped new one.
func (s *S3) ReplaceDocument(ctx context.Context, doc *content.Document, by string) error {
	if err := doc.Validate(); err != nil {
		return err
	}

	current, err := s.download(ctx, DocumentPath)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	if err == nil {
		if err := s.upload(ctx, BackupPrefix+backupName(s.now()), "application/json", current); err != nil {
			return err
		}
	}

	doc.Stamp(by, s.now())
	data, err := doc.Encode()
	if err != nil {
		return err
	}
	return s.upload(ctx, DocumentPath, "application/json", data)
}

// StoreAsset uploads the file under uploads/ with a public-read ACL.
// Images are optimized first and get a thumbnail object alongside.
func (s *S3) StoreAsset(ctx context.Context, up Upload) (*StoredAsset, error) {
	if err := ValidateUpload(up); err != nil {
		return nil, err
	}

	name := assetName(up)
	data := up.Data
	contentType := up.ContentType
	var thumbURL string

	if !up.IsVideo() && !up.IsSVG() {
		optimized, err := imaging.Optimize(up.Data)
		if err != nil {
			return nil, fmt.Errorf("optimize %s: %w", up.Filename, err)
		}
		data = optimized
		contentType = "image/jpeg"

		thumb, err := imaging.Thumbnail(up.Data)
		if err != nil {
			return nil, fmt.Errorf("thumbnail %s: %w", up.Filename, err)
		}
		if thumb != nil {
			thumbKey := "uploads/thumbnails/thumb-" + name
			if err := s.upload(ctx, thumbKey, "image/jpeg", thumb); err != nil {
				return nil, err
			}
			thumbURL = s.fileURL(thumbKey)
		}
	}

	key := "uploads/" + name
	if err := s.upload(ctx, key, contentType, data); err != nil {
		return nil, err
	}

	return &StoredAsset{
		URL:       s.fileURL(key),
		Thumbnail: thumbURL,
		Filename:  name,
		Size:      int64(len(data)),
	}, nil
}

// ListBackups lists objects under backups/, newest first.
func (s *S3) ListBackups(ctx context.Context) ([]Backup, error) {
	var backups []Backup
	var token *string
	for {
		out, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            aws.String(s.bucket),
			Prefix:            aws.String(BackupPrefix),
			ContinuationToken: token,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: s3 list backups: %v", ErrStoreUnavailable, err)
		}
		for _, obj := range out.Contents {
			name := strings.TrimPrefix(aws.ToString(obj.Key), BackupPrefix)
			if !strings.HasSuffix(name, ".json") {
				continue
			}
			mod := parseBackupTime(name)
			if mod.IsZero() && obj.LastModified != nil {
				mod = obj.LastModified.UTC()
			}
			backups = append(backups, Backup{Name: name, Modified: mod, Size: aws.ToInt64(obj.Size)})
		}
		if !aws.ToBool(out.IsTruncated) {
			break
		}
		token = out.NextContinuationToken
	}
	sort.Slice(backups, func(i, j int) bool { return backups[i].Modified.After(backups[j].Modified) })
	return backups, nil
}

// RestoreBackup downloads the named snapshot and promotes it via
// ReplaceDocument.
func (s *S3) RestoreBackup(ctx context.Context, name string, by string) (*content.Document, error) {
	if !validBackupName(name) {
		return nil, ErrNotFound
	}
	data, err := s.download(ctx, BackupPrefix+name)
	if err != nil {
		return nil, err
	}
	doc, err := content.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("backup %s: %w", name, err)
	}
	if err := s.ReplaceDocument(ctx, doc, by); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *S3) upload(ctx context.Context, key, contentType string, data []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
		ACL:           s3types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return fmt.Errorf("%w: s3 upload %s: %v", ErrStoreUnavailable, key, err)
	}
	return nil
}

func (s *S3) download(ctx context.Context, key string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noKey *s3types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: s3 download %s: %v", ErrStoreUnavailable, key, err)
	}
	defer out.Body.Close()
	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: s3 read body %s: %v", ErrStoreUnavailable, key, err)
	}
	return data, nil
}

// fileURL returns the public URL for an object. Uses the configured
// public URL if set, otherwise builds a path-style URL.
func (s *S3) fileURL(key string) string {
	if s.publicURL != "" {
		return s.publicURL + "/" + key
	}
	return s.endpoint + "/" + s.bucket + "/" + key
}
