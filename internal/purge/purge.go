// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package purge

import (
	"context"
	"fmt"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/dustin/go-humanize"

	"github.com/tfctl/tfstrap/internal/log"
)

// batchSize is the DeleteObjects per-request cap imposed by the service.
const batchSize = 1000

// Error means a version batch deletion failed and the bucket is left
// non-empty. The operator has to finish cleanup by hand; teardown aborts.
type Error struct {
	Bucket string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("purge of bucket %s failed, clean it up manually: %v", e.Bucket, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// ObjectAPI is the slice of the S3 surface the purge needs. It satisfies the
// SDK's paginator client interfaces.
type ObjectAPI interface {
	ListObjectsV2(ctx context.Context, params *s3v2.ListObjectsV2Input, optFns ...func(*s3v2.Options)) (*s3v2.ListObjectsV2Output, error)
	ListObjectVersions(ctx context.Context, params *s3v2.ListObjectVersionsInput, optFns ...func(*s3v2.Options)) (*s3v2.ListObjectVersionsOutput, error)
	DeleteObjects(ctx context.Context, params *s3v2.DeleteObjectsInput, optFns ...func(*s3v2.Options)) (*s3v2.DeleteObjectsOutput, error)
	DeleteBucket(ctx context.Context, params *s3v2.DeleteBucketInput, optFns ...func(*s3v2.Options)) (*s3v2.DeleteBucketOutput, error)
}

// Purge evacuates a bucket so it can be deleted. Phase one is a best-effort
// bulk delete of current objects; on a versioned bucket that only plants
// delete markers, so phase two loops over the version listing and batch
// deletes every version and marker until a listing comes back empty.
func Purge(ctx context.Context, api ObjectAPI, bucket string) error {
	log.Infof("emptying bucket %s", bucket)

	if n, err := deleteCurrentObjects(ctx, api, bucket); err != nil {
		// Non-fatal: versions and markers are handled below either way.
		log.Warnf("bulk delete of current objects failed, continuing with version purge: %v", err)
	} else if n > 0 {
		log.Infof("bulk deleted %s current objects from %s", humanize.Comma(int64(n)), bucket)
	}

	var total int
	for {
		entries, err := listVersions(ctx, api, bucket)
		if err != nil {
			// Listing unavailable: stop, best effort.
			log.Warnf("list-object-versions failed or no versions for %s, continuing: %v", bucket, err)
			break
		}
		if len(entries) == 0 {
			break
		}

		for start := 0; start < len(entries); start += batchSize {
			end := min(start+batchSize, len(entries))
			if err := deleteBatch(ctx, api, bucket, entries[start:end]); err != nil {
				return &Error{Bucket: bucket, Err: err}
			}
			total += end - start
		}
	}
	if total > 0 {
		log.Infof("purged %s object versions and delete markers from %s", humanize.Comma(int64(total)), bucket)
	}

	return nil
}

// DeleteBucket removes the (supposedly empty) bucket. Callers decide how
// severe a failure is; by this point the record and contents are gone.
func DeleteBucket(ctx context.Context, api ObjectAPI, bucket string) error {
	if _, err := api.DeleteBucket(ctx, &s3v2.DeleteBucketInput{
		Bucket: awsv2.String(bucket),
	}); err != nil {
		return fmt.Errorf("failed to delete bucket %s: %w", bucket, err)
	}
	log.Infof("deleted bucket %s", bucket)
	return nil
}

// deleteCurrentObjects pages the plain object listing and batch deletes the
// keys it finds. Returns the number of objects submitted for deletion.
func deleteCurrentObjects(ctx context.Context, api ObjectAPI, bucket string) (int, error) {
	paginator := s3v2.NewListObjectsV2Paginator(api, &s3v2.ListObjectsV2Input{
		Bucket: awsv2.String(bucket),
	})

	var deleted int
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return deleted, err
		}

		var batch []types.ObjectIdentifier
		for _, obj := range page.Contents {
			batch = append(batch, types.ObjectIdentifier{Key: obj.Key})
		}
		if len(batch) == 0 {
			continue
		}
		if err := deleteBatch(ctx, api, bucket, batch); err != nil {
			return deleted, err
		}
		deleted += len(batch)
	}
	return deleted, nil
}

// listVersions collects every object version and delete marker currently in
// the bucket.
func listVersions(ctx context.Context, api ObjectAPI, bucket string) ([]types.ObjectIdentifier, error) {
	paginator := s3v2.NewListObjectVersionsPaginator(api, &s3v2.ListObjectVersionsInput{
		Bucket: awsv2.String(bucket),
	})

	var entries []types.ObjectIdentifier
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, v := range page.Versions {
			entries = append(entries, types.ObjectIdentifier{Key: v.Key, VersionId: v.VersionId})
		}
		for _, d := range page.DeleteMarkers {
			entries = append(entries, types.ObjectIdentifier{Key: d.Key, VersionId: d.VersionId})
		}
	}
	return entries, nil
}

// deleteBatch submits one DeleteObjects call. Per-object errors in the
// response count as failure; ignoring them would spin the purge loop.
func deleteBatch(ctx context.Context, api ObjectAPI, bucket string, batch []types.ObjectIdentifier) error {
	out, err := api.DeleteObjects(ctx, &s3v2.DeleteObjectsInput{
		Bucket: awsv2.String(bucket),
		Delete: &types.Delete{
			Objects: batch,
			Quiet:   awsv2.Bool(true),
		},
	})
	if err != nil {
		return err
	}
	if len(out.Errors) > 0 {
		first := out.Errors[0]
		return fmt.Errorf("%d objects failed to delete, first: %s %s",
			len(out.Errors), awsv2.ToString(first.Key), awsv2.ToString(first.Message))
	}
	return nil
}
