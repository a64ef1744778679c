package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	miniogo "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/urfave/cli/v2"
)

// cmdPut uploads a local file to an S3-compatible endpoint. It exists to
// seed buckets for sync runs and integration tests; the sync engine itself
// only ever reads.
func cmdPut() *cli.Command {
	return &cli.Command{
		Name:      "put",
		Category:  "TRANSFER",
		Usage:     "Upload a local file to an S3-compatible endpoint",
		ArgsUsage: "LOCAL-FILE BUCKET",
		Flags: expandFlags(backendFlags(), []cli.Flag{
			&cli.StringFlag{
				Name:  "object-name",
				Usage: "name for the uploaded object (defaults to the local filename)",
			},
		}),
		Action: func(c *cli.Context) error {
			if c.NArg() != 2 {
				return fmt.Errorf("usage: storsync put LOCAL-FILE BUCKET")
			}
			localFile := c.Args().Get(0)
			bucketName := c.Args().Get(1)

			objectName := c.String("object-name")
			if objectName == "" {
				_, fileName := filepath.Split(localFile)
				objectName = fileName
			}

			ctx, cancel := context.WithTimeout(context.Background(), 300*time.Second)
			defer cancel()

			client, err := newUploadClient(c)
			if err != nil {
				return fmt.Errorf("client initialization failed: %w", err)
			}

			if err := ensureBucket(ctx, client, bucketName); err != nil {
				return fmt.Errorf("bucket processing failed: %w", err)
			}

			start := time.Now()
			uploadInfo, err := uploadLocalFile(ctx, client, bucketName, objectName, localFile)
			if err != nil {
				return fmt.Errorf("file upload failed: %w", err)
			}
			elapsed := time.Since(start)

			fmt.Printf("File uploaded successfully:\n")
			fmt.Printf("  Bucket:     %s\n", bucketName)
			fmt.Printf("  Object:     %s\n", uploadInfo.Key)
			fmt.Printf("  Size:       %d bytes\n", uploadInfo.Size)
			fmt.Printf("  Time taken: %s\n", elapsed)
			return nil
		},
	}
}

func newUploadClient(c *cli.Context) (*miniogo.Client, error) {
	endpoint := c.String("endpoint")
	if endpoint == "" {
		return nil, fmt.Errorf("put requires --endpoint")
	}
	return miniogo.New(endpoint, &miniogo.Options{
		Creds:  credentials.NewStaticV4(c.String("access-key"), c.String("secret-key"), ""),
		Secure: c.Bool("ssl"),
	})
}

func ensureBucket(ctx context.Context, client *miniogo.Client, bucketName string) error {
	exists, err := client.BucketExists(ctx, bucketName)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucketName, miniogo.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
		fmt.Printf("Bucket %s created successfully\n", bucketName)
	}
	return nil
}

func uploadLocalFile(ctx context.Context, client *miniogo.Client, bucketName, objectName, localFilePath string) (miniogo.UploadInfo, error) {
	fileInfo, err := os.Stat(localFilePath)
	if err != nil {
		return miniogo.UploadInfo{}, fmt.Errorf("failed to get file info: %w", err)
	}

	file, err := os.Open(localFilePath)
	if err != nil {
		return miniogo.UploadInfo{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	opts := miniogo.PutObjectOptions{
		ContentType:    "application/octet-stream",
		SendContentMd5: true,
	}
	return client.PutObject(ctx, bucketName, objectName, file, fileInfo.Size(), opts)
}
