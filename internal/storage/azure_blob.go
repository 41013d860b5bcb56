package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
	"go.uber.org/zap"
)

// AzureBlobStorage implements Storage for Azure Blob Storage
type AzureBlobStorage struct {
	client        *azblob.Client
	containerName string
	logger        *zap.Logger
}

// NewAzureBlobStorage creates the client and makes sure the export container exists
func NewAzureBlobStorage(connectionString, containerName string, logger *zap.Logger) (*AzureBlobStorage, error) {
	client, err := azblob.NewClientFromConnectionString(connectionString, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create blob client: %w", err)
	}

	_, err = client.CreateContainer(context.Background(), containerName, nil)
	if err != nil && !bloberror.HasCode(err, bloberror.ContainerAlreadyExists) {
		return nil, fmt.Errorf("failed to create container: %w", err)
	}

	logger.Info("Azure Blob Storage initialized",
		zap.String("container", containerName),
	)

	return &AzureBlobStorage{
		client:        client,
		containerName: containerName,
		logger:        logger,
	}, nil
}

// Upload streams data into the blob called name
func (s *AzureBlobStorage) Upload(ctx context.Context, name string, contentType string, data io.Reader) (int64, error) {
	blobName, err := CleanName(name)
	if err != nil {
		return 0, err
	}

	uploadOptions := &azblob.UploadStreamOptions{
		HTTPHeaders: &blob.HTTPHeaders{
			BlobContentType: &contentType,
		},
	}

	reader := &countingReader{r: data}

	if _, err := s.client.UploadStream(ctx, s.containerName, blobName, reader, uploadOptions); err != nil {
		return 0, fmt.Errorf("failed to upload blob: %w", err)
	}

	s.logger.Info("export uploaded to Azure Blob Storage",
		zap.String("blob", blobName),
		zap.String("container", s.containerName),
		zap.String("content_type", contentType),
		zap.Int64("size", reader.count),
	)

	return reader.count, nil
}

// countingReader wraps an io.Reader and counts the number of bytes read
type countingReader struct {
	r     io.Reader
	count int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.count += int64(n)
	return n, err
}

// Download opens the blob called name
func (s *AzureBlobStorage) Download(ctx context.Context, name string) (io.ReadCloser, error) {
	blobName, err := CleanName(name)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.DownloadStream(ctx, s.containerName, blobName, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, blobName)
		}
		return nil, fmt.Errorf("failed to download blob: %w", err)
	}

	return resp.Body, nil
}

// Delete removes the blob. Missing blobs are not an error.
func (s *AzureBlobStorage) Delete(ctx context.Context, name string) error {
	blobName, err := CleanName(name)
	if err != nil {
		return err
	}

	if _, err := s.client.DeleteBlob(ctx, s.containerName, blobName, nil); err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound) || strings.Contains(err.Error(), "BlobNotFound") {
			s.logger.Debug("blob already deleted or not found",
				zap.String("blob", blobName),
				zap.String("container", s.containerName),
			)
			return nil
		}
		return fmt.Errorf("failed to delete blob: %w", err)
	}

	s.logger.Info("export deleted from Azure Blob Storage",
		zap.String("blob", blobName),
		zap.String("container", s.containerName),
	)

	return nil
}
