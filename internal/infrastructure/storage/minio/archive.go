package minio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"

	"github.com/turtacn/ClauseMatch/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ClauseMatch/pkg/errors"
)

var ErrObjectNotFound = errors.New(errors.ErrCodeNotFound, "archived document not found")

// ArchivedDocument describes one stored source document.
type ArchivedDocument struct {
	ObjectKey    string
	ContractType string
	RunID        string
	Filename     string
	Size         int64
	ContentType  string
	ArchivedAt   time.Time
}

// DocumentArchive stores raw source documents under
// <contract_type>/<run_id>/<filename>.  Objects are immutable once written;
// a re-ingestion writes a new run prefix instead of overwriting.
type DocumentArchive struct {
	client *Client
	logger logging.Logger
}

// NewDocumentArchive builds an archive over client's bucket.
func NewDocumentArchive(client *Client, logger logging.Logger) *DocumentArchive {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &DocumentArchive{client: client, logger: logger.Named("doc_archive")}
}

func objectKey(contractType, runID, filename string) string {
	return fmt.Sprintf("%s/%s/%s", contractType, runID, filename)
}

// Archive uploads one source document and returns its object key.
func (a *DocumentArchive) Archive(ctx context.Context, contractType, runID, filename string, data []byte) (string, error) {
	if contractType == "" || runID == "" || filename == "" {
		return "", errors.New(errors.ErrCodeValidation, "contract type, run id and filename are required")
	}
	if len(data) == 0 {
		return "", errors.New(errors.ErrCodeValidation, "document is empty")
	}

	contentType := http.DetectContentType(data[:minInt(512, len(data))])
	key := objectKey(contractType, runID, filename)

	_, err := a.client.API().PutObject(ctx, a.client.Bucket(), key,
		bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
			ContentType: contentType,
			UserMetadata: map[string]string{
				"contract-type": contractType,
				"run-id":        runID,
			},
		})
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeInternal, "failed to archive document")
	}

	a.logger.Info("document archived",
		logging.String("object_key", key),
		logging.Int("bytes", len(data)))
	return key, nil
}

// Fetch downloads one archived document by object key.
func (a *DocumentArchive) Fetch(ctx context.Context, key string) ([]byte, error) {
	obj, err := a.client.API().GetObject(ctx, a.client.Bucket(), key, minio.GetObjectOptions{})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to fetch document")
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, ErrObjectNotFound
		}
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to read document")
	}
	return data, nil
}

// Stat returns the metadata of one archived document.
func (a *DocumentArchive) Stat(ctx context.Context, key string) (*ArchivedDocument, error) {
	info, err := a.client.API().StatObject(ctx, a.client.Bucket(), key, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, ErrObjectNotFound
		}
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to stat document")
	}
	return archivedFromInfo(info), nil
}

// ListRuns returns the documents archived for one contract type, newest
// first.
func (a *DocumentArchive) ListRuns(ctx context.Context, contractType string) ([]*ArchivedDocument, error) {
	if contractType == "" {
		return nil, errors.New(errors.ErrCodeContractTypeInvalid, "contract type is required")
	}

	ch := a.client.API().ListObjects(ctx, a.client.Bucket(), minio.ListObjectsOptions{
		Prefix:    contractType + "/",
		Recursive: true,
	})

	var docs []*ArchivedDocument
	for obj := range ch {
		if obj.Err != nil {
			return nil, errors.Wrap(obj.Err, errors.ErrCodeInternal, "failed to list archive")
		}
		docs = append(docs, archivedFromInfo(obj))
	}

	sort.Slice(docs, func(i, j int) bool {
		return docs[i].ArchivedAt.After(docs[j].ArchivedAt)
	})
	return docs, nil
}

// PresignedURL returns a time-limited download link for auditors.
func (a *DocumentArchive) PresignedURL(ctx context.Context, key string) (string, error) {
	u, err := a.client.API().PresignedGetObject(ctx, a.client.Bucket(), key,
		a.client.config.PresignExpiry, nil)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeInternal, "failed to presign document url")
	}
	return u.String(), nil
}

// Delete removes one archived document.
func (a *DocumentArchive) Delete(ctx context.Context, key string) error {
	err := a.client.API().RemoveObject(ctx, a.client.Bucket(), key, minio.RemoveObjectOptions{})
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to delete document")
	}
	return nil
}

func archivedFromInfo(info minio.ObjectInfo) *ArchivedDocument {
	doc := &ArchivedDocument{
		ObjectKey:   info.Key,
		Size:        info.Size,
		ContentType: info.ContentType,
		ArchivedAt:  info.LastModified,
	}
	parts := strings.SplitN(info.Key, "/", 3)
	if len(parts) == 3 {
		doc.ContractType = parts[0]
		doc.RunID = parts[1]
		doc.Filename = parts[2]
	}
	return doc
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

//Personal.AI order the ending
