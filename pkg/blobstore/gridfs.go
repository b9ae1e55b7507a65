package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GridFSStore keeps blobs in a MongoDB GridFS bucket. The blob key is used as
// both the file id and the file name.
type GridFSStore struct {
	client        *mongo.Client
	bucket        *gridfs.Bucket
	publicBaseURL string
}

func NewGridFSStore(ctx context.Context, uri, database, bucketName, publicBaseURL string) (*GridFSStore, error) {
	cctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	client, err := mongo.Connect(cctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(cctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	bucket, err := gridfs.NewBucket(client.Database(database), options.GridFSBucket().SetName(bucketName))
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("gridfs bucket: %w", err)
	}
	return &GridFSStore{client: client, bucket: bucket, publicBaseURL: publicBaseURL}, nil
}

func (s *GridFSStore) Put(ctx context.Context, key, contentType string, r io.Reader, size int64) (string, error) {
	if !ValidKey(key) {
		return "", ErrInvalidKey
	}
	opts := options.GridFSUpload().SetMetadata(bson.D{
		{Key: "contentType", Value: contentType},
		{Key: "size", Value: size},
	})
	if err := s.bucket.UploadFromStreamWithID(key, key, r, opts); err != nil {
		return "", fmt.Errorf("gridfs upload: %w", err)
	}
	return PublicURL(s.publicBaseURL, key), nil
}

func (s *GridFSStore) Delete(ctx context.Context, key string) error {
	err := s.bucket.Delete(key)
	if errors.Is(err, gridfs.ErrFileNotFound) {
		return nil
	}
	return err
}

func (s *GridFSStore) Open(ctx context.Context, key string) (io.ReadCloser, string, error) {
	if !ValidKey(key) {
		return nil, "", ErrInvalidKey
	}
	stream, err := s.bucket.OpenDownloadStream(key)
	if errors.Is(err, gridfs.ErrFileNotFound) {
		return nil, "", ErrNotFound
	}
	if err != nil {
		return nil, "", err
	}
	contentType := ""
	if meta := stream.GetFile().Metadata; meta != nil {
		if v, err := meta.LookupErr("contentType"); err == nil {
			contentType, _ = v.StringValueOK()
		}
	}
	return stream, contentType, nil
}

func (s *GridFSStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
