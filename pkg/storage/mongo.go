package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/furnidraw/pkg/cache"
	ferrors "github.com/matzehuels/furnidraw/pkg/errors"
)

// MongoDB defaults.
const (
	DefaultMongoDatabase = "furnidraw"
	// BucketName is the GridFS bucket holding export files.
	BucketName = "drawings"
	// ExportsCollection records one document per stored export.
	ExportsCollection = "exports"
)

// ExportRecord is the metadata document written next to each GridFS file.
type ExportRecord struct {
	Key         string            `bson:"_id"`
	FileID      string            `bson:"file_id"`
	Filename    string            `bson:"filename"`
	ContentType string            `bson:"content_type"`
	Size        int               `bson:"size"`
	Metadata    map[string]string `bson:"metadata,omitempty"`
	CreatedAt   time.Time         `bson:"created_at"`
}

// MongoStore keeps export files in GridFS.
type MongoStore struct {
	client  *mongo.Client
	bucket  *gridfs.Bucket
	exports *mongo.Collection
	now     func() time.Time
}

// NewMongoStore connects to uri and opens the drawings bucket in database
// (DefaultMongoDatabase when empty).
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	if database == "" {
		database = DefaultMongoDatabase
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("%w: mongo ping: %v", cache.ErrUnavailable, err)
	}
	db := client.Database(database)
	bucket, err := gridfs.NewBucket(db, options.GridFSBucket().SetName(BucketName))
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("open gridfs bucket: %w", err)
	}
	return &MongoStore{
		client:  client,
		bucket:  bucket,
		exports: db.Collection(ExportsCollection),
		now:     time.Now,
	}, nil
}

// Put implements [Store]. The GridFS filename is the object key.
func (s *MongoStore) Put(ctx context.Context, obj Object) (Location, error) {
	if err := validate(obj); err != nil {
		return Location{}, err
	}
	if deadline, ok := ctx.Deadline(); ok {
		if err := s.bucket.SetWriteDeadline(deadline); err != nil {
			return Location{}, err
		}
	}

	meta := bson.M{"content_type": obj.ContentType, "filename": obj.Filename}
	for k, v := range obj.Metadata {
		meta[k] = v
	}
	id, err := s.bucket.UploadFromStream(obj.Key, bytes.NewReader(obj.Data),
		options.GridFSUpload().SetMetadata(meta))
	if err != nil {
		return Location{}, classify(fmt.Errorf("gridfs upload: %w", err))
	}

	rec := ExportRecord{
		Key:         obj.Key,
		FileID:      id.Hex(),
		Filename:    obj.Filename,
		ContentType: obj.ContentType,
		Size:        len(obj.Data),
		Metadata:    obj.Metadata,
		CreatedAt:   s.now().UTC(),
	}
	if _, err := s.exports.InsertOne(ctx, rec); err != nil {
		return Location{}, classify(fmt.Errorf("record export: %w", err))
	}
	return Location{Backend: "mongodb", Key: obj.Key, URL: "gridfs://" + BucketName + "/" + id.Hex(), Size: len(obj.Data)}, nil
}

// Get implements [Store].
func (s *MongoStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ferrors.ValidateStorageKey(key); err != nil {
		return nil, err
	}
	if deadline, ok := ctx.Deadline(); ok {
		if err := s.bucket.SetReadDeadline(deadline); err != nil {
			return nil, err
		}
	}
	var buf bytes.Buffer
	if _, err := s.bucket.DownloadToStreamByName(key, &buf); err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return nil, notFound(key)
		}
		return nil, classify(fmt.Errorf("gridfs download: %w", err))
	}
	return buf.Bytes(), nil
}

// Record returns the metadata document of a stored export.
func (s *MongoStore) Record(ctx context.Context, key string) (ExportRecord, error) {
	var rec ExportRecord
	err := s.exports.FindOne(ctx, bson.M{"_id": key}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return rec, notFound(key)
	}
	return rec, err
}

// Close disconnects the client.
func (s *MongoStore) Close() error {
	return s.client.Disconnect(context.Background())
}

// classify marks network failures and timeouts as retryable.
func classify(err error) error {
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) {
		return cache.Retryable(err)
	}
	return err
}

var _ Store = (*MongoStore)(nil)
