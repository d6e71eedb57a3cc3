package archive

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"board-sync/core/config"
	"board-sync/core/storage"
	"board-sync/feature/board"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

const (
	latestObject  = "latest.json"
	historyFolder = "history"
	timeLayout    = "20060102T150405.000000000Z"
)

// Entry is one archived snapshot object.
type Entry struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"lastModified"`
}

// Archiver writes board snapshots to object storage.
type Archiver struct {
	client    storage.Client
	bucket    string
	cfg       config.ArchiveConfig
	snapshots *board.SnapshotBuilder
	logger    *zap.Logger
	now       func() time.Time

	mu         sync.Mutex
	lastLatest [sha256.Size]byte
}

// NewArchiver creates an archiver writing under cfg.Prefix in bucket.
func NewArchiver(client storage.Client, bucket string, cfg config.ArchiveConfig, snapshots *board.SnapshotBuilder, logger *zap.Logger) *Archiver {
	return &Archiver{
		client:    client,
		bucket:    bucket,
		cfg:       cfg,
		snapshots: snapshots,
		logger:    logger,
		now:       time.Now,
	}
}

// LatestKey is the object overwritten by the background worker.
func (a *Archiver) LatestKey() string {
	return path.Join(a.cfg.Prefix, latestObject)
}

func (a *Archiver) historyPrefix() string {
	return path.Join(a.cfg.Prefix, historyFolder) + "/"
}

// WriteLatest stores snap as the latest snapshot. It returns false without writing
// when the content equals the last one written.
func (a *Archiver) WriteLatest(ctx context.Context, snap *board.Snapshot) (bool, error) {
	data, err := json.Marshal(snap)
	if err != nil {
		return false, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	sum := sha256.Sum256(data)

	a.mu.Lock()
	defer a.mu.Unlock()
	if sum == a.lastLatest {
		return false, nil
	}
	if err := a.put(ctx, a.LatestKey(), data); err != nil {
		return false, err
	}
	a.lastLatest = sum
	return true, nil
}

// Archive stores the current board state as a new timestamped object and prunes
// history down to cfg.Keep copies.
func (a *Archiver) Archive(ctx context.Context) (*Entry, error) {
	snap, err := a.snapshots.Build(ctx)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}

	ts := a.now().UTC()
	key := a.historyPrefix() + ts.Format(timeLayout) + ".json"
	if err := a.put(ctx, key, data); err != nil {
		return nil, err
	}
	a.logger.Info("Archived snapshot",
		zap.String("key", key),
		zap.Int("items", len(snap.Items)),
		zap.Int("folders", len(snap.Folders)))

	if err := a.prune(ctx); err != nil {
		a.logger.Warn("Failed to prune archive", zap.Error(err))
	}
	return &Entry{Key: key, Size: int64(len(data)), LastModified: ts}, nil
}

// List returns the archived copies, newest first.
func (a *Archiver) List(ctx context.Context) ([]Entry, error) {
	entries := make([]Entry, 0)
	for obj := range a.client.ListObjects(ctx, a.bucket, minio.ListObjectsOptions{
		Prefix:    a.historyPrefix(),
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list archive: %w", obj.Err)
		}
		if !strings.HasSuffix(obj.Key, ".json") {
			continue
		}
		entries = append(entries, Entry{Key: obj.Key, Size: obj.Size, LastModified: obj.LastModified})
	}
	// Keys embed a sortable UTC timestamp.
	sort.Slice(entries, func(i, j int) bool { return entries[i].Key > entries[j].Key })
	return entries, nil
}

// Latest reads back the snapshot last written by WriteLatest.
func (a *Archiver) Latest(ctx context.Context) (*board.Snapshot, error) {
	obj, err := a.client.GetObject(ctx, a.bucket, a.LatestKey(), minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", a.LatestKey(), err)
	}
	defer obj.Close()

	var snap board.Snapshot
	if err := json.NewDecoder(obj).Decode(&snap); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", a.LatestKey(), err)
	}
	return &snap, nil
}

func (a *Archiver) prune(ctx context.Context) error {
	if a.cfg.Keep <= 0 {
		return nil
	}
	entries, err := a.List(ctx)
	if err != nil {
		return err
	}
	for _, e := range entries[min(a.cfg.Keep, len(entries)):] {
		if err := a.client.RemoveObject(ctx, a.bucket, e.Key, minio.RemoveObjectOptions{}); err != nil {
			return fmt.Errorf("failed to remove %s: %w", e.Key, err)
		}
		a.logger.Debug("Pruned archived snapshot", zap.String("key", e.Key))
	}
	return nil
}

func (a *Archiver) put(ctx context.Context, key string, data []byte) error {
	_, err := a.client.PutObject(ctx, a.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return nil
}
