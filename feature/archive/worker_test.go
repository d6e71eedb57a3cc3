package archive

import (
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"board-sync/feature/board"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// lockedUploads is a capturePut target safe to read while the worker writes.
type lockedUploads struct {
	mu   sync.Mutex
	last []byte
	n    int
}

func (u *lockedUploads) get() ([]byte, int) {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.last, u.n
}

func TestWorker_FlushesOnTick(t *testing.T) {
	a, client, _ := setupTestArchiver(t, 0)
	uploads := &lockedUploads{}
	client.On("PutObject", mock.Anything, "board", "snapshots/latest.json", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			buf, _ := io.ReadAll(args.Get(3).(io.Reader))
			uploads.mu.Lock()
			uploads.last, uploads.n = buf, uploads.n+1
			uploads.mu.Unlock()
		}).
		Return(minio.UploadInfo{}, nil)

	updates := make(chan *board.Snapshot, 4)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		NewWorker(a, updates, 10*time.Millisecond, zap.NewNop()).Run(ctx)
		close(done)
	}()

	// The empty initial board is written first.
	assert.Eventually(t, func() bool { _, n := uploads.get(); return n == 1 }, time.Second, 5*time.Millisecond)

	// Only the newest of several queued updates survives until the next tick.
	updates <- &board.Snapshot{Items: []board.Item{{ID: "old", Title: "Old", Icon: "o"}}, Folders: []board.Folder{}}
	updates <- &board.Snapshot{Items: []board.Item{{ID: "new", Title: "New", Icon: "n"}}, Folders: []board.Folder{}}

	assert.Eventually(t, func() bool {
		last, _ := uploads.get()
		return strings.Contains(string(last), `"id":"new"`)
	}, time.Second, 5*time.Millisecond)

	cancel()
	<-done
}

func TestWorker_FlushesPendingOnClose(t *testing.T) {
	a, client, _ := setupTestArchiver(t, 0)
	client.On("PutObject", mock.Anything, "board", "snapshots/latest.json", mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, nil)

	updates := make(chan *board.Snapshot, 1)
	updates <- &board.Snapshot{Items: []board.Item{{ID: "x", Title: "X", Icon: "x"}}, Folders: []board.Folder{}}
	close(updates)

	// An hour-long interval means the write can only come from the close path.
	NewWorker(a, updates, time.Hour, zap.NewNop()).Run(context.Background())

	client.AssertNumberOfCalls(t, "PutObject", 1)
}
