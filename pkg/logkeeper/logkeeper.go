// Package logkeeper indexes the access log entries the API ships to Kafka
// into Elasticsearch.
package logkeeper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/segmentio/kafka-go"
	log "github.com/sirupsen/logrus"

	"redactor/pkg/models"
)

var ErrBadEntry = errors.New("malformed log entry")

// Reader is satisfied by *kafka.Reader.
type Reader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

// Indexer stores body as document id of index.
type Indexer interface {
	Index(ctx context.Context, index, id string, body []byte) error
}

type Keeper struct {
	r       Reader
	idx     Indexer
	index   string
	workers int
}

func New(r Reader, idx Indexer, index string, workers int) *Keeper {
	if workers < 1 {
		workers = 1
	}
	return &Keeper{r: r, idx: idx, index: index, workers: workers}
}

// DocumentID identifies an entry across services.
func DocumentID(entry models.LogEntry) string {
	return entry.Service + entry.RequestID
}

// Run consumes log entries until ctx is cancelled or the reader is closed.
func (k *Keeper) Run(ctx context.Context) {
	jobs := make(chan kafka.Message, k.workers*5) // buffer is needed to increase throughput
	var wg sync.WaitGroup
	wg.Add(k.workers)
	for workerID := 0; workerID < k.workers; workerID++ {
		go func(id int) {
			defer wg.Done()
			k.worker(ctx, jobs, id)
		}(workerID)
	}

	log.Info("[logkeeper] accepting logs...")
loop:
	for {
		msg, err := k.r.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) || ctx.Err() != nil {
				break
			}
			log.Errorf("[logkeeper] failed to read message from Kafka: %v", err)
			continue
		}
		log.Debugf("[logkeeper] received message: %s", string(msg.Value))

		select {
		case jobs <- msg:
		case <-ctx.Done():
			break loop
		}
	}

	close(jobs)
	wg.Wait()
}

func (k *Keeper) worker(ctx context.Context, jobs <-chan kafka.Message, workerID int) {
	for {
		select {
		case <-ctx.Done():
			log.Infof("[logkeeper][workerID:%d] context cancelled, exiting worker", workerID)
			return

		case msg, ok := <-jobs:
			if !ok {
				log.Infof("[logkeeper][workerID:%d] jobs channel closed, exiting worker", workerID)
				return
			}

			entry, err := k.handle(ctx, msg)
			if err != nil {
				log.Errorf("[logkeeper][workerID:%d] %v", workerID, err)
				continue
			}
			log.Infof("[logkeeper][workerID:%d][%s] log entry indexed", workerID, shorten(entry.RequestID))
		}
	}
}

func (k *Keeper) handle(ctx context.Context, msg kafka.Message) (models.LogEntry, error) {
	var entry models.LogEntry
	if err := json.Unmarshal(msg.Value, &entry); err != nil {
		return entry, fmt.Errorf("%w: %v", ErrBadEntry, err)
	}

	if err := k.idx.Index(ctx, k.index, DocumentID(entry), msg.Value); err != nil {
		return entry, fmt.Errorf("failed to index document: %w", err)
	}

	return entry, nil
}

func shorten(s string) string {
	if len(s) > 6 {
		return s[:6] + "..."
	}
	return s
}
