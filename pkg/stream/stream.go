// Package stream moderates comments flowing through Kafka: every comment read
// from the input topic is written to the output topic with its text redacted.
package stream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"sync"

	"github.com/gofrs/uuid"
	"github.com/segmentio/kafka-go"
	log "github.com/sirupsen/logrus"

	"redactor/pkg/filter"
	"redactor/pkg/models"
)

// RedactionsHeader is the Kafka header holding the number of replaced terms.
const RedactionsHeader = "redactions"

var ErrBadMessage = errors.New("malformed comment message")

// Reader is satisfied by *kafka.Reader.
type Reader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

// Writer is satisfied by *kafka.Writer.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

type Pipeline struct {
	r       Reader
	w       Writer
	f       *filter.Filter
	workers int
}

func New(r Reader, w Writer, f *filter.Filter, workers int) *Pipeline {
	if workers < 1 {
		workers = 1
	}
	return &Pipeline{r: r, w: w, f: f, workers: workers}
}

// Run reads comments until ctx is cancelled or the reader is closed, then
// waits for the workers to exit.
func (p *Pipeline) Run(ctx context.Context) {
	jobs := make(chan kafka.Message, p.workers*5) // buffer is needed to increase throughput
	var wg sync.WaitGroup
	wg.Add(p.workers)
	for workerID := 0; workerID < p.workers; workerID++ {
		go func(id int) {
			defer wg.Done()
			p.worker(ctx, jobs, id)
		}(workerID)
	}

	log.Info("[stream] accepting comments...")
loop:
	for {
		msg, err := p.r.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) || ctx.Err() != nil {
				break
			}
			log.Errorf("[stream] failed to read message from Kafka: %v", err)
			continue
		}
		log.Debugf("[stream] received message at offset %d", msg.Offset)

		select {
		case jobs <- msg:
		case <-ctx.Done():
			break loop
		}
	}

	close(jobs)
	wg.Wait()
	log.Info("[stream] stopped")
}

func (p *Pipeline) worker(ctx context.Context, jobs <-chan kafka.Message, workerID int) {
	for {
		select {
		case <-ctx.Done():
			log.Infof("[stream][workerID:%d] context cancelled, exiting worker", workerID)
			return

		case msg, ok := <-jobs:
			if !ok {
				log.Infof("[stream][workerID:%d] jobs channel closed, exiting worker", workerID)
				return
			}

			if err := p.process(ctx, msg); err != nil {
				log.Errorf("[stream][workerID:%d] offset %d: %v", workerID, msg.Offset, err)
				continue
			}
		}
	}
}

// process redacts one comment message and forwards it.
func (p *Pipeline) process(ctx context.Context, msg kafka.Message) error {
	var comment models.Comment
	if err := json.Unmarshal(msg.Value, &comment); err != nil {
		return fmt.Errorf("%w: %v", ErrBadMessage, err)
	}

	text, n := p.f.Redact(comment.Text)
	comment.Text = text

	value, err := json.Marshal(comment)
	if err != nil {
		return err
	}

	key := msg.Key
	if comment.ID != uuid.Nil {
		key = []byte(comment.ID.String())
	}

	out := kafka.Message{
		Key:     key,
		Value:   value,
		Headers: []kafka.Header{{Key: RedactionsHeader, Value: []byte(strconv.Itoa(n))}},
	}
	if err := p.w.WriteMessages(ctx, out); err != nil {
		return fmt.Errorf("failed to write comment %v: %w", comment.ID, err)
	}
	log.Debugf("[stream] comment %v forwarded, %d terms redacted", comment.ID, n)

	return nil
}
