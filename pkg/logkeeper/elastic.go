package logkeeper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/elastic/go-elasticsearch/v8"
)

var ErrIndexRejected = errors.New("elasticsearch rejected document")

// ESIndexer is the Elasticsearch backed Indexer.
type ESIndexer struct {
	es *elasticsearch.Client
}

// NewESIndexer connects to nodes through rt, http.DefaultTransport when rt is
// nil.
func NewESIndexer(nodes []string, rt http.RoundTripper) (*ESIndexer, error) {
	if rt == nil {
		rt = http.DefaultTransport
	}
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: nodes,
		Transport: rt,
	})
	if err != nil {
		return nil, err
	}
	return &ESIndexer{es: es}, nil
}

func (i *ESIndexer) Index(ctx context.Context, index, id string, body []byte) error {
	res, err := i.es.Index(
		index,
		bytes.NewReader(body),
		i.es.Index.WithDocumentID(id),
		i.es.Index.WithContext(ctx),
	)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("%w: %s", ErrIndexRejected, res.Status())
	}
	return nil
}
