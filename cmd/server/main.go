package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/segmentio/kafka-go"
	log "github.com/sirupsen/logrus"

	"redactor/pkg/api"
	"redactor/pkg/dictionary"
	"redactor/pkg/filter"
	"redactor/pkg/storage"
	"redactor/pkg/storage/memdb"
	"redactor/pkg/storage/mongo"
	"redactor/pkg/storage/postgres"
	"redactor/pkg/stream"
)

type Config struct {
	ServiceName string `toml:"serviceName"`
	HTTPAddr    string `toml:"httpAddr"`
	LogLevel    string `toml:"logLevel"`

	Dictionary DictionaryConfig `toml:"dictionary"`
	Filter     FilterConfig     `toml:"filter"`
	Kafka      KafkaConfig      `toml:"kafka"`
}

type DictionaryConfig struct {
	Files     []string `toml:"files"`
	JSONFiles []string `toml:"jsonFiles"`
	URLs      []string `toml:"urls"`

	// Store is one of "", "memory", "mongo", "postgres".
	Store string `toml:"store"`
	// Seed copies the terms of Files, JSONFiles and URLs into Store.
	Seed bool `toml:"seed"`
}

type FilterConfig struct {
	Placeholder  string `toml:"placeholder"`
	LongestMatch bool   `toml:"longestMatch"`
}

type KafkaConfig struct {
	// Access log shipping.
	Addr     string `toml:"addr"`
	LogTopic string `toml:"logTopic"`
	Batch    int    `toml:"batch"`

	// Comment moderation pipeline.
	Brokers        []string `toml:"brokers"`
	GroupID        string   `toml:"groupID"`
	CommentsTopic  string   `toml:"commentsTopic"`
	ModeratedTopic string   `toml:"moderatedTopic"`
	Workers        int      `toml:"workers"`
}

func main() {
	var (
		configPath string
		wordsPath  string
		httpAddr   string
		logLevel   string
		kafkaAddr  string
		kafkaTopic string
		kafkaBatch int
	)

	flag.StringVar(&configPath, "servconf", "cmd/server/config.toml", "Path to TOML config file")
	flag.StringVar(&wordsPath, "words", "", "Path to a banned terms file, one term per line.")
	flag.StringVar(&httpAddr, "http", "", "HTTP server address in the form 'host:port'.")
	flag.StringVar(&logLevel, "log", "", "Log level: debug, info, warn, error.")
	flag.StringVar(&kafkaAddr, "kafka", "", "Kafka server address in the form 'host:port'.")
	flag.StringVar(&kafkaTopic, "topic", "", "Kafka topic for access logs.")
	flag.IntVar(&kafkaBatch, "batch", 0, "Kafka batch size.")
	flag.Parse()

	cfg := Config{HTTPAddr: ":8055", LogLevel: "info"}
	if _, err := toml.DecodeFile(configPath, &cfg); err != nil {
		log.Fatalf("[server] failed to load config file %s: %v", configPath, err)
	}

	// Override config with flags if set
	if wordsPath != "" {
		cfg.Dictionary.Files = append(cfg.Dictionary.Files, wordsPath)
	}
	if httpAddr != "" {
		cfg.HTTPAddr = httpAddr
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if kafkaAddr != "" {
		cfg.Kafka.Addr = kafkaAddr
	}
	if kafkaTopic != "" {
		cfg.Kafka.LogTopic = kafkaTopic
	}
	if kafkaBatch != 0 {
		cfg.Kafka.Batch = kafkaBatch
	}

	if !strings.Contains(cfg.HTTPAddr, ":") {
		log.Warn("[server] use ':' before port number, e.g. ':8080'")
	}
	setLogLevel(cfg.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	f := buildFilter(ctx, cfg)

	var logWriter api.MessageWriter
	if cfg.Kafka.Addr != "" && cfg.Kafka.LogTopic != "" {
		kw := &kafka.Writer{
			Addr:      kafka.TCP(cfg.Kafka.Addr),
			Topic:     cfg.Kafka.LogTopic,
			BatchSize: cfg.Kafka.Batch,
		}
		defer kw.Close()
		if err := createTopic(cfg.Kafka.Addr, cfg.Kafka.LogTopic); err != nil {
			log.Warnf("[server] failed to create Kafka topic: %v", err)
		}
		logWriter = kw
	} else {
		log.Warnf("[server] kafka was not configured, logs will not be sent to Kafka")
	}

	var wg sync.WaitGroup
	if k := cfg.Kafka; len(k.Brokers) > 0 && k.CommentsTopic != "" && k.ModeratedTopic != "" {
		r := kafka.NewReader(kafka.ReaderConfig{
			Brokers:  k.Brokers,
			Topic:    k.CommentsTopic,
			GroupID:  k.GroupID,
			MinBytes: 10e3, // 10KB
			MaxBytes: 10e6, // 10MB
		})
		w := &kafka.Writer{
			Addr:     kafka.TCP(k.Brokers...),
			Topic:    k.ModeratedTopic,
			Balancer: &kafka.Hash{},
		}

		wg.Add(1)
		go func() {
			defer func() {
				r.Close()
				w.Close()
				wg.Done()
			}()
			stream.New(r, w, f, k.Workers).Run(ctx)
		}()
	}

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: api.New(cfg.ServiceName, f, logWriter).Router(),
	}

	go func() {
		log.Infof("[server] starting on port %v", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[server] failed to start: %v", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	cancel()
	wg.Wait()

	shutdownCtx, shutdownRelease := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownRelease()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("[server] HTTP server shutdown error: %v", err)
	} else {
		log.Info("[server] HTTP server shut down gracefully")
	}
}

// buildFilter loads the dictionary and builds the filter shared by every
// request. Unavailable sources are logged and skipped.
func buildFilter(ctx context.Context, cfg Config) *filter.Filter {
	var sources []dictionary.Source
	for _, path := range cfg.Dictionary.Files {
		sources = append(sources, dictionary.FileSource{Path: path})
	}
	for _, path := range cfg.Dictionary.JSONFiles {
		sources = append(sources, dictionary.JSONSource{Path: path})
	}
	for _, url := range cfg.Dictionary.URLs {
		sources = append(sources, dictionary.HTTPSource{URL: url})
	}

	loadCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	store, closeStore, err := openStore(loadCtx, cfg.Dictionary.Store)
	if err != nil {
		log.Errorf("[server] term store %q unavailable: %v", cfg.Dictionary.Store, err)
	}
	if store != nil {
		defer closeStore()
	}
	terms := loadTerms(loadCtx, sources, store, cfg.Dictionary.Seed)

	var opts []filter.Option
	if cfg.Filter.Placeholder != "" {
		opts = append(opts, filter.WithPlaceholder(cfg.Filter.Placeholder))
	}
	if cfg.Filter.LongestMatch {
		opts = append(opts, filter.WithLongestMatch())
	}

	f := filter.New(terms, opts...)
	if f.Len() == 0 {
		log.Warn("[server] dictionary is empty, text will pass through unfiltered")
	}
	log.Infof("[server] filter ready with %d terms", f.Len())

	return f
}

// loadTerms reads sources once. With seed set, their terms are copied into
// store before the store's own terms are added.
func loadTerms(ctx context.Context, sources []dictionary.Source, store storage.Store, seed bool) []string {
	terms := dictionary.Load(ctx, sources...)
	if store == nil {
		return terms
	}

	if seed {
		if err := store.AddTerms(ctx, terms); err != nil {
			log.Errorf("[server] failed to seed term store: %v", err)
		} else {
			log.Infof("[server] seeded term store with %d terms", len(terms))
		}
	}
	return append(terms, dictionary.Load(ctx, store)...)
}

// openStore connects the configured term store. The returned func releases it.
func openStore(ctx context.Context, kind string) (storage.Store, func(), error) {
	switch kind {
	case "":
		return nil, nil, nil

	case "memory":
		return memdb.New(), func() {}, nil

	case "mongo":
		conf, err := mongo.NewConfig()
		if err != nil {
			return nil, nil, err
		}
		db, err := mongo.New(ctx, conf)
		if err != nil {
			return nil, nil, errors.Join(storage.ErrConnectDB, err)
		}
		if err := db.Ping(ctx); err != nil {
			db.Close(ctx)
			return nil, nil, errors.Join(storage.ErrDBNotResponding, err)
		}
		return db, func() { db.Close(context.Background()) }, nil

	case "postgres":
		conf, err := postgres.NewConfig()
		if err != nil {
			return nil, nil, err
		}
		db, err := postgres.New(ctx, conf.ConString())
		if err != nil {
			return nil, nil, errors.Join(storage.ErrConnectDB, err)
		}
		if err := db.Ping(ctx); err != nil {
			db.Close()
			return nil, nil, errors.Join(storage.ErrDBNotResponding, err)
		}
		log.Infof("[server] connected to postgres: %s", conf)
		return db, db.Close, nil
	}

	return nil, nil, errors.New("unknown store " + kind)
}

func setLogLevel(level string) {
	switch strings.ToLower(level) {
	case "debug":
		log.SetLevel(log.DebugLevel)
	case "info":
		log.SetLevel(log.InfoLevel)
	case "warn":
		log.SetLevel(log.WarnLevel)
	case "error":
		log.SetLevel(log.ErrorLevel)
	}
}

func createTopic(broker, topic string) error {
	conn, err := kafka.DialContext(context.Background(), "tcp", broker)
	if err != nil {
		return err
	}
	defer conn.Close()

	return conn.CreateTopics(kafka.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	})
}
