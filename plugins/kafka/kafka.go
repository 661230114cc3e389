package kafka

import (
	"context"
	"fmt"
	"sync"

	"github.com/segmentio/kafka-go"

	"github.com/pipemq/pipemq/core"
	"github.com/pipemq/pipemq/source"
)

func init() {
	source.Register("kafka", func(cfg source.Config) (core.Source, error) {
		if cfg.Exchange != "" {
			return nil, fmt.Errorf("pipemq/kafka: exchange binding is not supported")
		}
		return New([]string{cfg.URL}, cfg.Queue, cfg.Group, optsFromConfig(cfg)...)
	})
}

// Source implements core.Source for Apache Kafka using segmentio/kafka-go.
//
// Design decisions:
//   - One kafka.Reader per Source, created when consumption starts.
//   - "Ack" is an offset commit; an unprocessed message is redelivered
//     after a group rebalance or restart.
//   - Qos maps to the reader's internal queue capacity, the closest
//     analogue of a prefetch hint.
//   - Topics are not declared: Provision is a passthrough.
type Source struct {
	brokers []string
	topic   string
	group   string
	opts    options

	mu        sync.Mutex
	reader    *kafka.Reader
	prefetch  int
	streamErr error
	closed    bool
}

// New creates a Kafka Source.
func New(brokers []string, topic, group string, fns ...Option) (*Source, error) {
	if len(brokers) == 0 || brokers[0] == "" {
		return nil, fmt.Errorf("pipemq/kafka: at least one broker address is required")
	}
	if topic == "" {
		return nil, fmt.Errorf("pipemq/kafka: a topic is required; the broker cannot assign one")
	}

	opts := defaults()
	for _, fn := range fns {
		fn(&opts)
	}

	return &Source{
		brokers: brokers,
		topic:   topic,
		group:   group,
		opts:    opts,
	}, nil
}

// Provision returns the topic as the queue identity. Kafka topics are
// managed by the cluster, so there is nothing to declare or bind here.
func (s *Source) Provision(context.Context) (string, error) {
	return s.topic, nil
}

// Qos caps the reader's internal fetch queue.
func (s *Source) Qos(prefetch int) error {
	s.mu.Lock()
	s.prefetch = prefetch
	s.mu.Unlock()
	return nil
}

// Consume creates the reader and fetches messages until the context is
// cancelled or the fetch loop fails.
func (s *Source) Consume(ctx context.Context) (<-chan core.Delivery, error) {
	cfg := kafka.ReaderConfig{
		Brokers:  s.brokers,
		Topic:    s.topic,
		GroupID:  s.group,
		MinBytes: s.opts.minBytes,
		MaxBytes: s.opts.maxBytes,
		MaxWait:  s.opts.maxWait,
	}
	if s.opts.dialer != nil {
		cfg.Dialer = s.opts.dialer
	}
	if s.group == "" {
		cfg.StartOffset = s.opts.startOffset
	}
	s.mu.Lock()
	if s.prefetch > 0 {
		cfg.QueueCapacity = s.prefetch
	}
	s.mu.Unlock()

	r := kafka.NewReader(cfg)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		r.Close()
		return nil, fmt.Errorf("pipemq/kafka: source is closed")
	}
	s.reader = r
	s.mu.Unlock()

	out := make(chan core.Delivery)
	go func() {
		defer close(out)
		for {
			raw, err := r.FetchMessage(ctx)
			if err != nil {
				if ctx.Err() == nil {
					s.mu.Lock()
					s.streamErr = fmt.Errorf("pipemq/kafka: fetch: %w", err)
					s.mu.Unlock()
				}
				return
			}
			select {
			case out <- &delivery{raw: raw, reader: r, ctx: ctx}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

// Err reports why the delivery stream ended, nil if it was a clean stop.
func (s *Source) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.streamErr
}

// Close closes the reader.
func (s *Source) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if s.reader != nil {
		if err := s.reader.Close(); err != nil {
			return fmt.Errorf("pipemq/kafka: close reader: %w", err)
		}
	}
	return nil
}

// optsFromConfig extracts options from the source.Config.Extra map.
func optsFromConfig(cfg source.Config) []Option {
	if cfg.Extra == nil {
		return nil
	}
	var opts []Option
	if v, ok := cfg.Extra["max_bytes"].(int); ok {
		opts = append(opts, WithMaxBytes(v))
	}
	if v, ok := cfg.Extra["start_offset"].(int64); ok {
		opts = append(opts, WithStartOffset(v))
	}
	return opts
}
