package nats

import (
	"context"
	"fmt"
	"sync"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/pipemq/pipemq/core"
	"github.com/pipemq/pipemq/source"
)

func init() {
	source.Register("nats", func(cfg source.Config) (core.Source, error) {
		return New(cfg.URL, cfg.Queue, cfg.Group, optsFromConfig(cfg)...)
	})
}

// Source implements core.Source for NATS JetStream.
//
// Design decisions:
//   - One NATS connection per Source instance.
//   - JetStream provides persistence and at-least-once delivery; a
//     failed pipeline leaves the message unacked and the server
//     redelivers after AckWait.
//   - Provision creates (or updates) the stream for the subject; the
//     durable consumer is created when consumption starts.
//   - Qos maps to the consumer's MaxAckPending.
type Source struct {
	conn    *nats.Conn
	js      jetstream.JetStream
	subject string
	group   string
	opts    options

	mu       sync.Mutex
	stream   jetstream.Stream
	prefetch int
	closed   bool
}

// New creates a NATS JetStream Source. url is a standard NATS URL
// (nats://host:port); subject is the subject to consume.
func New(url, subject, group string, fns ...Option) (*Source, error) {
	opts := defaults()
	for _, fn := range fns {
		fn(&opts)
	}
	if subject == "" {
		return nil, fmt.Errorf("pipemq/nats: a subject is required; the server cannot assign one")
	}

	nc, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("pipemq/nats: connect to %q: %w", url, err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("pipemq/nats: init jetstream: %w", err)
	}

	return &Source{
		conn:    nc,
		js:      js,
		subject: subject,
		group:   group,
		opts:    opts,
	}, nil
}

// Provision creates or updates the stream backing the subject and
// returns the subject as the queue identity.
func (s *Source) Provision(ctx context.Context) (string, error) {
	streamName := sanitizeStreamName(s.subject)
	stream, err := s.js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:      streamName,
		Subjects:  []string{s.subject},
		MaxMsgs:   s.opts.maxMsgs,
		MaxBytes:  s.opts.maxBytes,
		MaxAge:    s.opts.maxAge,
		Replicas:  s.opts.replicas,
		Retention: s.opts.retention,
		Storage:   s.opts.storage,
	})
	if err != nil {
		return "", fmt.Errorf("pipemq/nats: create stream %q: %w", streamName, err)
	}

	s.mu.Lock()
	s.stream = stream
	s.mu.Unlock()
	return s.subject, nil
}

// Qos caps the number of unacknowledged deliveries outstanding at
// once, via the consumer's MaxAckPending.
func (s *Source) Qos(prefetch int) error {
	s.mu.Lock()
	s.prefetch = prefetch
	s.mu.Unlock()
	return nil
}

// Consume creates (or updates) the durable consumer and delivers
// messages until the context is cancelled.
func (s *Source) Consume(ctx context.Context) (<-chan core.Delivery, error) {
	s.mu.Lock()
	stream := s.stream
	prefetch := s.prefetch
	s.mu.Unlock()
	if stream == nil {
		return nil, fmt.Errorf("pipemq/nats: consume before provision")
	}

	consumerName := s.group
	if consumerName == "" {
		consumerName = "pipemq-" + sanitizeStreamName(s.subject)
	}

	cons, err := stream.CreateOrUpdateConsumer(ctx, jetstream.ConsumerConfig{
		Durable:       consumerName,
		AckPolicy:     jetstream.AckExplicitPolicy,
		AckWait:       s.opts.ackWait,
		MaxDeliver:    s.opts.maxDeliver,
		MaxAckPending: prefetch,
	})
	if err != nil {
		return nil, fmt.Errorf("pipemq/nats: create consumer %q: %w", consumerName, err)
	}

	out := make(chan core.Delivery)
	cc, err := cons.Consume(func(msg jetstream.Msg) {
		select {
		case out <- &delivery{msg: msg}:
		case <-ctx.Done():
		}
	})
	if err != nil {
		return nil, fmt.Errorf("pipemq/nats: start consume on %q: %w", consumerName, err)
	}

	// The channel is left open: the consumer observes cancellation
	// through its own context, and closing here could race a callback
	// mid-send.
	go func() {
		<-ctx.Done()
		cc.Stop()
	}()
	return out, nil
}

// Err reports why the delivery stream ended. JetStream consumption
// only stops on cancellation, so this is always nil.
func (s *Source) Err() error { return nil }

// Close drains the NATS connection.
func (s *Source) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.conn.Close()
	return nil
}

// sanitizeStreamName converts a subject pattern to a valid stream name
// by replacing special characters.
func sanitizeStreamName(subject string) string {
	buf := make([]byte, len(subject))
	for i := 0; i < len(subject); i++ {
		c := subject[i]
		if c == '.' || c == '*' || c == '>' {
			buf[i] = '-'
			continue
		}
		buf[i] = c
	}
	return string(buf)
}

// optsFromConfig maps source.Config onto plugin options.
func optsFromConfig(cfg source.Config) []Option {
	if cfg.Extra == nil {
		return nil
	}
	var opts []Option
	if n, ok := cfg.Extra["max_msgs"].(int64); ok {
		opts = append(opts, WithMaxMessages(n))
	}
	if n, ok := cfg.Extra["max_deliver"].(int); ok {
		opts = append(opts, WithMaxDeliver(n))
	}
	return opts
}
