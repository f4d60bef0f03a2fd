package kafka

import (
	"context"
	"crypto/tls"
	"fmt"

	"github.com/twmb/franz-go/pkg/kgo"

	berr "github.com/next-trace/scg-event-hub/contract/errors"
)

// Concrete franz-go based constructor and writer wrapper.

type Config struct {
	Brokers     []string
	TLS         *tls.Config
	Acks        *kgo.Acks
	Idempotent  bool
	ClientID    string
	Compression []kgo.CompressionCodec
}

type kgoWriter struct{ cl *kgo.Client }

func (w kgoWriter) Write(ctx context.Context, topic string, key, value []byte, headers map[string]string) error {
	rec := &kgo.Record{Topic: topic, Key: key, Value: value}
	if len(headers) > 0 {
		rec.Headers = make([]kgo.RecordHeader, 0, len(headers))
		for k, v := range headers {
			rec.Headers = append(rec.Headers, kgo.RecordHeader{Key: k, Value: []byte(v)})
		}
	}

	return w.cl.ProduceSync(ctx, rec).FirstErr()
}

// NewWithKgo builds a franz-go client based Adapter. The returned cleanup should be called to close the client.
func NewWithKgo(cfg Config) (*Adapter, func(), error) {
	if len(cfg.Brokers) == 0 {
		return nil, nil, fmt.Errorf("%w: kafka brokers required", berr.ErrForwardNotConfigured)
	}

	opts := []kgo.Opt{kgo.SeedBrokers(cfg.Brokers...)}
	if cfg.ClientID != "" {
		opts = append(opts, kgo.ClientID(cfg.ClientID))
	}

	if cfg.TLS != nil {
		opts = append(opts, kgo.DialTLSConfig(cfg.TLS))
	}

	if !cfg.Idempotent {
		opts = append(opts, kgo.DisableIdempotentWrite())
	}

	if len(cfg.Compression) > 0 {
		opts = append(opts, kgo.ProducerBatchCompression(cfg.Compression...))
	}

	if cfg.Acks != nil {
		opts = append(opts, kgo.RequiredAcks(*cfg.Acks))
	}

	cl, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: kafka client init: %w", berr.ErrForwardFailed, err)
	}

	ad := New(kgoWriter{cl: cl})
	cleanup := func() { cl.Close() }

	return ad, cleanup, nil
}
