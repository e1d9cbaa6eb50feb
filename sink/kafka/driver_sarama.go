// Package kafka publishes each long row as a JSON message.
package kafka

import (
	"errors"
	"fmt"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"

	"tidyseries/internal/tidy"
	"tidyseries/sink"
)

type Config struct {
	Brokers []string
	Topic   string
	Acks    int16 // 0,1,-1
}

var newProducer = func(brokers []string, sc *sarama.Config) (sarama.SyncProducer, error) {
	return sarama.NewSyncProducer(brokers, sc)
}

// driver buffers rows and publishes them on Close so a failed run
// publishes nothing.
type driver struct {
	cfg     Config
	p       sarama.SyncProducer
	pending []*sarama.ProducerMessage
	closed  bool
}

func (d *driver) Configure(c any) error {
	cfg, ok := c.(Config)
	if !ok {
		return fmt.Errorf("kafka-sink: want Config, got %T", c)
	}
	if len(cfg.Brokers) == 0 || cfg.Topic == "" {
		return errors.New("kafka-sink: brokers and topic are required")
	}
	d.cfg = cfg

	sc := sarama.NewConfig()
	sc.Producer.RequiredAcks = sarama.RequiredAcks(cfg.Acks)
	sc.Producer.Return.Successes = true
	var err error
	d.p, err = newProducer(cfg.Brokers, sc)
	return err
}

func (d *driver) Push(r tidy.LongRecord) error {
	if d.closed {
		return errors.New("kafka-sink: push after close")
	}
	val, err := json.Marshal(r)
	if err != nil {
		return err
	}
	d.pending = append(d.pending, &sarama.ProducerMessage{
		Topic: d.cfg.Topic,
		Key:   sarama.StringEncoder(r.CountryCode),
		Value: sarama.ByteEncoder(val),
	})
	return nil
}

func (d *driver) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	var sendErr error
	if len(d.pending) > 0 {
		sendErr = d.p.SendMessages(d.pending)
		d.pending = nil
	}
	return errors.Join(sendErr, d.p.Close())
}

func (d *driver) Abort() error {
	if d.closed {
		return nil
	}
	d.closed = true
	d.pending = nil
	return d.p.Close()
}

func (d *driver) Target() string { return "kafka topic " + d.cfg.Topic }

func init() { sink.Register("kafka", func() sink.Adapter { return &driver{} }) }
