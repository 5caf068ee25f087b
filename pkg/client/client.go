// Package client builds franz-go clients for the clusters in the config.
package client

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/pkg/sasl"
	"github.com/twmb/franz-go/pkg/sasl/plain"
	"github.com/twmb/franz-go/pkg/sasl/scram"
	"go.uber.org/zap"

	"github.com/birdayz/morse/pkg/config"
)

// Client wraps a franz-go kgo.Client and kadm.Client.
type Client struct {
	KGO   *kgo.Client
	Admin *kadm.Client
}

// Close closes both the admin and kgo clients.
func (c *Client) Close() {
	if c.Admin != nil {
		c.Admin.Close()
	}
	if c.KGO != nil {
		c.KGO.Close()
	}
}

// New creates a new Client from a Cluster config. A nil logger is
// replaced by a no-op logger.
func New(cluster *config.Cluster, log *zap.Logger, opts ...kgo.Opt) (*Client, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if len(cluster.Brokers) == 0 {
		return nil, fmt.Errorf("cluster %q has no brokers", cluster.Name)
	}

	baseOpts := []kgo.Opt{
		kgo.SeedBrokers(cluster.Brokers...),
		kgo.ClientID("morse"),
		kgo.DialTimeout(10 * time.Second),
		kgo.RequestTimeoutOverhead(10 * time.Second),
		kgo.ConnIdleTimeout(60 * time.Second),
	}

	tlsCfg, err := buildTLS(cluster, log)
	if err != nil {
		return nil, fmt.Errorf("TLS config: %w", err)
	}
	if tlsCfg != nil {
		baseOpts = append(baseOpts, kgo.DialTLSConfig(tlsCfg))
	}

	saslMech, err := buildSASL(cluster)
	if err != nil {
		return nil, fmt.Errorf("SASL config: %w", err)
	}
	if saslMech != nil {
		if strings.EqualFold(cluster.SASL.Mechanism, "PLAIN") && tlsCfg == nil {
			log.Warn("SASL PLAIN without TLS sends credentials in cleartext", zap.String("cluster", cluster.Name))
		}
		baseOpts = append(baseOpts, kgo.SASL(saslMech))
	}

	baseOpts = append(baseOpts, opts...)

	cl, err := kgo.NewClient(baseOpts...)
	if err != nil {
		return nil, fmt.Errorf("create kgo client: %w", err)
	}

	log.Debug("created kafka client", zap.Strings("brokers", cluster.Brokers))

	return &Client{
		KGO:   cl,
		Admin: kadm.NewClient(cl),
	}, nil
}

// TopicNames returns all topic names, sorted.
func (c *Client) TopicNames(ctx context.Context) ([]string, error) {
	topics, err := c.Admin.ListTopics(ctx)
	if err != nil {
		return nil, err
	}
	names := topics.Names()
	sort.Strings(names)
	return names, nil
}

// EnsureTopic creates topic unless it already exists.
func (c *Client) EnsureTopic(ctx context.Context, topic string, partitions int32, replicationFactor int16) (created bool, err error) {
	topics, err := c.Admin.ListTopics(ctx, topic)
	if err != nil {
		return false, fmt.Errorf("list topics: %w", err)
	}
	if d, ok := topics[topic]; ok && d.Err == nil {
		return false, nil
	}

	resp, err := c.Admin.CreateTopic(ctx, partitions, replicationFactor, nil, topic)
	if err != nil {
		return false, fmt.Errorf("create topic %s: %w", topic, err)
	}
	if resp.Err != nil {
		return false, fmt.Errorf("create topic %s: %w", topic, resp.Err)
	}
	return true, nil
}

// EndOffsets returns the current end offset of every partition of topic.
// Partitions whose offset could not be listed are left out.
func (c *Client) EndOffsets(ctx context.Context, topic string) (map[int32]int64, error) {
	offsets, err := c.Admin.ListEndOffsets(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("list end offsets: %w", err)
	}
	m := make(map[int32]int64)
	offsets.Each(func(lo kadm.ListedOffset) {
		if lo.Topic == topic && lo.Err == nil {
			m[lo.Partition] = lo.Offset
		}
	})
	return m, nil
}

func buildTLS(cluster *config.Cluster, log *zap.Logger) (*tls.Config, error) {
	switch {
	case cluster.TLS != nil:
	case cluster.SecurityProtocol == "SSL", cluster.SecurityProtocol == "SASL_SSL":
		return &tls.Config{MinVersion: tls.VersionTLS12}, nil
	default:
		return nil, nil
	}

	t := cluster.TLS
	cfg := &tls.Config{
		MinVersion:         tls.VersionTLS12,
		InsecureSkipVerify: t.Insecure,
	}
	if t.Insecure {
		log.Warn("TLS certificate verification is disabled", zap.String("cluster", cluster.Name))
	}

	if t.Cafile != "" {
		pem, err := os.ReadFile(t.Cafile)
		if err != nil {
			return nil, fmt.Errorf("read CA file: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("no certificates found in CA file %s", t.Cafile)
		}
		cfg.RootCAs = pool
	}

	if (t.Clientfile == "") != (t.Clientkeyfile == "") {
		return nil, fmt.Errorf("client certificate needs both clientfile and clientkeyfile")
	}
	if t.Clientfile != "" {
		cert, err := tls.LoadX509KeyPair(t.Clientfile, t.Clientkeyfile)
		if err != nil {
			return nil, fmt.Errorf("load client cert: %w", err)
		}
		cfg.Certificates = []tls.Certificate{cert}
	}

	return cfg, nil
}

func buildSASL(cluster *config.Cluster) (sasl.Mechanism, error) {
	s := cluster.SASL
	if s == nil {
		return nil, nil
	}
	scramAuth := func(context.Context) (scram.Auth, error) {
		return scram.Auth{User: s.Username, Pass: s.Password}, nil
	}

	switch strings.ToUpper(s.Mechanism) {
	case "PLAIN":
		return plain.Auth{User: s.Username, Pass: s.Password}.AsMechanism(), nil
	case "SCRAM-SHA-256":
		return scram.Sha256(scramAuth), nil
	case "SCRAM-SHA-512":
		return scram.Sha512(scramAuth), nil
	case "OAUTHBEARER":
		return oauthMechanism(cluster), nil
	case "AWS_MSK_IAM":
		return awsMSKMechanism(), nil
	default:
		return nil, fmt.Errorf("unsupported SASL mechanism: %s", s.Mechanism)
	}
}
