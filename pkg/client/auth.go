package client

import (
	"context"
	"net/http"
	"sync"
	"time"

	aws_config "github.com/aws/aws-sdk-go-v2/config"
	"github.com/twmb/franz-go/pkg/sasl"
	"github.com/twmb/franz-go/pkg/sasl/aws"
	"github.com/twmb/franz-go/pkg/sasl/oauth"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/birdayz/morse/pkg/config"
)

const tokenRefreshBuffer = 20 * time.Second

func oauthMechanism(cluster *config.Cluster) sasl.Mechanism {
	s := cluster.SASL
	if s.Token != "" {
		return oauth.Oauth(func(context.Context) (oauth.Auth, error) {
			return oauth.Auth{Token: s.Token}, nil
		})
	}

	src := newTokenSource(&clientcredentials.Config{
		ClientID:     s.ClientID,
		ClientSecret: s.ClientSecret,
		TokenURL:     s.TokenURL,
		Scopes:       s.Scopes,
	})
	return oauth.Oauth(func(ctx context.Context) (oauth.Auth, error) {
		tok, err := src.token(ctx)
		if err != nil {
			return oauth.Auth{}, err
		}
		return oauth.Auth{Token: tok}, nil
	})
}

// awsMSKMechanism signs with SigV4 using the default AWS credential chain.
func awsMSKMechanism() sasl.Mechanism {
	return aws.ManagedStreamingIAM(func(ctx context.Context) (aws.Auth, error) {
		cfg, err := aws_config.LoadDefaultConfig(ctx)
		if err != nil {
			return aws.Auth{}, err
		}
		creds, err := cfg.Credentials.Retrieve(ctx)
		if err != nil {
			return aws.Auth{}, err
		}
		return aws.Auth{
			AccessKey:    creds.AccessKeyID,
			SecretKey:    creds.SecretAccessKey,
			SessionToken: creds.SessionToken,
		}, nil
	})
}

// tokenSource caches a client-credentials token until shortly before it
// expires. Safe for concurrent use.
type tokenSource struct {
	cfg        *clientcredentials.Config
	httpClient *http.Client
	now        func() time.Time

	mu        sync.Mutex
	cached    string
	replaceAt time.Time
}

func newTokenSource(cfg *clientcredentials.Config) *tokenSource {
	return &tokenSource{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		now:        time.Now,
	}
}

func (ts *tokenSource) token(ctx context.Context) (string, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if ts.cached != "" && ts.now().Before(ts.replaceAt) {
		return ts.cached, nil
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, ts.httpClient)
	tok, err := ts.cfg.Token(ctx)
	if err != nil {
		return "", err
	}

	ts.cached = tok.AccessToken
	ts.replaceAt = tok.Expiry.Add(-tokenRefreshBuffer)
	return ts.cached, nil
}
