package client

import (
	"context"
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/birdayz/morse/pkg/config"
)

func TestNew_NoBrokers(t *testing.T) {
	_, err := New(&config.Cluster{Name: "empty"}, nil)
	require.Error(t, err)
}

func TestNew_UnsupportedSASL(t *testing.T) {
	_, err := New(&config.Cluster{
		Brokers: []string{"localhost:9092"},
		SASL:    &config.SASL{Mechanism: "KERBEROS"},
	}, zap.NewNop())
	require.Error(t, err)
}

func TestBuildTLS(t *testing.T) {
	tests := []struct {
		name     string
		cluster  *config.Cluster
		wantNil  bool
		insecure bool
	}{
		{name: "plain", cluster: &config.Cluster{}, wantNil: true},
		{name: "sasl_ssl", cluster: &config.Cluster{SecurityProtocol: "SASL_SSL"}},
		{name: "ssl", cluster: &config.Cluster{SecurityProtocol: "SSL"}},
		{name: "explicit block", cluster: &config.Cluster{TLS: &config.TLS{Insecure: true}}, insecure: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := buildTLS(tt.cluster, zap.NewNop())
			require.NoError(t, err)
			if tt.wantNil {
				require.Nil(t, cfg)
				return
			}
			require.NotNil(t, cfg)
			require.Equal(t, uint16(tls.VersionTLS12), cfg.MinVersion)
			require.Equal(t, tt.insecure, cfg.InsecureSkipVerify)
		})
	}
}

func TestBuildTLS_CAFile_NotFound(t *testing.T) {
	_, err := buildTLS(&config.Cluster{
		TLS: &config.TLS{Cafile: "/nonexistent/ca.pem"},
	}, zap.NewNop())
	require.Error(t, err)
}

func TestBuildTLS_CAFile_NoCerts(t *testing.T) {
	ca := filepath.Join(t.TempDir(), "ca.pem")
	require.NoError(t, os.WriteFile(ca, []byte("not a certificate"), 0600))

	_, err := buildTLS(&config.Cluster{TLS: &config.TLS{Cafile: ca}}, zap.NewNop())
	require.ErrorContains(t, err, "no certificates")
}

func TestBuildTLS_ClientKeyWithoutCert(t *testing.T) {
	_, err := buildTLS(&config.Cluster{TLS: &config.TLS{Clientkeyfile: "key.pem"}}, zap.NewNop())
	require.Error(t, err)
}

func TestBuildSASL(t *testing.T) {
	tests := []struct {
		mechanism string
		want      string
	}{
		{"PLAIN", "PLAIN"},
		{"plain", "PLAIN"},
		{"SCRAM-SHA-256", "SCRAM-SHA-256"},
		{"SCRAM-SHA-512", "SCRAM-SHA-512"},
		{"OAUTHBEARER", "OAUTHBEARER"},
		{"AWS_MSK_IAM", "AWS_MSK_IAM"},
	}
	for _, tt := range tests {
		t.Run(tt.mechanism, func(t *testing.T) {
			mech, err := buildSASL(&config.Cluster{
				SASL: &config.SASL{Mechanism: tt.mechanism, Username: "user", Password: "pass", Token: "tok"},
			})
			require.NoError(t, err)
			require.NotNil(t, mech)
			require.Equal(t, tt.want, mech.Name())
		})
	}
}

func TestBuildSASL_None(t *testing.T) {
	mech, err := buildSASL(&config.Cluster{})
	require.NoError(t, err)
	require.Nil(t, mech)
}

func TestBuildSASL_Unsupported(t *testing.T) {
	_, err := buildSASL(&config.Cluster{SASL: &config.SASL{Mechanism: "KERBEROS"}})
	require.Error(t, err)
}

func TestTokenSourceCaches(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"abc","token_type":"bearer","expires_in":3600}`))
	}))
	defer srv.Close()

	ts := newTokenSource(&clientcredentials.Config{
		ClientID:     "id",
		ClientSecret: "secret",
		TokenURL:     srv.URL,
	})

	ctx := context.Background()
	tok, err := ts.token(ctx)
	require.NoError(t, err)
	require.Equal(t, "abc", tok)

	tok, err = ts.token(ctx)
	require.NoError(t, err)
	require.Equal(t, "abc", tok)
	require.Equal(t, int32(1), calls.Load())

	ts.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = ts.token(ctx)
	require.NoError(t, err)
	require.Equal(t, int32(2), calls.Load())
}
