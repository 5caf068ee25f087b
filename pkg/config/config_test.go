package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_YAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config")
	err := os.WriteFile(path, []byte(`current-cluster: local
output: json
plain-menu: true
clusters:
  - name: local
    brokers:
      - localhost:9092
    SASL:
      mechanism: PLAIN
      username: admin
      password: secret
    TLS:
      cafile: /etc/ssl/ca.pem
      insecure: true
    security-protocol: SASL_SSL
`), 0644)
	require.NoError(t, err)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "local", cfg.CurrentCluster)
	require.Equal(t, "json", cfg.Output)
	require.True(t, cfg.PlainMenu)
	require.Equal(t, path, cfg.Path())
	require.Len(t, cfg.Clusters, 1)

	c := cfg.Clusters[0]
	require.Equal(t, "local", c.Name)
	require.Equal(t, []string{"localhost:9092"}, c.Brokers)
	require.Equal(t, "SASL_SSL", c.SecurityProtocol)

	require.NotNil(t, c.SASL)
	require.Equal(t, "PLAIN", c.SASL.Mechanism)
	require.Equal(t, "admin", c.SASL.Username)
	require.Equal(t, "secret", c.SASL.Password)

	require.NotNil(t, c.TLS)
	require.Equal(t, "/etc/ssl/ca.pem", c.TLS.Cafile)
	require.True(t, c.TLS.Insecure)
}

func TestLoad_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config")
	require.NoError(t, os.WriteFile(path, nil, 0600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Empty(t, cfg.Clusters)
}

func TestLoad_ExplicitPathMustExist(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nonexistent")
	_, err := Load(path)
	require.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config")
	require.NoError(t, os.WriteFile(path, nil, 0600))

	cfg, err := Load(path)
	require.NoError(t, err)

	cfg.Output = "hex"
	cfg.Clusters = append(cfg.Clusters, &Cluster{Name: "dev", Brokers: []string{"dev:9092"}})
	require.NoError(t, cfg.UseCluster("dev"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0600), info.Mode().Perm())

	again, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "dev", again.CurrentCluster)
	require.Equal(t, "hex", again.Output)
	require.Equal(t, []string{"dev:9092"}, again.Clusters[0].Brokers)
}

func TestUseCluster_NotFound(t *testing.T) {
	cfg := Config{Clusters: []*Cluster{{Name: "a"}}}
	require.Error(t, cfg.UseCluster("b"))
	require.Empty(t, cfg.CurrentCluster)
}

func TestUseCluster_SaveFailsRestoresCurrent(t *testing.T) {
	cfg := Config{
		CurrentCluster: "a",
		Output:         "morse",
		Clusters:       []*Cluster{{Name: "a"}, {Name: "b"}},
	}
	require.Error(t, cfg.UseCluster("b"))
	require.Equal(t, "a", cfg.CurrentCluster)
}

func TestLoad_RejectsUnknownOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config")
	require.NoError(t, os.WriteFile(path, []byte("output: yaml\n"), 0600))

	_, err := Load(path)
	require.ErrorContains(t, err, `output "yaml" must be one of`)
}

func TestValidate(t *testing.T) {
	for _, tc := range []struct {
		name string
		cfg  Config
		err  string
	}{
		{name: "Empty", cfg: Config{}},
		{name: "AllOutputs", cfg: Config{Output: "msgpack"}},
		{name: "UnknownOutput", cfg: Config{Output: "xml"}, err: "must be one of"},
		{name: "Unnamed", cfg: Config{Clusters: []*Cluster{{Brokers: []string{"b:9092"}}}}, err: "has no name"},
		{name: "Duplicate", cfg: Config{Clusters: []*Cluster{{Name: "a"}, {Name: "a"}}}, err: "defined twice"},
		{name: "SecurityProtocol", cfg: Config{Clusters: []*Cluster{{Name: "a", SecurityProtocol: "TLS"}}}, err: "security-protocol"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.err == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorContains(t, err, tc.err)
		})
	}
}

func TestAddCluster(t *testing.T) {
	var cfg Config
	require.NoError(t, cfg.AddCluster(&Cluster{Name: "a"}))
	require.NoError(t, cfg.AddCluster(&Cluster{Name: "b"}))
	require.Equal(t, "a", cfg.CurrentCluster)
	require.ErrorIs(t, cfg.AddCluster(&Cluster{Name: "a"}), ErrClusterExists)
	require.Len(t, cfg.Clusters, 2)
}

func TestPutCluster(t *testing.T) {
	var cfg Config
	require.True(t, cfg.PutCluster(&Cluster{Name: "ccloud", Brokers: []string{"old:9092"}}))
	require.False(t, cfg.PutCluster(&Cluster{Name: "ccloud", Brokers: []string{"new:9092"}}))
	require.Len(t, cfg.Clusters, 1)
	require.Equal(t, []string{"new:9092"}, cfg.Clusters[0].Brokers)
	require.Equal(t, "ccloud", cfg.CurrentCluster)
}

func TestHasCluster(t *testing.T) {
	cfg := Config{
		Clusters: []*Cluster{
			{Name: "a"},
			{Name: "b"},
		},
	}
	require.True(t, cfg.HasCluster("a"))
	require.True(t, cfg.HasCluster("b"))
	require.False(t, cfg.HasCluster("c"))
}

func TestRemoveCluster(t *testing.T) {
	cfg := Config{
		CurrentCluster: "a",
		Clusters:       []*Cluster{{Name: "a"}, {Name: "b"}},
	}
	require.True(t, cfg.RemoveCluster("a"))
	require.False(t, cfg.RemoveCluster("a"))
	require.Empty(t, cfg.CurrentCluster)
	require.Len(t, cfg.Clusters, 1)
	require.Equal(t, "b", cfg.Clusters[0].Name)
}

func TestActiveCluster(t *testing.T) {
	cfg := Config{
		CurrentCluster: "prod",
		Clusters: []*Cluster{
			{Name: "dev", Brokers: []string{"dev:9092"}},
			{Name: "prod", Brokers: []string{"prod:9092"}},
		},
	}

	c := cfg.ActiveCluster()
	require.NotNil(t, c)
	require.Equal(t, "prod", c.Name)

	c = cfg.Lookup("dev")
	require.NotNil(t, c)
	require.Equal(t, "dev", c.Name)
	require.Nil(t, cfg.Lookup(""))

	c.Brokers = []string{"changed:9092"}
	require.Equal(t, []string{"dev:9092"}, cfg.Clusters[0].Brokers)
}

func TestActiveCluster_NotFound(t *testing.T) {
	cfg := Config{
		CurrentCluster: "missing",
		Clusters:       []*Cluster{{Name: "other"}},
	}
	require.Nil(t, cfg.ActiveCluster())
}
