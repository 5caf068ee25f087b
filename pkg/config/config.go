package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// OutputFormats are the values accepted for the output key.
var OutputFormats = []string{"default", "raw", "json", "json-each-row", "hex", "msgpack"}

var securityProtocols = []string{"PLAINTEXT", "SSL", "SASL_PLAINTEXT", "SASL_SSL"}

// ErrClusterExists is returned when adding a cluster under a taken name.
var ErrClusterExists = errors.New("cluster exists already")

type SASL struct {
	Mechanism    string   `yaml:"mechanism"`
	Username     string   `yaml:"username"`
	Password     string   `yaml:"password"`
	ClientID     string   `yaml:"clientID"`
	ClientSecret string   `yaml:"clientSecret"`
	TokenURL     string   `yaml:"tokenURL"`
	Scopes       []string `yaml:"scopes"`
	Token        string   `yaml:"token"`
}

type TLS struct {
	Cafile        string
	Clientfile    string
	Clientkeyfile string
	Insecure      bool
}

// Cluster is a Kafka cluster the relay can read from and write to.
type Cluster struct {
	Name             string
	Brokers          []string `yaml:"brokers"`
	SASL             *SASL    `yaml:"SASL"`
	TLS              *TLS     `yaml:"TLS"`
	SecurityProtocol string   `yaml:"security-protocol"`
}

// Config is the content of $HOME/.morse/config.
type Config struct {
	CurrentCluster string `yaml:"current-cluster"`
	// Output is the default output format of encode and decode.
	Output string `yaml:"output,omitempty"`
	// PlainMenu selects the line prompter for interactive prompts.
	PlainMenu bool       `yaml:"plain-menu,omitempty"`
	Clusters  []*Cluster `yaml:"clusters"`

	path string
}

// Validate checks the output format and the cluster list.
func (c *Config) Validate() error {
	if c.Output != "" && !slices.Contains(OutputFormats, c.Output) {
		return fmt.Errorf("output %q must be one of: %s", c.Output, strings.Join(OutputFormats, ", "))
	}
	seen := make(map[string]bool, len(c.Clusters))
	for i, cl := range c.Clusters {
		if cl == nil || cl.Name == "" {
			return fmt.Errorf("cluster #%d has no name", i+1)
		}
		if seen[cl.Name] {
			return fmt.Errorf("cluster %q is defined twice", cl.Name)
		}
		seen[cl.Name] = true
		if cl.SecurityProtocol != "" && !slices.Contains(securityProtocols, cl.SecurityProtocol) {
			return fmt.Errorf("cluster %q: security-protocol %q must be one of: %s",
				cl.Name, cl.SecurityProtocol, strings.Join(securityProtocols, ", "))
		}
	}
	return nil
}

func (c *Config) index(name string) int {
	return slices.IndexFunc(c.Clusters, func(cl *Cluster) bool { return cl.Name == name })
}

func (c *Config) HasCluster(name string) bool {
	return c.index(name) >= 0
}

// Lookup returns a copy of the named cluster, or nil. Changes to the
// copy, such as a --brokers override, are not saved.
func (c *Config) Lookup(name string) *Cluster {
	if c == nil || name == "" {
		return nil
	}
	i := c.index(name)
	if i < 0 {
		return nil
	}
	cl := *c.Clusters[i]
	return &cl
}

// ActiveCluster returns a copy of the current cluster, or nil.
func (c *Config) ActiveCluster() *Cluster {
	if c == nil {
		return nil
	}
	return c.Lookup(c.CurrentCluster)
}

// AddCluster appends cl. The first cluster added becomes the current one.
func (c *Config) AddCluster(cl *Cluster) error {
	if c.HasCluster(cl.Name) {
		return fmt.Errorf("%w: %v", ErrClusterExists, cl.Name)
	}
	c.Clusters = append(c.Clusters, cl)
	if c.CurrentCluster == "" {
		c.CurrentCluster = cl.Name
	}
	return nil
}

// PutCluster adds cl or replaces the cluster of the same name. It
// reports whether cl was new.
func (c *Config) PutCluster(cl *Cluster) bool {
	if i := c.index(cl.Name); i >= 0 {
		c.Clusters[i] = cl
		return false
	}
	c.Clusters = append(c.Clusters, cl)
	if c.CurrentCluster == "" {
		c.CurrentCluster = cl.Name
	}
	return true
}

// RemoveCluster drops the named cluster. It reports whether it existed.
func (c *Config) RemoveCluster(name string) bool {
	i := c.index(name)
	if i < 0 {
		return false
	}
	c.Clusters = slices.Delete(c.Clusters, i, i+1)
	if c.CurrentCluster == name {
		c.CurrentCluster = ""
	}
	return true
}

// UseCluster makes name the current cluster and saves the config. On a
// failed save the previous current cluster is restored.
func (c *Config) UseCluster(name string) error {
	if !c.HasCluster(name) {
		return fmt.Errorf("cluster with name %v not found", name)
	}
	prev := c.CurrentCluster
	c.CurrentCluster = name
	if err := c.Save(); err != nil {
		c.CurrentCluster = prev
		return err
	}
	return nil
}
