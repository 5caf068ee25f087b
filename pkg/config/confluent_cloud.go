package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/magiconair/properties"
	homedir "github.com/mitchellh/go-homedir"
)

var defaultCcloudSubpath = filepath.Join(".ccloud", "config")

// ErrInvalidCcloudConfig is returned for property files without the
// bootstrap servers or SASL JAAS entries.
var ErrInvalidCcloudConfig = errors.New("invalid or unsupported confluent cloud config")

// TryFindCcloudConfigFile returns ~/.ccloud/config if it exists.
func TryFindCcloudConfigFile() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", err
	}

	absoluteDefaultPath := filepath.Join(home, defaultCcloudSubpath)
	if _, err := os.Stat(absoluteDefaultPath); err != nil {
		return "", os.ErrNotExist
	}
	return absoluteDefaultPath, nil
}

func extractValue(key, input string) (unquoted string, ok bool) {
	if strings.HasPrefix(input, key+"=") {
		return strings.TrimRight(strings.ReplaceAll(strings.TrimPrefix(input, key+"="), "\"", ""), ";"), true
	}
	return
}

// ParseConfluentCloudConfig reads a Confluent Cloud properties file into
// a cluster named name.
func ParseConfluentCloudConfig(path, name string) (*Cluster, error) {
	props, err := properties.LoadFile(path, properties.UTF8)
	if err != nil {
		return nil, fmt.Errorf("load properties: %w", err)
	}
	p := props.Map()

	jaas, ok := p["sasl.jaas.config"]
	if !ok {
		return nil, ErrInvalidCcloudConfig
	}
	servers, ok := p["bootstrap.servers"]
	if !ok {
		return nil, ErrInvalidCcloudConfig
	}

	var username, password string
	var haveUser, havePass bool
	for _, word := range strings.Fields(jaas) {
		if result, ok := extractValue("username", word); ok {
			username, haveUser = result, true
		}
		if result, ok := extractValue("password", word); ok {
			password, havePass = result, true
		}
	}
	if !haveUser || !havePass {
		return nil, errors.New("could not parse sasl.jaas.config from ccloud")
	}

	var brokers []string
	for _, b := range strings.Split(servers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}

	return &Cluster{
		Name:    name,
		Brokers: brokers,
		SASL: &SASL{
			Mechanism: "PLAIN",
			Username:  username,
			Password:  password,
		},
		SecurityProtocol: "SASL_SSL",
	}, nil
}
