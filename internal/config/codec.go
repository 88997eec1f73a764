package config

import (
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

type codec interface {
	Marshal(v interface{}) ([]byte, error)
	Unmarshal(data []byte, v interface{}) error
}

type yamlCodec struct{}

func (yamlCodec) Marshal(v interface{}) ([]byte, error)      { return yaml.Marshal(v) }
func (yamlCodec) Unmarshal(data []byte, v interface{}) error { return yaml.Unmarshal(data, v) }

type tomlCodec struct{}

func (tomlCodec) Marshal(v interface{}) ([]byte, error)      { return toml.Marshal(v) }
func (tomlCodec) Unmarshal(data []byte, v interface{}) error { return toml.Unmarshal(data, v) }

// codecFor picks the codec by file extension; YAML unless the file is .toml.
func codecFor(path string) codec {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return tomlCodec{}
	}
	return yamlCodec{}
}
