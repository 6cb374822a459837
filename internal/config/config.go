package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Relay struct {
	Addr      string `yaml:"addr,omitempty"`
	AdminAddr string `yaml:"admin_addr,omitempty"` // empty disables the http admin endpoint
	MaxFrame  int    `yaml:"max_frame,omitempty"`  // bytes
}

type Client struct {
	Addr         string `yaml:"addr,omitempty"`
	Peer         string `yaml:"peer,omitempty"` // empty means a fresh uuid per run
	InitialValue int64  `yaml:"initial_value,omitempty"`
}

type Theme struct {
	Highlight     string `yaml:"highlight,omitempty"`
	HighlightText string `yaml:"highlight_text,omitempty"`
	Text          string `yaml:"text,omitempty"`
	Status        string `yaml:"status,omitempty"`
}

type Config struct {
	Relay  Relay  `yaml:"relay"`
	Client Client `yaml:"client"`
	Theme  Theme  `yaml:"theme"`
}

var DefaultConfig = Config{
	Relay:  Relay{Addr: "127.0.0.1:1234", MaxFrame: 16 << 20},
	Client: Client{Addr: "127.0.0.1:1234", InitialValue: 42},
	Theme:  Theme{Highlight: "white", HighlightText: "black", Text: "white", Status: "gray"},
}

func GetConfig() Config {
	conffilename, exists := os.LookupEnv("COTREE_CONF")
	if !exists { conffilename = "cotree.yaml" }

	data, err := os.ReadFile(conffilename)
	if err != nil { return DefaultConfig }
	return Parse(data)
}

// Parse overrides the defaults with every non-zero value of data.
// Invalid yaml yields the defaults.
func Parse(data []byte) Config {
	conf := DefaultConfig

	var yamlConfig Config
	err := yaml.Unmarshal(data, &yamlConfig)
	if err != nil { return conf }

	if yamlConfig.Relay.Addr != "" { conf.Relay.Addr = yamlConfig.Relay.Addr }
	if yamlConfig.Relay.AdminAddr != "" { conf.Relay.AdminAddr = yamlConfig.Relay.AdminAddr }
	if yamlConfig.Relay.MaxFrame > 0 { conf.Relay.MaxFrame = yamlConfig.Relay.MaxFrame }

	if yamlConfig.Client.Addr != "" { conf.Client.Addr = yamlConfig.Client.Addr }
	if yamlConfig.Client.Peer != "" { conf.Client.Peer = yamlConfig.Client.Peer }
	if yamlConfig.Client.InitialValue != 0 { conf.Client.InitialValue = yamlConfig.Client.InitialValue }

	if yamlConfig.Theme.Highlight != "" { conf.Theme.Highlight = yamlConfig.Theme.Highlight }
	if yamlConfig.Theme.HighlightText != "" { conf.Theme.HighlightText = yamlConfig.Theme.HighlightText }
	if yamlConfig.Theme.Text != "" { conf.Theme.Text = yamlConfig.Theme.Text }
	if yamlConfig.Theme.Status != "" { conf.Theme.Status = yamlConfig.Theme.Status }

	return conf
}
