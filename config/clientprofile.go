package config

import (
	"fmt"

	"gopkg.in/ini.v1"
)

// DefaultClientProfilePath is where mcp-client looks for a profile when
// none is given explicitly.
const DefaultClientProfilePath = "/etc/go-mcp-sdk/client-profile.ini"

// ServerProfile is one named server a host can dial, as one section of a
// ClientProfile INI file:
//
//	[unraid]
//	transport = stdio
//	command = /usr/local/bin/go-mcp-sdk-server
//
//	[weather]
//	transport = websocket
//	url = wss://weather.example.com/mcp
type ServerProfile struct {
	Name      string
	Transport string
	Command   string
	Args      string
	URL       string
	Broker    string
	ClientID  string
}

// ClientProfile is the set of named servers a host application knows how to
// reach, loaded from a single INI file with one section per server.
type ClientProfile struct {
	Servers map[string]ServerProfile
}

// LoadClientProfile parses path into a ClientProfile, one ServerProfile per
// named (non-default) section.
func LoadClientProfile(path string) (*ClientProfile, error) {
	file, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("parsing client profile %s: %w", path, err)
	}

	profile := &ClientProfile{Servers: make(map[string]ServerProfile)}
	for _, section := range file.Sections() {
		if section.Name() == ini.DefaultSection {
			continue
		}
		profile.Servers[section.Name()] = ServerProfile{
			Name:      section.Name(),
			Transport: section.Key("transport").String(),
			Command:   section.Key("command").String(),
			Args:      section.Key("args").String(),
			URL:       section.Key("url").String(),
			Broker:    section.Key("broker").String(),
			ClientID:  section.Key("client_id").String(),
		}
	}
	return profile, nil
}

// Server looks up a named server profile.
func (p *ClientProfile) Server(name string) (ServerProfile, bool) {
	s, ok := p.Servers[name]
	return s, ok
}
