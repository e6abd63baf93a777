package playback

import (
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"
)

// Manifest formats
const (
	FormatYAML = "yaml"
	FormatTOML = "toml"
	FormatJSON = "json"
)

// Manifest describes the playback files generated for a station
type Manifest struct {
	Station     string             `json:"station" yaml:"station" toml:"station"`
	GeneratedAt time.Time          `json:"generated_at" yaml:"generated_at" toml:"generated_at"`
	MediaRoot   string             `json:"media_root" yaml:"media_root" toml:"media_root"`
	Playlists   []ManifestPlaylist `json:"playlists" yaml:"playlists" toml:"playlists"`
}

// ManifestPlaylist is one generated playlist file
type ManifestPlaylist struct {
	ID      int64  `json:"id" yaml:"id" toml:"id"`
	Name    string `json:"name" yaml:"name" toml:"name"`
	File    string `json:"file" yaml:"file" toml:"file"`
	Entries int    `json:"entries" yaml:"entries" toml:"entries"`
}

// ValidFormat reports whether format is a supported manifest encoding
func ValidFormat(format string) bool {
	switch format {
	case FormatYAML, FormatTOML, FormatJSON:
		return true
	}
	return false
}

// Encode renders m in the given format
func Encode(format string, m *Manifest) ([]byte, error) {
	switch format {
	case FormatYAML:
		return yaml.Marshal(m)
	case FormatTOML:
		return toml.Marshal(m)
	case FormatJSON:
		return sonic.MarshalIndent(m, "", "  ")
	}
	return nil, fmt.Errorf("unsupported manifest format %q", format)
}

// Decode parses a manifest previously produced by Encode
func Decode(format string, data []byte) (*Manifest, error) {
	var m Manifest
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &m)
	case FormatTOML:
		err = toml.Unmarshal(data, &m)
	case FormatJSON:
		err = sonic.Unmarshal(data, &m)
	default:
		err = fmt.Errorf("unsupported manifest format %q", format)
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}
