// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"encoding/hex"
	"fmt"

	"github.com/BurntSushi/toml"

	"code.hybscloud.com/coframe"
)

// framefeed config.toml key mapping. Protocol byte values are
// configuration, never hard-coded: the same decoder serves any
// escape-delimited protocol.
type fileConfig struct {
	Escape string   `toml:"escape"` // one byte, hex (e.g. "48") — default 'H'
	Marker string   `toml:"marker"` // one byte, hex (e.g. "10") — default 0x10
	Frames []string `toml:"frames"` // frame contents to encode and feed
	Raw    []string `toml:"raw"`    // raw hex chunks fed verbatim, after frames
}

type config struct {
	proto  coframe.Protocol
	frames []string
	raw    [][]byte
}

func defaultConfig() config {
	return config{proto: coframe.Protocol{Escape: 'H', Marker: 0x10}}
}

func parseByte(s string) (byte, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return 0, err
	}
	if len(b) != 1 {
		return 0, fmt.Errorf("want exactly one byte, got %d", len(b))
	}
	return b[0], nil
}

// framefeed loader for TOML config with default overlay.
func loadConfig(path string) (config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return config{}, fmt.Errorf("load framefeed config: %w", err)
	}

	if meta.IsDefined("escape") {
		if cfg.proto.Escape, err = parseByte(raw.Escape); err != nil {
			return config{}, fmt.Errorf("escape: %w", err)
		}
	}
	if meta.IsDefined("marker") {
		if cfg.proto.Marker, err = parseByte(raw.Marker); err != nil {
			return config{}, fmt.Errorf("marker: %w", err)
		}
	}
	cfg.frames = raw.Frames
	for i, chunk := range raw.Raw {
		p, err := hex.DecodeString(chunk)
		if err != nil {
			return config{}, fmt.Errorf("raw[%d]: %w", i, err)
		}
		cfg.raw = append(cfg.raw, p)
	}
	return cfg, nil
}
