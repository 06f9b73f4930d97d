// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package doc

import (
	"embed"

	"gopkg.in/yaml.v3"
)

// FS embeds the Open API document.
//
//go:embed epochstake.yaml
var FS embed.FS

var version string

// Version open api version
func Version() string {
	return version
}

type openAPIInfo struct {
	Info struct {
		Version string
	}
	Paths map[string]map[string]any
}

// Paths lists the documented routes and their methods.
func Paths() (map[string][]string, error) {
	var oai openAPIInfo
	if err := load(&oai); err != nil {
		return nil, err
	}
	out := make(map[string][]string, len(oai.Paths))
	for path, methods := range oai.Paths {
		for m := range methods {
			out[path] = append(out[path], m)
		}
	}
	return out, nil
}

func load(v any) error {
	content, err := FS.ReadFile("epochstake.yaml")
	if err != nil {
		return err
	}
	return yaml.Unmarshal(content, v)
}

func init() {
	var oai openAPIInfo
	if err := load(&oai); err != nil {
		panic(err)
	}
	version = oai.Info.Version
}
