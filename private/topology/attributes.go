// Copyright 2026 The sdnroute Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package topology

import (
	"os"

	"gopkg.in/yaml.v2"

	"github.com/sdnroute/sdnroute/pkg/addr"
	"github.com/sdnroute/sdnroute/pkg/private/serrors"
)

// Attributes are the static switch roles and link parameters.
type Attributes struct {
	Roles map[addr.DPID]Role
	Links map[LinkKey]LinkParams
}

type attributeFile struct {
	Links    []linkEntry   `yaml:"links"`
	Switches []switchEntry `yaml:"switches"`
}

type linkEntry struct {
	Src string `yaml:"src"`
	Dst string `yaml:"dst"`
	// Delay in ms.
	Delay float64 `yaml:"delay"`
	// Loss in percent.
	Loss float64 `yaml:"loss"`
	// Bandwidth in Mbit/s.
	Bandwidth float64 `yaml:"bandwidth"`
	Cost      float64 `yaml:"cost"`
}

type switchEntry struct {
	DPID      string `yaml:"dpid"`
	Attribute string `yaml:"attribute"`
}

// LoadAttributes reads the attribute file.
func LoadAttributes(file string) (Attributes, error) {
	raw, err := os.ReadFile(file)
	if err != nil {
		return Attributes{}, serrors.Wrap("reading attribute file", err, "file", file)
	}
	a, err := ParseAttributes(raw)
	if err != nil {
		return Attributes{}, serrors.Wrap("parsing attribute file", err, "file", file)
	}
	return a, nil
}

// ParseAttributes parses the YAML attribute document. Loss is converted from
// percent to a fraction and bandwidth from Mbit/s to bit/s.
func ParseAttributes(raw []byte) (Attributes, error) {
	var f attributeFile
	if err := yaml.UnmarshalStrict(raw, &f); err != nil {
		return Attributes{}, err
	}
	a := Attributes{
		Roles: make(map[addr.DPID]Role, len(f.Switches)),
		Links: make(map[LinkKey]LinkParams, len(f.Links)),
	}
	for _, s := range f.Switches {
		dpid, err := addr.ParseDPID(s.DPID)
		if err != nil {
			return Attributes{}, err
		}
		role, err := ParseRole(s.Attribute)
		if err != nil {
			return Attributes{}, serrors.Wrap("invalid switch entry", err, "dpid", s.DPID)
		}
		a.Roles[dpid] = role
	}
	for i, l := range f.Links {
		src, err := addr.ParseDPID(l.Src)
		if err != nil {
			return Attributes{}, serrors.Wrap("invalid link entry", err, "index", i)
		}
		dst, err := addr.ParseDPID(l.Dst)
		if err != nil {
			return Attributes{}, serrors.Wrap("invalid link entry", err, "index", i)
		}
		if l.Loss < 0 || l.Loss > 100 {
			return Attributes{}, serrors.New("loss out of range", "index", i, "loss", l.Loss)
		}
		if l.Delay < 0 || l.Bandwidth < 0 || l.Cost < 0 {
			return Attributes{}, serrors.New("negative link parameter", "index", i)
		}
		a.Links[NewLinkKey(src, dst)] = LinkParams{
			Delay:          l.Delay,
			Loss:           l.Loss / 100,
			Cost:           l.Cost,
			TotalBandwidth: l.Bandwidth * 1e6,
		}
	}
	return a, nil
}
