// Copyright 2019 Anapaya Systems
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

// Package config defines the configuration blocks of the controller.
//
// A block fills its unset fields in InitDefaults, checks them in Validate and
// writes a commented TOML sample in Sample. The tests of every block decode
// the sample, so the sample and the defaults cannot drift apart.
package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/sdnroute/sdnroute/pkg/private/serrors"
)

// ID is the sample context key of the controller ID.
const ID = "id"

// indent is prepended to every non-empty line of a table sample.
const indent = "    "

// Config is implemented by every configuration block.
type Config interface {
	Sampler
	Validator
	Defaulter
}

type Validator interface {
	Validate() error
}

type Defaulter interface {
	InitDefaults()
}

// Sampler writes a sample of the block to dst. ctx holds values that are only
// known at runtime, such as the controller ID. Sample panics on write errors.
type Sampler interface {
	Sample(dst io.Writer, path Path, ctx CtxMap)
}

// TableSampler is a Sampler whose sample is a TOML table named ConfigName.
type TableSampler interface {
	Sampler
	ConfigName() string
}

// CtxMap contains the context for sample generation.
type CtxMap map[string]string

// Path is the table header of a config block.
type Path []string

// Extend returns a copy of the path with s appended.
func (p Path) Extend(s string) Path {
	return append(append(Path(nil), p...), s)
}

func (p Path) String() string {
	return strings.Join(p, ".")
}

// NoValidator can be embedded by blocks without validation.
type NoValidator struct{}

func (NoValidator) Validate() error {
	return nil
}

// NoDefaulter can be embedded by blocks without defaults.
type NoDefaulter struct{}

func (NoDefaulter) InitDefaults() {}

// StringSampler is a table sampler with a fixed sample text.
type StringSampler struct {
	Text string
	Name string
}

func (s StringSampler) Sample(dst io.Writer, _ Path, _ CtxMap) {
	WriteString(dst, s.Text)
}

func (s StringSampler) ConfigName() string {
	return s.Name
}

// ValidateAll validates the blocks in order and returns the first error.
func ValidateAll(validators ...Validator) error {
	for _, v := range validators {
		if err := v.Validate(); err != nil {
			return serrors.Wrap("invalid config", err, "type", fmt.Sprintf("%T", v))
		}
	}
	return nil
}

// InitAll initializes the defaults of all blocks.
func InitAll(defaulters ...Defaulter) {
	for _, d := range defaulters {
		d.InitDefaults()
	}
}

// Decode decodes a TOML config. Unknown keys are rejected.
func Decode(raw []byte, cfg any) error {
	return toml.NewDecoder(bytes.NewReader(raw)).DisallowUnknownFields().Decode(cfg)
}

// LoadFile decodes the config file into cfg.
func LoadFile(file string, cfg any) error {
	raw, err := os.ReadFile(file)
	if err != nil {
		return serrors.Wrap("reading config file", err, "file", file)
	}
	if err := Decode(raw, cfg); err != nil {
		return serrors.Wrap("decoding config file", err, "file", file)
	}
	return nil
}

type renamedSampler struct {
	Sampler
	name string
}

func (s renamedSampler) ConfigName() string {
	return s.name
}

// OverrideName returns s as a table sampler named name. It is used when the
// same block type appears under different names.
func OverrideName(s Sampler, name string) Sampler {
	return renamedSampler{Sampler: s, name: name}
}

// WriteSample writes the samples in order. Table samplers get a header and
// their lines are indented. It panics if dst cannot be written.
func WriteSample(dst io.Writer, path Path, ctx CtxMap, samplers ...Sampler) {
	for _, s := range samplers {
		ts, ok := s.(TableSampler)
		if !ok {
			s.Sample(dst, path, ctx)
			continue
		}
		p := path.Extend(ts.ConfigName())
		var buf strings.Builder
		ts.Sample(&buf, p, ctx)

		var out strings.Builder
		fmt.Fprintf(&out, "\n[%s]\n", p)
		for _, line := range strings.Split(strings.Trim(buf.String(), "\n"), "\n") {
			if line != "" {
				out.WriteString(indent)
			}
			out.WriteString(line)
			out.WriteByte('\n')
		}
		WriteString(dst, out.String())
	}
}

// WriteString writes s to dst. It panics on error.
func WriteString(dst io.Writer, s string) {
	if _, err := io.WriteString(dst, s); err != nil {
		panic(fmt.Sprintf("writing sample: %s", err))
	}
}
