// Package config loads approximation options from TOML or YAML files.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"meshapprox/src/surface/vsa"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

var ErrUnknownFormat = errors.New("config: unknown format")

// Decoder is implemented by the TOML and YAML decoders.
type Decoder interface {
	Decode(v any) error
}

// DecoderFunc creates a Decoder that rejects unknown keys.
type DecoderFunc func(r io.Reader) Decoder

func tomlDecoder(r io.Reader) Decoder {
	return toml.NewDecoder(r).DisallowUnknownFields()
}

func yamlDecoder(r io.Reader) Decoder {
	d := yaml.NewDecoder(r)
	d.KnownFields(true)
	return d
}

// DecoderFor returns the decoder for a file extension or format name:
// toml, yaml or yml.
func DecoderFor(format string) (DecoderFunc, error) {
	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case "toml":
		return tomlDecoder, nil
	case "yaml", "yml":
		return yamlDecoder, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// Load reads the options in filename over the defaults and validates
// them. The format follows the file extension.
func Load(filename string) (vsa.Options, error) {
	f, err := DecoderFor(filepath.Ext(filename))
	if err != nil {
		return vsa.Options{}, err
	}
	fp, err := os.Open(filename)
	if err != nil {
		return vsa.Options{}, err
	}
	defer fp.Close()

	opts, err := Read(bufio.NewReader(fp), f)
	if err != nil {
		return vsa.Options{}, fmt.Errorf("config: %s: %w", filename, err)
	}
	return opts, nil
}

// Read decodes options from r over the defaults and validates them. An
// empty document yields the defaults.
func Read(r io.Reader, f DecoderFunc) (vsa.Options, error) {
	opts := vsa.DefaultOptions()
	if err := f(r).Decode(&opts); err != nil && !errors.Is(err, io.EOF) {
		return vsa.Options{}, err
	}
	if err := opts.Validate(); err != nil {
		return vsa.Options{}, err
	}
	return opts, nil
}
