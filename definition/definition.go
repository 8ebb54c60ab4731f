package definition

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mweagle/goscore/classify"
	"github.com/mweagle/goscore/sampler"
)

// Defaults applied when a key is absent from the definition.
const (
	DefaultCount  = 100
	DefaultMean   = 70.0
	DefaultStdDev = 10.0
	DefaultCutoff = 60.0
)

// Definition is a single analysis run.
type Definition struct {
	Name   string
	Params sampler.Params
	Cutoff float64
	Seed   uint64
	// Console controls whether the summary is printed to stdout.
	Console bool
}

// Format is the encoding of a definition file.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

// FormatForPath picks the decoder from the file extension. Anything that
// isn't .yaml or .yml is treated as JSON.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Load reads and validates the definition at path.
func Load(path string) (*Definition, error) {
	inputFile, inputFileErr := os.Open(path)
	if inputFileErr != nil {
		return nil, inputFileErr
	}
	defer inputFile.Close()

	def, decodeErr := Decode(inputFile, FormatForPath(path))
	if decodeErr != nil {
		return nil, fmt.Errorf("failed to load definition %s: %w", path, decodeErr)
	}
	if len(def.Name) <= 0 {
		baseName := filepath.Base(path)
		def.Name = strings.TrimSuffix(baseName, filepath.Ext(baseName))
	}
	return def, nil
}

// Decode reads a definition from the input stream and validates it.
func Decode(inputStream io.Reader, format Format) (*Definition, error) {
	inputBytes, inputBytesErr := io.ReadAll(inputStream)
	if inputBytesErr != nil {
		return nil, inputBytesErr
	}
	rootMap := make(map[string]interface{})
	var unmarshalErr error
	switch format {
	case FormatYAML:
		unmarshalErr = yaml.Unmarshal(inputBytes, &rootMap)
	default:
		unmarshalErr = json.Unmarshal(inputBytes, &rootMap)
	}
	if unmarshalErr != nil {
		return nil, unmarshalErr
	}
	return fromMap(rootMap)
}

func fromMap(rootMap map[string]interface{}) (*Definition, error) {
	def := &Definition{
		Name:    String("name", rootMap),
		Console: true,
	}
	if _, consoleExists := rootMap["console"]; consoleExists {
		def.Console = Boolean("console", rootMap)
	}
	count, countErr := Uint("count", rootMap, DefaultCount)
	if countErr != nil {
		return nil, countErr
	}
	def.Params.Count = int(count)

	// Either Normal(mean, stddev) or the discrete keys
	expression := String("distribution", rootMap)
	if len(expression) != 0 {
		mean, stdDev, parseErr := sampler.ParseExpression(expression)
		if parseErr != nil {
			return nil, parseErr
		}
		def.Params.Mean = mean
		def.Params.StdDev = stdDev
	} else {
		var floatErr error
		def.Params.Mean, floatErr = Float("mean", rootMap, DefaultMean)
		if floatErr != nil {
			return nil, floatErr
		}
		def.Params.StdDev, floatErr = Float("stdDev", rootMap, DefaultStdDev)
		if floatErr != nil {
			return nil, floatErr
		}
	}
	var cutoffErr error
	def.Cutoff, cutoffErr = Float("cutoff", rootMap, DefaultCutoff)
	if cutoffErr != nil {
		return nil, cutoffErr
	}
	var seedErr error
	def.Seed, seedErr = Uint("seed", rootMap, 0)
	if seedErr != nil {
		return nil, seedErr
	}
	return def, def.Validate()
}

// Validate rejects definitions the engine can't evaluate.
func (d *Definition) Validate() error {
	paramsErr := d.Params.Validate()
	if paramsErr != nil {
		return paramsErr
	}
	return classify.ValidateCutoff(d.Cutoff)
}
