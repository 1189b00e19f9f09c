package corpus

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/tidwall/gjson"
)

// LoadFile reads a corpus from disk. JSON and TOML files are read as key/value
// mappings; any other file is read as one entry per non-empty line.
func LoadFile(path string) (Corpus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return ParseJSON(data)
	case ".toml":
		return ParseTOML(data)
	default:
		return ParseLines(data)
	}
}

// ParseJSON parses a JSON object whose values are strings or translation
// records. Key order of the document is preserved.
func ParseJSON(data []byte) (Corpus, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("invalid JSON corpus")
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, fmt.Errorf("JSON corpus must be an object")
	}
	var out Corpus
	root.ForEach(func(key, value gjson.Result) bool {
		out = append(out, Entry{Key: key.String(), Value: jsonValue(value)})
		return true
	})
	return out, nil
}

func jsonValue(v gjson.Result) Value {
	switch {
	case v.Type == gjson.String:
		return FromString(v.String())
	case v.IsObject():
		if tr := v.Get("translation"); tr.Type == gjson.String {
			return FromTranslation(tr.String())
		}
	}
	return Unsupported()
}

// ParseTOML parses top-level TOML keys whose values are strings or tables with
// a translation field. Key order of the document is preserved.
func ParseTOML(data []byte) (Corpus, error) {
	var raw map[string]any
	md, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode TOML corpus: %w", err)
	}
	var out Corpus
	for _, key := range md.Keys() {
		if len(key) != 1 {
			continue
		}
		name := key[0]
		out = append(out, Entry{Key: name, Value: tomlValue(raw[name])})
	}
	return out, nil
}

func tomlValue(v any) Value {
	switch val := v.(type) {
	case string:
		return FromString(val)
	case map[string]any:
		if tr, ok := val["translation"].(string); ok {
			return FromTranslation(tr)
		}
	}
	return Unsupported()
}

// ParseLines reads one entry per non-empty line, keyed by line number.
func ParseLines(data []byte) (Corpus, error) {
	var out Corpus
	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		out = append(out, Entry{Key: strconv.Itoa(lineNo), Value: FromString(line)})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("corpus is empty")
	}
	return out, nil
}
