package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"reflectd/internal/common/fsutil"
	"reflectd/pkg/types"
)

// Catalogue is the on-disk shape of a registry file.
type Catalogue struct {
	Models  []types.ModelConfig    `json:"models" yaml:"models" toml:"models"`
	Prompts []types.PromptTemplate `json:"prompts" yaml:"prompts" toml:"prompts"`
}

// LoadFile reads a catalogue based on its extension.
// Supports: .yaml/.yml, .json, .toml
func LoadFile(path string) (Catalogue, error) {
	var c Catalogue
	if path == "" {
		return c, fmt.Errorf("empty registry path")
	}
	p, err := fsutil.ExpandHome(path)
	if err != nil {
		return c, err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		return c, err
	}
	switch ext := strings.ToLower(filepath.Ext(p)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &c)
	case ".json":
		err = json.Unmarshal(b, &c)
	case ".toml":
		err = toml.Unmarshal(b, &c)
	default:
		return c, fmt.Errorf("unsupported registry extension: %s", ext)
	}
	if err != nil {
		return c, fmt.Errorf("parse %s: %w", path, err)
	}
	return c, nil
}

// LoadDir scans a directory for *.gguf files and returns one on-device
// text-generation model per file. ID is the full filename; Path is absolute.
func LoadDir(dir string) ([]types.ModelConfig, error) {
	abs, err := fsutil.ResolvePath(dir)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}
	var models []types.ModelConfig
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(strings.ToLower(name), ".gguf") {
			continue
		}
		models = append(models, types.ModelConfig{
			ID:      name,
			Name:    name,
			Task:    types.TaskTextGeneration,
			Backend: types.BackendOnDevice,
			Path:    filepath.Join(abs, name),
		})
	}
	return models, nil
}

// Merge overlays extra on base. Entries in extra replace base entries with
// the same id; new ids are appended in order.
func Merge(base, extra Catalogue) Catalogue {
	out := Catalogue{
		Models:  mergeByID(base.Models, extra.Models, func(m types.ModelConfig) string { return m.ID }),
		Prompts: mergeByID(base.Prompts, extra.Prompts, func(p types.PromptTemplate) string { return p.ID }),
	}
	return out
}

func mergeByID[T any](base, extra []T, id func(T) string) []T {
	out := append([]T(nil), base...)
	idx := make(map[string]int, len(out))
	for i, v := range out {
		idx[id(v)] = i
	}
	for _, v := range extra {
		if i, ok := idx[id(v)]; ok {
			out[i] = v
			continue
		}
		idx[id(v)] = len(out)
		out = append(out, v)
	}
	return out
}

// ResolveModelPaths joins relative on-device model paths onto dir.
// Remote-chat paths are model names and are left untouched.
func ResolveModelPaths(models []types.ModelConfig, dir string) ([]types.ModelConfig, error) {
	if dir == "" {
		return models, nil
	}
	abs, err := fsutil.ResolvePath(dir)
	if err != nil {
		return nil, err
	}
	out := make([]types.ModelConfig, len(models))
	for i, m := range models {
		if m.Backend == types.BackendOnDevice && m.Path != "" && !filepath.IsAbs(m.Path) {
			m.Path = filepath.Join(abs, m.Path)
		}
		out[i] = m
	}
	return out, nil
}

// Build assembles the registry from the built-in catalogue, an optional
// registry file, and an optional models directory.
func Build(registryFile, modelsDir string) (*Registry, error) {
	cat := Catalogue{Models: DefaultModels(), Prompts: DefaultPrompts()}
	if registryFile != "" {
		extra, err := LoadFile(registryFile)
		if err != nil {
			return nil, err
		}
		cat = Merge(cat, extra)
	}
	if modelsDir != "" && fsutil.PathExists(modelsDir) {
		found, err := LoadDir(modelsDir)
		if err != nil {
			return nil, err
		}
		cat = Merge(cat, Catalogue{Models: found})
		if cat.Models, err = ResolveModelPaths(cat.Models, modelsDir); err != nil {
			return nil, err
		}
	}
	return New(cat.Models, cat.Prompts)
}
