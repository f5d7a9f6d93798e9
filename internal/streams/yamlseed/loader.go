package yamlseed

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Rech1n/Kitsune/internal/streams"
	"gopkg.in/yaml.v3"
)

func LoadFile(filePath string) (Seed, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return Seed{}, err
	}

	var seed Seed
	if err := yaml.Unmarshal(content, &seed); err != nil {
		return Seed{}, err
	}
	return seed, nil
}

// LoadFromDir merges every .yaml/.yml file of dirPath in name order. A
// missing directory is not an error. Broken files are reported together
// while the readable ones are still returned.
func LoadFromDir(dirPath string) (Seed, error) {
	trimmed := strings.TrimSpace(dirPath)
	if trimmed == "" {
		return Seed{}, nil
	}

	entries, err := os.ReadDir(trimmed)
	if err != nil {
		if os.IsNotExist(err) {
			return Seed{}, nil
		}
		return Seed{}, fmt.Errorf("read seed dir: %w", err)
	}

	files := make([]string, 0)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		lower := strings.ToLower(entry.Name())
		if strings.HasSuffix(lower, ".yaml") || strings.HasSuffix(lower, ".yml") {
			files = append(files, filepath.Join(trimmed, entry.Name()))
		}
	}
	sort.Strings(files)

	var merged Seed
	errors := make([]string, 0)

	for _, filePath := range files {
		seed, err := LoadFile(filePath)
		if err != nil {
			errors = append(errors, fmt.Sprintf("%s: %v", filepath.Base(filePath), err))
			continue
		}
		merged.Servers = append(merged.Servers, seed.Servers...)
		merged.Streams = append(merged.Streams, seed.Streams...)
	}

	if len(errors) > 0 {
		return merged, fmt.Errorf("seed files failed to load: %s", strings.Join(errors, " | "))
	}

	return merged, nil
}

// Apply registers the seed servers first so streams can reference them,
// then adds the streams in file order. Rejected servers and streams are
// reported together without holding back the valid ones.
func Apply(registry *streams.Registry, seed Seed) (int, error) {
	problems := make([]string, 0)
	for i, item := range seed.Servers {
		server, err := item.toServer()
		if err == nil {
			err = registry.RegisterServer(server)
		}
		if err != nil {
			problems = append(problems, fmt.Sprintf("servers[%d]: %v", i, err))
		}
	}

	reqs, rejected := seed.addRequests()
	problems = append(problems, rejected...)
	created, err := registry.BulkAdd(reqs)
	if err != nil {
		problems = append(problems, err.Error())
	}
	return len(created), joinProblems(problems)
}
