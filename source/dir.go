package source

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/blackroad/roadplugin/json"
	"github.com/blackroad/roadplugin/plugin"
	"github.com/blackroad/roadplugin/utils"
)

// ManifestName is the file a plugin directory must carry to be discovered.
const ManifestName = "plugin.json"

// Manifest is the on-disk description of an installed plugin. Descriptor
// fields set in the manifest override what the compiled-in factory declares.
// Entry names the registered factory providing the code and defaults to the
// manifest name.
type Manifest struct {
	plugin.Descriptor
	Entry string `json:"entry,omitempty"`
}

// DirSource discovers plugins from manifest files on disk. Each configured
// directory is scanned for <name>/plugin.json and <name>.json entries. The
// manifests carry metadata; the factory registry supplies the code.
type DirSource struct {
	dirs   []string
	logger *zap.Logger

	mu    sync.Mutex
	cache map[string]plugin.Type
}

var _ Source = (*DirSource)(nil)

// NewDirSource creates a source scanning the given directories in order.
func NewDirSource(dirs []string, logger *zap.Logger) *DirSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DirSource{
		dirs:   dirs,
		logger: logger,
		cache:  make(map[string]plugin.Type),
	}
}

// Discover walks the configured directories and returns the names of every
// entry carrying a manifest, sorted and de-duplicated. Missing directories
// are skipped; entries whose names start with "_" or "." are ignored.
func (s *DirSource) Discover() []string {
	seen := make(map[string]bool)
	for _, dir := range s.dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			if !os.IsNotExist(err) {
				s.logger.Warn("plugin directory unreadable",
					zap.String("dir", dir), zap.Error(err))
			}
			continue
		}
		for _, entry := range entries {
			name := entry.Name()
			if strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".") {
				continue
			}
			if entry.IsDir() {
				if _, exists, _ := utils.Exists(filepath.Join(dir, name, ManifestName)); exists {
					seen[name] = true
				}
				continue
			}
			if strings.HasSuffix(name, ".json") {
				seen[strings.TrimSuffix(name, ".json")] = true
			}
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve reads the manifest for name and binds it to its factory. An
// explicit path points straight at a manifest file, bypassing the directory
// scan. Resolutions are memoized per name until evicted.
func (s *DirSource) Resolve(name, path string) (plugin.Type, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.cache[name]; ok {
		return t, nil
	}

	manifestPath := path
	if manifestPath == "" {
		found, err := s.findManifest(name)
		if err != nil {
			return plugin.Type{}, err
		}
		manifestPath = found
	}

	manifest, err := readManifest(manifestPath)
	if err != nil {
		return plugin.Type{}, err
	}
	if manifest.Name == "" {
		manifest.Name = name
	}

	entry := manifest.Entry
	if entry == "" {
		entry = manifest.Name
	}
	base, ok := Lookup(entry)
	if !ok {
		return plugin.Type{}, fmt.Errorf("source: manifest %q names entry %q: %w", manifestPath, entry, ErrNoType)
	}

	t := plugin.Type{
		Descriptor: mergeDescriptor(base.Descriptor, manifest.Descriptor),
		New:        base.New,
	}
	if err := t.Valid(); err != nil {
		return plugin.Type{}, fmt.Errorf("source: manifest %q: %w: %v", manifestPath, ErrBadManifest, err)
	}

	s.cache[name] = t
	s.logger.Debug("plugin resolved from manifest",
		zap.String("plugin", name),
		zap.String("manifest", manifestPath))
	return t, nil
}

// Evict drops the memoized resolution for name.
func (s *DirSource) Evict(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.cache, name)
}

func (s *DirSource) findManifest(name string) (string, error) {
	for _, dir := range s.dirs {
		nested := filepath.Join(dir, name, ManifestName)
		if _, exists, err := utils.Exists(nested); err == nil && exists {
			return nested, nil
		}
		flat := filepath.Join(dir, name+".json")
		if isDir, exists, err := utils.Exists(flat); err == nil && exists && !isDir {
			return flat, nil
		}
	}
	return "", fmt.Errorf("source: no manifest for %q: %w", name, ErrNotFound)
}

func readManifest(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("source: read manifest %q: %w", path, err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("source: manifest %q: %w: %v", path, ErrBadManifest, err)
	}
	return m, nil
}

// mergeDescriptor overlays manifest fields onto the factory's descriptor.
// Only fields the manifest actually sets win.
func mergeDescriptor(base, override plugin.Descriptor) plugin.Descriptor {
	out := base
	if override.Name != "" {
		out.Name = override.Name
	}
	if override.Version != "" {
		out.Version = override.Version
	}
	if override.Description != "" {
		out.Description = override.Description
	}
	if override.Author != "" {
		out.Author = override.Author
	}
	if len(override.Dependencies) > 0 {
		out.Dependencies = override.Dependencies
	}
	if len(override.Hooks) > 0 {
		out.Hooks = override.Hooks
	}
	if len(override.ConfigSchema) > 0 {
		out.ConfigSchema = override.ConfigSchema
	}
	return out
}
