package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/creasty/defaults"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/blackroad/roadplugin/utils"
)

const (
	// EnvPrefix namespaces environment overrides: api.addr becomes
	// ROADPLUGIN_API_ADDR.
	EnvPrefix = "ROADPLUGIN"

	// FileName is the base name of discovered config files.
	FileName = "roadplugin"
)

// Loader merges config files with environment overrides and hands out
// typed snapshots. It can watch the merged files and rebuild on change.
type Loader struct {
	mu        sync.RWMutex
	v         *viper.Viper
	files     []string
	watchOnce sync.Once
	watcher   *fsnotify.Watcher
}

// NewLoader builds a Loader over the given YAML files, merged in
// order so later files win. Every explicit path must exist. With no
// paths it discovers the layered roadplugin.yaml set for the current
// run mode, and an empty discovery is fine.
func NewLoader(paths ...string) (*Loader, error) {
	files := paths
	if len(files) == 0 {
		files = SearchFiles()
	} else {
		for _, path := range files {
			if isDir, exists, _ := utils.Exists(path); !exists || isDir {
				return nil, fmt.Errorf("❌ Config file not found: %s", path)
			}
		}
	}

	v, err := buildViper(files)
	if err != nil {
		return nil, err
	}

	return &Loader{v: v, files: files}, nil
}

// Load is the one-shot path: merge, apply defaults, unmarshal.
func Load(paths ...string) (Config, error) {
	l, err := NewLoader(paths...)
	if err != nil {
		return Config{}, err
	}
	return l.Config()
}

// Config returns a typed snapshot of the current merged state.
func (l *Loader) Config() (Config, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var cfg Config
	if err := defaults.Set(&cfg); err != nil {
		return Config{}, fmt.Errorf("❌ Failed to set defaults: %w", err)
	}
	if err := l.v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("❌ Failed to unmarshal config (files: %s): %w",
			strings.Join(l.files, ", "), err)
	}
	if err := defaults.Set(&cfg); err != nil {
		return Config{}, fmt.Errorf("❌ Failed to set defaults after unmarshal: %w", err)
	}
	return cfg, nil
}

// Files returns the config files that were merged, in merge order.
func (l *Loader) Files() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]string, len(l.files))
	copy(out, l.files)
	return out
}

// Get reads one raw key from the merged state.
func (l *Loader) Get(key string) any {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.v.Get(key)
}

// Set writes one raw key into the merged state. File reloads discard it.
func (l *Loader) Set(key string, value any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.v.Set(key, value)
}

// Export writes the merged state to a single YAML file.
func (l *Loader) Export(path string) error {
	if path == "" {
		return fmt.Errorf("❌ Export path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return fmt.Errorf("❌ Failed to create directory %s: %w", filepath.Dir(path), err)
	}

	l.mu.RLock()
	defer l.mu.RUnlock()
	if err := l.v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("❌ Failed to write config to %s: %w", path, err)
	}
	return nil
}

// Watch rebuilds the merge whenever one of the files changes and hands
// the fresh snapshot to onChange. The first call wins; later calls are
// no-ops.
func (l *Loader) Watch(onChange func(Config)) error {
	if len(l.files) == 0 {
		return fmt.Errorf("❌ Nothing to watch: no config files were loaded")
	}

	var startErr error
	l.watchOnce.Do(func() {
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			startErr = fmt.Errorf("❌ Failed to start config watcher: %w", err)
			return
		}

		watched := make(map[string]bool, len(l.files))
		dirs := make(map[string]bool)
		for _, f := range l.files {
			abs, err := filepath.Abs(f)
			if err != nil {
				abs = f
			}
			watched[abs] = true
			dirs[filepath.Dir(abs)] = true
		}
		for dir := range dirs {
			if err := watcher.Add(dir); err != nil {
				watcher.Close()
				startErr = fmt.Errorf("❌ Failed to watch %s: %w", dir, err)
				return
			}
		}

		l.watcher = watcher
		go l.watchLoop(watcher, watched, onChange)
	})
	return startErr
}

func (l *Loader) watchLoop(watcher *fsnotify.Watcher, watched map[string]bool, onChange func(Config)) {
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil {
				abs = event.Name
			}
			if !watched[abs] {
				continue
			}
			if err := l.reload(); err != nil {
				fmt.Printf("❌ Config watch error: %v\n", err)
				continue
			}
			cfg, err := l.Config()
			if err != nil {
				fmt.Printf("❌ Config watch error: %v\n", err)
				continue
			}
			if onChange != nil {
				onChange(cfg)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			fmt.Printf("❌ Config watch error: %v\n", err)
		}
	}
}

func (l *Loader) reload() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	v, err := buildViper(l.files)
	if err != nil {
		return err
	}
	l.v = v
	return nil
}

// Close stops the watcher if one was started.
func (l *Loader) Close() error {
	if l.watcher != nil {
		return l.watcher.Close()
	}
	return nil
}

// buildViper merges each file into a fresh instance, then promotes
// matching environment variables over the file values.
func buildViper(files []string) (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	for _, file := range files {
		sub := viper.New()
		sub.SetConfigFile(file)
		if err := sub.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("❌ Error reading config file %s: %w", file, err)
		}
		for _, key := range sub.AllKeys() {
			v.Set(key, sub.Get(key))
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	applyEnvOverrides(v)

	return v, nil
}

// applyEnvOverrides promotes environment variables over values set
// during the merge, which would otherwise shadow them.
func applyEnvOverrides(v *viper.Viper) {
	replacer := strings.NewReplacer(".", "_", "-", "_")
	for _, key := range v.AllKeys() {
		envKey := EnvPrefix + "_" + strings.ToUpper(replacer.Replace(key))
		if envValue := os.Getenv(envKey); envValue != "" {
			v.Set(key, envValue)
		}
	}
}

// SearchFiles returns the layered config files that exist for the
// current run mode, most generic first. The base directory comes from
// ROADPLUGIN_CONFIG_PATH, falling back to the working directory.
func SearchFiles() []string {
	basePath := os.Getenv("ROADPLUGIN_CONFIG_PATH")
	if basePath == "" {
		basePath = "."
	}

	mode := CurrentMode()
	names := []string{
		FileName,
		FileName + ".local",
		fmt.Sprintf("%s.%s", FileName, mode),
		fmt.Sprintf("%s.%s.local", FileName, mode),
	}

	var files []string
	for _, name := range names {
		file := filepath.Join(basePath, name+".yaml")
		if isDir, exists, _ := utils.Exists(file); exists && !isDir {
			files = append(files, file)
		}
	}
	return files
}
