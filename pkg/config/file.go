package config

import (
	"math"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/poweralertd/poweralertd/pkg/utils/ptr"
)

var (
	defaultFileConfig = &RawFileConfig{
		AppName:             ptr.To("poweralertd"),
		WaitIntervalSeconds: ptr.To(10),
		ExpireTimeoutMs:     ptr.To(-1),
		IgnoreInitial:       ptr.To(false),
	}
)

// DefaultPath is $XDG_CONFIG_HOME/poweralertd/config.toml.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, "poweralertd", "config.toml")
}

var _ Config = &File{}

type File struct {
	c        *RawFileConfig
	mu       *sync.RWMutex
	filepath string
}

func NewFile(configPath string) (*File, error) {
	f := &File{
		filepath: configPath,
		mu:       &sync.RWMutex{},
	}
	err := f.Load()
	if err != nil {
		return nil, err
	}

	return f, nil
}

// NewFileFromConfig wraps c without validating it; out-of-range values
// are clamped by the accessors.
func NewFileFromConfig(c *RawFileConfig, configPath string) *File {
	if c == nil {
		c = defaultFileConfig
	}

	f := &File{
		c:        c,
		mu:       &sync.RWMutex{},
		filepath: configPath,
	}

	return f
}

type RawFileConfig struct {
	AppName             *string `koanf:"app_name"`
	WaitIntervalSeconds *int    `koanf:"wait_interval_seconds"`
	ExpireTimeoutMs     *int    `koanf:"expire_timeout_ms"`
	IgnoreInitial       *bool   `koanf:"ignore_initial"`
}

func (c *RawFileConfig) validate() error {
	if c.WaitIntervalSeconds != nil && *c.WaitIntervalSeconds < 1 {
		return pkgerrors.Errorf("wait_interval_seconds must be at least 1, got %d", *c.WaitIntervalSeconds)
	}
	if c.ExpireTimeoutMs != nil && (*c.ExpireTimeoutMs < -1 || *c.ExpireTimeoutMs > math.MaxInt32) {
		return pkgerrors.Errorf("expire_timeout_ms must be -1 or a non-negative int32, got %d", *c.ExpireTimeoutMs)
	}
	return nil
}

func (f *File) AppName() string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.c == nil {
		panic("config is nil")
	}

	if f.c.AppName != nil && *f.c.AppName != "" {
		return *f.c.AppName
	}
	return *defaultFileConfig.AppName
}

func (f *File) WaitInterval() time.Duration {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.c == nil {
		panic("config is nil")
	}

	seconds := *defaultFileConfig.WaitIntervalSeconds
	if f.c.WaitIntervalSeconds != nil {
		seconds = *f.c.WaitIntervalSeconds
	}
	// A zero timer would spin the main loop.
	if seconds < 1 {
		seconds = 1
	}

	return time.Duration(seconds) * time.Second
}

func (f *File) ExpireTimeout() int32 {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.c == nil {
		panic("config is nil")
	}

	timeout := *defaultFileConfig.ExpireTimeoutMs
	if f.c.ExpireTimeoutMs != nil {
		timeout = *f.c.ExpireTimeoutMs
	}
	if timeout < -1 || timeout > math.MaxInt32 {
		timeout = -1
	}

	return int32(timeout)
}

func (f *File) IgnoreInitial() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.c == nil {
		panic("config is nil")
	}

	if f.c.IgnoreInitial != nil {
		return *f.c.IgnoreInitial
	}
	return *defaultFileConfig.IgnoreInitial
}

// Load reads the TOML file. A missing or empty file yields the defaults.
// On error the previously loaded values are kept.
func (f *File) Load() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	st, err := os.Stat(f.filepath)
	if err != nil {
		if os.IsNotExist(err) {
			// Do not make f.c a nil.
			f.c = &RawFileConfig{}
			return nil
		}
		return pkgerrors.Wrapf(err, "failed to stat file %s", f.filepath)
	}
	if st.Size() == 0 {
		f.c = &RawFileConfig{}
		return nil
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(f.filepath), toml.Parser()); err != nil {
		return pkgerrors.Wrapf(err, "failed to parse config from file %s", f.filepath)
	}

	conf := RawFileConfig{}
	if err := k.Unmarshal("", &conf); err != nil {
		return pkgerrors.Wrapf(err, "failed to unmarshal config from file %s", f.filepath)
	}
	if err := conf.validate(); err != nil {
		return pkgerrors.Wrapf(err, "invalid config in file %s", f.filepath)
	}
	f.c = &conf

	return nil
}

// Save writes the effective configuration, defaults included.
func (f *File) Save() error {
	if !f.loaded() {
		return pkgerrors.New("config is nil")
	}

	k := koanf.New(".")
	for key, value := range map[string]interface{}{
		"app_name":              f.AppName(),
		"wait_interval_seconds": int(f.WaitInterval() / time.Second),
		"expire_timeout_ms":     int(f.ExpireTimeout()),
		"ignore_initial":        f.IgnoreInitial(),
	} {
		if err := k.Set(key, value); err != nil {
			return pkgerrors.Wrapf(err, "failed to set %s", key)
		}
	}

	b, err := k.Marshal(toml.Parser())
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to encode config")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	if err := os.MkdirAll(filepath.Dir(f.filepath), 0755); err != nil {
		return pkgerrors.Wrapf(err, "failed to create directory for %s", f.filepath)
	}
	if err := os.WriteFile(f.filepath, b, 0644); err != nil {
		return pkgerrors.Wrapf(err, "failed to write file %s", f.filepath)
	}

	return nil
}

func (f *File) loaded() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return f.c != nil
}

func (f *File) Path() string {
	return f.filepath
}

func (f *File) LogrusFields() logrus.Fields {
	if !f.loaded() {
		panic("config is nil")
	}

	return logrus.Fields{
		"path":          f.filepath,
		"appName":       f.AppName(),
		"waitInterval":  f.WaitInterval().String(),
		"expireTimeout": f.ExpireTimeout(),
		"ignoreInitial": f.IgnoreInitial(),
	}
}
