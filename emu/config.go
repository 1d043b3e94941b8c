package emu

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/kirsle/configdir"

	"tano/emu/log"
)

type Config struct {
	Machine MachineConfig `toml:"machine"`

	TraceOut  io.WriteCloser `toml:"-"`
	TraceJSON bool           `toml:"-"`
}

type MachineConfig struct {
	// Model selects the CPU fitted to the board: "6809" (stock) or "6309".
	Model string `toml:"model"`
	// BasicROM is the path of the BASIC ROM image, if not given on the
	// command line.
	BasicROM string `toml:"basic_rom"`
}

var ConfigDir string = sync.OnceValue(func() string {
	dir := configdir.LocalConfig("tano")
	if err := configdir.MakePath(dir); err != nil {
		log.ModEmu.Fatalf("failed to create directory %s: %v", dir, err)
	}
	return dir
})()

const cfgFilename = "config.toml"

// LoadConfigOrDefault loads the configuration from the tano config
// directory, or provides a default one.
func LoadConfigOrDefault() Config {
	var cfg Config
	_, err := toml.DecodeFile(filepath.Join(ConfigDir, cfgFilename), &cfg)
	if err != nil {
		return Config{Machine: MachineConfig{Model: "6809"}}
	}
	if cfg.Machine.Model == "" {
		cfg.Machine.Model = "6809"
	}
	return cfg
}

// SaveConfig into the tano config directory.
func SaveConfig(cfg Config) error {
	buf, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(ConfigDir, cfgFilename), buf, 0644)
}
