package jit

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes the environment variables read by LoadEnv.
const EnvPrefix = "JITCSS_"

// Env holds the process-wide switches read from the environment.
type Env struct {
	// Debug prints timings and cache sizes for every build.
	Debug bool
	// Mode is "watch" for long-running builds and "build" for one-off
	// builds.
	Mode string
	// DisableTouch polls candidate files on every build instead of watching
	// them and touching a dependency file.
	DisableTouch bool
	// TouchDir is where touch files are created. Empty means the system
	// temp directory.
	TouchDir string
	// FlatDirDependencies reports glob dependencies as plain dependencies
	// on their base directory, for hosts that cannot watch a glob.
	FlatDirDependencies bool
}

// Watching reports whether contexts get a file watcher.
func (e Env) Watching() bool {
	return !e.DisableTouch && e.Mode == "watch"
}

// LoadEnv reads JITCSS_DEBUG, JITCSS_MODE, JITCSS_DISABLE_TOUCH,
// JITCSS_TOUCH_DIR and JITCSS_FLAT_DIR_DEPENDENCIES.
func LoadEnv() (Env, error) {
	k := koanf.New(".")
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		// JITCSS_DISABLE_TOUCH -> disable_touch
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return Env{}, fmt.Errorf("loading environment variables: %w", err)
	}

	e := Env{
		Debug:               flag(k, "debug"),
		Mode:                k.String("mode"),
		DisableTouch:        flag(k, "disable_touch"),
		TouchDir:            k.String("touch_dir"),
		FlatDirDependencies: flag(k, "flat_dir_dependencies"),
	}
	if e.Mode == "" {
		e.Mode = "build"
	}
	return e, nil
}

// flag treats a set variable as true unless it is "0" or "false".
func flag(k *koanf.Koanf, key string) bool {
	if !k.Exists(key) {
		return false
	}
	switch strings.ToLower(k.String(key)) {
	case "0", "false":
		return false
	}
	return true
}
