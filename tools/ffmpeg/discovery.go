package ffmpeg

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
)

// Strategy locates one candidate path for a binary. An empty result means
// the strategy has nothing to offer and the next one is tried.
type Strategy func(name string) string

// FromPath resolves a fixed path from configuration
func FromPath(path string) Strategy {
	return func(string) string { return path }
}

// FromEnv resolves the binary from an environment variable
func FromEnv(key string) Strategy {
	return func(string) string { return os.Getenv(key) }
}

// FromLookPath resolves the binary from PATH
func FromLookPath() Strategy {
	return func(name string) string {
		p, err := exec.LookPath(name)
		if err != nil {
			return ""
		}
		return p
	}
}

// FromKnownLocations checks common install directories
func FromKnownLocations() Strategy {
	dirs := []string{
		"/usr/local/bin",
		"/usr/bin",
		"/opt/homebrew/bin",
		"/opt/ffmpeg/bin",
	}
	return func(name string) string {
		for _, d := range dirs {
			p := d + "/" + name
			if isExecutableFile(p) {
				return p
			}
		}
		return ""
	}
}

// DefaultStrategies is the lookup order used when none is injected
func DefaultStrategies(configured string) []Strategy {
	return []Strategy{
		FromPath(configured),
		FromEnv("FFMPEG_PATH"),
		FromLookPath(),
		FromKnownLocations(),
	}
}

// Discover walks the strategies in order and returns the first candidate
// that exists and can be executed. Binaries shipped without the execute
// bit are repaired on unix systems.
func Discover(name string, strategies []Strategy) (string, error) {
	for _, s := range strategies {
		p := s(name)
		if p == "" {
			continue
		}

		info, err := os.Stat(p)
		if err != nil || info.IsDir() {
			continue
		}

		if runtime.GOOS != "windows" && info.Mode()&0111 == 0 {
			if err := os.Chmod(p, 0755); err != nil {
				continue
			}
		}

		return p, nil
	}

	return "", fmt.Errorf("%s binary not found in any known location", name)
}

func isExecutableFile(p string) bool {
	info, err := os.Stat(p)
	if err != nil || info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode()&0111 != 0
}
