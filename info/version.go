package info

import (
	"errors"
	"fmt"
	"runtime"
	"runtime/debug"
	"sort"
	"strings"
	"sync"
	"testing"
)

const unknown = "unknown"

var (
	name        string
	version     = "dev build"
	license     string
	buildSource = "[source unknown]"
	buildTime   = "[build time unknown]"

	info     *Info
	loadInfo sync.Once

	// modules shown in the full version
	highlightedDeps []string
)

// Info describes the running program.
type Info struct {
	Name    string
	Version string
	License string

	Source    string
	BuildTime string

	Commit     string
	CommitTime string
	Dirty      bool

	// Dependencies maps module paths to the version linked into the binary.
	Dependencies map[string]string
}

// Set sets the program meta data. Call it first thing in main.
func Set(setName, setVersion, setLicense string) {
	name = setName
	license = setLicense
	if setVersion != "" {
		version = setVersion
	}
}

// Highlight adds module paths whose versions are part of FullVersion.
func Highlight(modulePaths ...string) {
	highlightedDeps = append(highlightedDeps, modulePaths...)
}

// GetInfo returns the program meta data, read from the build info on first use.
func GetInfo() *Info {
	loadInfo.Do(func() {
		info = &Info{
			Name:         name,
			Version:      version,
			License:      license,
			Source:       buildSource,
			BuildTime:    buildTime,
			Commit:       "[commit unknown]",
			CommitTime:   "[commit time unknown]",
			Dependencies: make(map[string]string),
		}

		buildInfo, ok := debug.ReadBuildInfo()
		if !ok {
			return
		}
		for _, setting := range buildInfo.Settings {
			switch setting.Key {
			case "vcs.revision":
				info.Commit = setting.Value
			case "vcs.time":
				info.CommitTime = setting.Value
			case "vcs.modified":
				info.Dirty = setting.Value == "true"
			}
		}
		for _, dep := range buildInfo.Deps {
			if dep.Replace != nil {
				dep = dep.Replace
			}
			info.Dependencies[dep.Path] = dep.Version
		}
	})

	return info
}

// DependencyVersion returns the linked version of a module, or "unknown".
func DependencyVersion(modulePath string) string {
	if v := GetInfo().Dependencies[modulePath]; v != "" {
		return v
	}
	return unknown
}

// Version returns the version, marked with a "*" for dirty builds.
func Version() string {
	if GetInfo().Dirty {
		return version + "*"
	}
	return version
}

// FullVersion returns a multi line description of the build.
func FullVersion() string {
	info := GetInfo()

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n\n", info.Name, Version())
	fmt.Fprintf(&b, "built with %s (%s) %s/%s\n", runtime.Version(), runtime.Compiler, runtime.GOOS, runtime.GOARCH)
	fmt.Fprintf(&b, "  at %s\n\n", info.BuildTime)
	fmt.Fprintf(&b, "commit %s\n", info.Commit)
	fmt.Fprintf(&b, "  at %s\n", info.CommitTime)
	fmt.Fprintf(&b, "  from %s\n", info.Source)

	if len(highlightedDeps) > 0 {
		deps := append([]string(nil), highlightedDeps...)
		sort.Strings(deps)
		b.WriteString("\nlinked with\n")
		for _, dep := range deps {
			fmt.Fprintf(&b, "  %s %s\n", dep, DependencyVersion(dep))
		}
	}

	fmt.Fprintf(&b, "\nLicensed under the %s license.", info.License)
	return b.String()
}

// CheckVersion returns an error if Set was not called. Tests are exempt.
func CheckVersion() error {
	if testing.Testing() {
		return nil
	}
	if name == "" || license == "" {
		return errors.New("must call info.Set() before starting")
	}
	return nil
}
