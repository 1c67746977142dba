package metrics

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/safing/pqbase/info"
)

func registerInfoMetric() {
	meta := info.GetInfo()
	set.GetOrCreateGauge(fmt.Sprintf(
		`pqbase_info{version=%q,commit=%q,build_time=%q,go_os=%q,go_arch=%q,go_version=%q,circl=%q}`,
		checkUnknown(meta.Version),
		checkUnknown(meta.Commit),
		checkUnknown(meta.BuildTime),
		runtime.GOOS,
		runtime.GOARCH,
		runtime.Version(),
		checkUnknown(info.DependencyVersion("github.com/cloudflare/circl")),
	), func() float64 {
		return 1
	})
}

func checkUnknown(s string) string {
	if s == "" || strings.Contains(s, "unknown") {
		return "unknown"
	}
	return s
}
