package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(buildInfo)
}

var buildInfo = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "build_info",
		Help: "A constant metric labelled with version, commit and registry backend.",
	},
	[]string{"version", "commit", "registry"},
)

func SetBuildInfo(version, commit, registryBackend string) {
	buildInfo.WithLabelValues(version, commit, norm(registryBackend)).Set(1)
}
