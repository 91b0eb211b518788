package metrics

import "github.com/prometheus/client_golang/prometheus"

// WorkspaceStatFunc returns workspace registry statistics without importing
// the registry package.
type WorkspaceStatFunc func() (total, authenticated, recording int)

// workspaceCollector implements prometheus.Collector for workspace stats.
type workspaceCollector struct {
	statFunc WorkspaceStatFunc

	totalDesc         *prometheus.Desc
	authenticatedDesc *prometheus.Desc
	recordingDesc     *prometheus.Desc
}

// NewWorkspaceCollector creates a collector that exposes workspace gauges.
func NewWorkspaceCollector(statFunc WorkspaceStatFunc) prometheus.Collector {
	return &workspaceCollector{
		statFunc: statFunc,
		totalDesc: prometheus.NewDesc(
			"lenga_workspace_total",
			"Total number of live browser workspaces.",
			nil, nil,
		),
		authenticatedDesc: prometheus.NewDesc(
			"lenga_workspace_authenticated",
			"Number of workspaces bound to a signed-in session.",
			nil, nil,
		),
		recordingDesc: prometheus.NewDesc(
			"lenga_workspace_recording",
			"Number of workspaces with an open audio capture.",
			nil, nil,
		),
	}
}

// Describe sends the descriptors of each metric to the channel.
func (c *workspaceCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.totalDesc
	ch <- c.authenticatedDesc
	ch <- c.recordingDesc
}

// Collect fetches registry stats and sends them as metrics.
func (c *workspaceCollector) Collect(ch chan<- prometheus.Metric) {
	total, authenticated, recording := c.statFunc()
	ch <- prometheus.MustNewConstMetric(c.totalDesc, prometheus.GaugeValue, float64(total))
	ch <- prometheus.MustNewConstMetric(c.authenticatedDesc, prometheus.GaugeValue, float64(authenticated))
	ch <- prometheus.MustNewConstMetric(c.recordingDesc, prometheus.GaugeValue, float64(recording))
}
