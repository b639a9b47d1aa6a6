package configuration

import "time"

type StatisticsConfig struct {
	Enabled bool `json:"enabled"`
	// Textfile is the path of the prometheus text file, usually picked up by the node_exporter textfile collector
	Textfile string        `json:"textfile"`
	Interval time.Duration `json:"interval"`
}
