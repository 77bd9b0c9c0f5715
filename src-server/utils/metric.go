package utils

type Metric struct {
	DatabaseRead  chan float64
	UpstreamFetch chan float64
	ReportRows    chan float64
	Export        chan float64
}

func NewMetric() *Metric {
	return &Metric{
		DatabaseRead:  make(chan float64),
		UpstreamFetch: make(chan float64),
		ReportRows:    make(chan float64),
		Export:        make(chan float64),
	}
}
