package spec

type CSVSink struct {
	Path      string `yaml:"path"`
	Delimiter string `yaml:"delimiter"`
}

type XLSXSink struct {
	Path  string `yaml:"path"`
	Sheet string `yaml:"sheet"`
}

type StdoutSink struct {
	PrintCounter bool `yaml:"print_counter"`
	MaxRows      int  `yaml:"max_rows"` // 0 = unlimited
}

type KafkaSink struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
	Acks    int16    `yaml:"required_acks"` // 0,1,-1
}

type sinkConfigs struct {
	CSV    CSVSink    `yaml:"csv"`
	XLSX   XLSXSink   `yaml:"xlsx"`
	Stdout StdoutSink `yaml:"stdout"`
	Kafka  KafkaSink  `yaml:"kafka"`
}

type File struct {
	SchemaVersion string `yaml:"schema_version"`

	Source struct {
		Kind   string `yaml:"kind"`   // "wide_table"
		Driver string `yaml:"driver"` // "csv", "xlsx", "xls"
		Config string `yaml:"config"`
	} `yaml:"source"`

	// Every sink receives every row; the run fails if any of them fails.
	Sinks       []string    `yaml:"sinks"`
	SinkConfigs sinkConfigs `yaml:"sink_configs"`

	Telemetry struct {
		MetricsPort int `yaml:"metrics_port"`
	} `yaml:"telemetry"`

	Logging struct {
		Level string `yaml:"level"`
		JSON  bool   `yaml:"json"`
	} `yaml:"logging"`
}
