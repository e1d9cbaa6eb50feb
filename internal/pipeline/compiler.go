package pipeline

import (
	"fmt"

	"tidyseries/internal/config"
	"tidyseries/internal/spec"
	"tidyseries/sink"
	csvsink "tidyseries/sink/csvfile"
	kafkasink "tidyseries/sink/kafka"
	"tidyseries/sink/stdout"
	xlsxsink "tidyseries/sink/xlsx"
	"tidyseries/source"
)

// Compile loads the pipeline file at path (defaults when it is absent) and
// returns a Runner with its source and sinks configured. The parsed file
// stays available through Runner.Spec.
func Compile(path string) (*Runner, error) {
	cfg, confPath, err := config.LoadPipelineSpec(path)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	r := NewRunner()
	r.cfg = cfg
	if err := build(cfg, confPath, r); err != nil {
		return nil, err
	}
	return r, nil
}

// build wires the source and sinks named in cfg into r. The source is
// configured first so a missing input fails before any sink is touched.
func build(cfg spec.File, confPath string, r *Runner) error {
	if cfg.Source.Kind != config.SourceKindWideTable {
		return fmt.Errorf("unsupported source %q", cfg.Source.Kind)
	}
	sc, err := config.LoadSourceConfig(confPath)
	if err != nil {
		return err
	}

	src, err := source.NewAdapter(cfg.Source.Driver)
	if err != nil {
		return err
	}
	if err = src.Configure(sc); err != nil {
		return err
	}
	r.SetSource(src, sc.Series, sc.Years)

	for _, name := range cfg.Sinks {
		sDrv, err := sink.NewAdapter(name)
		if err != nil {
			return err
		}

		switch name {
		case "csv":
			var comma rune
			comma, err = source.ParseDelimiter(cfg.SinkConfigs.CSV.Delimiter)
			if err == nil {
				err = sDrv.Configure(csvsink.Config{
					Path:  cfg.SinkConfigs.CSV.Path,
					Comma: comma,
				})
			}
		case "xlsx":
			err = sDrv.Configure(xlsxsink.Config{
				Path:  cfg.SinkConfigs.XLSX.Path,
				Sheet: cfg.SinkConfigs.XLSX.Sheet,
			})
		case "stdout":
			err = sDrv.Configure(stdout.Config{
				PrintCounter: cfg.SinkConfigs.Stdout.PrintCounter,
				MaxRows:      cfg.SinkConfigs.Stdout.MaxRows,
			})
		case "kafka":
			err = sDrv.Configure(kafkasink.Config{
				Brokers: cfg.SinkConfigs.Kafka.Brokers,
				Topic:   cfg.SinkConfigs.Kafka.Topic,
				Acks:    cfg.SinkConfigs.Kafka.Acks,
			})
		default:
			err = fmt.Errorf("no config block for sink %q", name)
		}
		if err != nil {
			r.Abort()
			return fmt.Errorf("sink %s: %w", name, err)
		}
		r.AddSink(sDrv)
	}
	return nil
}
