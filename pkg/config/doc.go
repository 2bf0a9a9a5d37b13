// Package config holds process-wide knobs that sit outside the pure
// scheduling function's input: log level/format, the metrics bind address,
// the history cache path and retention, and the cluster-recheck-interval
// floor. It is a plain struct populated from a YAML file, mirroring the
// teacher's manager.Config: no framework, no defaults hidden behind tags
// that surprise a reader — Load fills in defaults explicitly.
package config
