// FILE: trackwisp/src/internal/config/logging.go
package config

import "fmt"

// LogConfig is the [logging] section. Output selects where process logs go:
// stderr, stdout, file, both (file plus console) or none.
type LogConfig struct {
	Output string `toml:"output"`
	Level  string `toml:"level"`
	Format string `toml:"format"` // txt or json

	// Console stream when output is "both"; split sends warn and error to stderr
	Console string `toml:"console"`

	File *RotatedFile `toml:"file"`
}

// RotatedFile is a size-rotated set of files written through the log
// library. The process log and the file discard sink both use it.
type RotatedFile struct {
	Directory      string  `toml:"directory"`
	Name           string  `toml:"name"`
	MaxSizeMB      int64   `toml:"max_size_mb"`
	MaxTotalSizeMB int64   `toml:"max_total_size_mb"`
	RetentionHours float64 `toml:"retention_hours"` // 0 keeps everything
}

func defaultRotatedFile(name string) *RotatedFile {
	return &RotatedFile{
		Directory:      "./log",
		Name:           name,
		MaxSizeMB:      100,
		MaxTotalSizeMB: 1000,
		RetentionHours: 168,
	}
}

// DefaultLogConfig logs at info level to stderr
func DefaultLogConfig() *LogConfig {
	return &LogConfig{
		Output:  "stderr",
		Level:   "info",
		Format:  "txt",
		Console: "stderr",
		File:    defaultRotatedFile("trackwisp"),
	}
}

// LogArgs renders the file set as log library "key=value" overrides
func (f *RotatedFile) LogArgs() []string {
	args := []string{
		"directory=" + f.Directory,
		"name=" + f.Name,
		fmt.Sprintf("max_size_mb=%d", f.MaxSizeMB),
		fmt.Sprintf("max_total_size_mb=%d", f.MaxTotalSizeMB),
	}
	if f.RetentionHours > 0 {
		args = append(args, fmt.Sprintf("retention_period_hrs=%.1f", f.RetentionHours))
	}
	return args
}
