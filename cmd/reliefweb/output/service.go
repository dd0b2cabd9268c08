package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// Manager writes the artifacts of one run into a timestamped directory and
// tees the run's log into logs/app.log inside it.
type Manager struct {
	baseDir   string
	timestamp string
	logFile   *os.File
	log       zerolog.Logger
}

// NewManager creates <baseDir>/<timestamp> and its logs directory. console
// receives the same log lines as the log file; pass nil to log to the file only.
func NewManager(baseDir string, console io.Writer) (*Manager, error) {
	timestamp := time.Now().Format("20060102_150405")

	outputPath := filepath.Join(baseDir, timestamp)
	logsDir := filepath.Join(outputPath, "logs")
	if err := os.MkdirAll(logsDir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("failed to create logs directory: %w", err)
	}

	logFile, err := os.Create(filepath.Join(logsDir, "app.log"))
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}

	var w io.Writer = logFile
	if console != nil {
		w = zerolog.MultiLevelWriter(console, logFile)
	}

	return &Manager{
		baseDir:   outputPath,
		timestamp: timestamp,
		logFile:   logFile,
		log:       zerolog.New(w).With().Timestamp().Caller().Logger(),
	}, nil
}

// WriteToJSON writes data as indented JSON to <prefix>_<timestamp>.json and
// returns the file path.
func (om *Manager) WriteToJSON(data interface{}, prefix string) (string, error) {
	filename := fmt.Sprintf("%s_%s.json", prefix, om.timestamp)
	outputPath := filepath.Join(om.baseDir, filename)

	file, err := os.Create(outputPath)
	if err != nil {
		return "", fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return "", fmt.Errorf("failed to encode data to JSON: %w", err)
	}

	om.log.Debug().
		Str("file", outputPath).
		Str("prefix", prefix).
		Msg("Wrote data to JSON file")

	return outputPath, nil
}

// Logger returns the logger writing to the run's log file.
func (om *Manager) Logger() *zerolog.Logger {
	return &om.log
}

// BaseDir returns the timestamped output directory.
func (om *Manager) BaseDir() string {
	return om.baseDir
}

// Close closes the log file.
func (om *Manager) Close() error {
	return om.logFile.Close()
}

// WriteText writes content to dir/name, creating dir when needed, and
// returns the file path.
func WriteText(dir, name, content string) (string, error) {
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return "", fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to write file %s: %w", path, err)
	}
	return path, nil
}
