package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/and3rn3t/net-traffic-sub002/internal/detect"
)

// Snapshot is the full service configuration: transport addresses, store
// capacities, and the detection thresholds handed to the engine.
type Snapshot struct {
	HTTPAddr        string `yaml:"http_addr" json:"http_addr"`
	NATSURL         string `yaml:"nats_url" json:"nats_url"`
	SnapshotSubject string `yaml:"snapshot_subject" json:"snapshot_subject"`
	FindingsSubject string `yaml:"findings_subject" json:"findings_subject"`
	ConfigSubject   string `yaml:"config_subject" json:"config_subject"`

	MaxFindings        int `yaml:"max_findings" json:"max_findings"`
	DedupeCap          int `yaml:"dedupe_cap" json:"dedupe_cap"`
	DedupeCooldownSec  int `yaml:"dedupe_cooldown_sec" json:"dedupe_cooldown_sec"`

	ThresholdsFile string            `yaml:"thresholds_file" json:"thresholds_file"`
	Thresholds     detect.Thresholds `yaml:"thresholds" json:"thresholds"`
}

// FromEnv builds a configuration snapshot from environment variables with
// reference defaults. When ANOMALY_THRESHOLDS_FILE is set, the YAML file
// overrides the default thresholds.
func FromEnv() (*Snapshot, error) {
	snap := &Snapshot{
		HTTPAddr:          getEnv("ANOMALY_HTTP_ADDR", ":8080"),
		NATSURL:           getEnv("ANOMALY_NATS_URL", "nats://localhost:4222"),
		SnapshotSubject:   getEnv("ANOMALY_SNAPSHOT_SUBJECT", "flows.snapshot"),
		FindingsSubject:   getEnv("ANOMALY_FINDINGS_SUBJECT", "anomaly.findings"),
		ConfigSubject:     getEnv("ANOMALY_CONFIG_SUBJECT", "anomaly.config.thresholds"),
		MaxFindings:       getEnvInt("ANOMALY_MAX_FINDINGS", 10000),
		DedupeCap:         getEnvInt("ANOMALY_DEDUPE_CAP", 100000),
		DedupeCooldownSec: getEnvInt("ANOMALY_DEDUPE_COOLDOWN_SEC", 300),
		ThresholdsFile:    getEnv("ANOMALY_THRESHOLDS_FILE", ""),
		Thresholds:        detect.DefaultThresholds(),
	}

	if snap.ThresholdsFile != "" {
		thresholds, err := LoadThresholdsFile(snap.ThresholdsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load thresholds file: %w", err)
		}
		snap.Thresholds = thresholds
	}

	return snap, nil
}

// LoadThresholdsFile reads detection thresholds from a YAML file. Fields
// omitted from the file keep their reference defaults.
func LoadThresholdsFile(path string) (detect.Thresholds, error) {
	thresholds := detect.DefaultThresholds()

	data, err := os.ReadFile(path)
	if err != nil {
		return thresholds, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &thresholds); err != nil {
		return thresholds, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return thresholds, nil
}

// getEnv returns the environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the environment variable as an integer or a default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
