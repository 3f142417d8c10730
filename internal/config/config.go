package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config is the service-wide configuration, loaded from YAML with
// environment-variable overrides: file first, env second, defaults fill
// the rest.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	NATS       NATSConfig       `yaml:"nats"`
	MinIO      MinIOConfig      `yaml:"minio"`
	Storage    StorageConfig    `yaml:"storage"`
	Pipeline   PipelineConfig   `yaml:"pipeline"`
	Background BackgroundConfig `yaml:"background"`
	Blob       BlobConfig       `yaml:"blob"`
	Tracker    TrackerConfig    `yaml:"tracker"`
	Logging    LoggingConfig    `yaml:"logging"`
}

type ServerConfig struct {
	Port   int    `yaml:"port"`
	APIKey string `yaml:"api_key"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	MaxConns int    `yaml:"max_conns"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		d.User, d.Password, d.Host, d.Port, d.Name)
}

type NATSConfig struct {
	URL string `yaml:"url"`
}

type MinIOConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"use_ssl"`
}

// StorageConfig governs how long raw ingested frames are retained in
// MinIO once a stream has moved past them (count of most-recent frame
// objects kept per stream; the ingestor prunes older ones periodically).
type StorageConfig struct {
	FrameRetention int `yaml:"frame_retention"`
}

// PipelineConfig holds the frame-geometry and cadence knobs from spec
// §6's config table that apply to the whole per-stream pipeline rather
// than to one stage.
type PipelineConfig struct {
	FrameWidth         int `yaml:"frame_width"`  // norm_size width (320)
	FrameHeight        int `yaml:"frame_height"` // norm_size height (240)
	UpdateBackInterval int `yaml:"update_back_interval"`
	BuildBackCount     int `yaml:"build_back_count"`
	ProcessEveryNFrame int `yaml:"process_every_n_frame"`
	WorkerCount        int `yaml:"worker_count"`
}

// BackgroundConfig selects the background engine and its numeric regime.
type BackgroundConfig struct {
	Engine       string `yaml:"engine"`        // "mog" or "vibe"
	Regime       string `yaml:"regime"`        // "relaxed" or "strict" (mog only)
	ViBeDomain   string `yaml:"vibe_domain"`   // "color", "gray", "gradient"
	ViBeExtended bool   `yaml:"vibe_extended"` // maintain exponential-decay background mean
}

// BlobConfig mirrors the blob extractor's tunable knobs. cmd/worker copies
// every field over blob.DefaultConfig(), so a toggle left false disables
// that stage; zero numeric fields are filled by setDefaults.
type BlobConfig struct {
	MinArea           int     `yaml:"min_object_area"`
	MinAvgWidth       float64 `yaml:"min_avg_width"`
	MinAvgHeight      float64 `yaml:"min_avg_height"`
	CorrRatioCheck    bool    `yaml:"corr_ratio_check"`
	MergeVertical     bool    `yaml:"merge_vertical"`
	MergeHorizontal   bool    `yaml:"merge_horizontal"`
	MergeBigSmall     bool    `yaml:"merge_big_small"`
	RefineByShape     bool    `yaml:"refine_by_shape"`
	RefineByGrad      bool    `yaml:"refine_by_grad"`
	RefineByColor     bool    `yaml:"refine_by_color"`
	CharRegionEnabled bool    `yaml:"char_region_enabled"`
}

// TrackerConfig mirrors the tracker's association/record-mode knobs.
type TrackerConfig struct {
	MaxDistRectAndBlob      float64 `yaml:"max_dist_rect_and_blob"`
	MinRatioIntersectToSelf float64 `yaml:"min_ratio_intersect_to_self"`
	MinRatioIntersectToBlob float64 `yaml:"min_ratio_intersect_to_blob"`
	CheckTurnAround         bool    `yaml:"check_turn_around"`
	MinHistorySizeForOutput int     `yaml:"min_history_size_for_output"`
	RecordMode              string  `yaml:"record_mode"` // none, cross_tri_bound, cross_bottom, cross_line, multi
	MultiRecordNum          int     `yaml:"num_saved"`
	MultiRecordInterval     int     `yaml:"save_interval"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads config from YAML file and applies environment variable overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyEnvOverrides(cfg)
	setDefaults(cfg)

	return cfg, nil
}

func setDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.MaxConns == 0 {
		cfg.Database.MaxConns = 20
	}
	if cfg.Storage.FrameRetention == 0 {
		cfg.Storage.FrameRetention = 300
	}
	if cfg.Pipeline.FrameWidth == 0 {
		cfg.Pipeline.FrameWidth = 320
	}
	if cfg.Pipeline.FrameHeight == 0 {
		cfg.Pipeline.FrameHeight = 240
	}
	if cfg.Pipeline.UpdateBackInterval == 0 {
		cfg.Pipeline.UpdateBackInterval = 4
	}
	if cfg.Pipeline.BuildBackCount == 0 {
		cfg.Pipeline.BuildBackCount = 20
	}
	if cfg.Pipeline.ProcessEveryNFrame == 0 {
		cfg.Pipeline.ProcessEveryNFrame = 1
	}
	if cfg.Pipeline.WorkerCount == 0 {
		cfg.Pipeline.WorkerCount = 6
	}
	if cfg.Background.Engine == "" {
		cfg.Background.Engine = "mog"
	}
	if cfg.Background.Regime == "" {
		cfg.Background.Regime = "relaxed"
	}
	if cfg.Background.ViBeDomain == "" {
		cfg.Background.ViBeDomain = "color"
	}
	if cfg.Blob.MinArea == 0 {
		cfg.Blob.MinArea = 50
	}
	if cfg.Blob.MinAvgWidth == 0 {
		cfg.Blob.MinAvgWidth = 5
	}
	if cfg.Blob.MinAvgHeight == 0 {
		cfg.Blob.MinAvgHeight = 5
	}
	if cfg.Tracker.MaxDistRectAndBlob == 0 {
		cfg.Tracker.MaxDistRectAndBlob = 15
	}
	if cfg.Tracker.MinRatioIntersectToSelf == 0 {
		cfg.Tracker.MinRatioIntersectToSelf = 0.6
	}
	if cfg.Tracker.MinRatioIntersectToBlob == 0 {
		cfg.Tracker.MinRatioIntersectToBlob = 0.6
	}
	if cfg.Tracker.MinHistorySizeForOutput == 0 {
		cfg.Tracker.MinHistorySizeForOutput = 1
	}
	if cfg.Tracker.RecordMode == "" {
		cfg.Tracker.RecordMode = "none"
	}
	if cfg.Tracker.MultiRecordNum == 0 {
		cfg.Tracker.MultiRecordNum = 4
	}
	if cfg.Tracker.MultiRecordInterval == 0 {
		cfg.Tracker.MultiRecordInterval = 2
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("MVA_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("MVA_API_KEY"); v != "" {
		cfg.Server.APIKey = v
	}
	if v := os.Getenv("MVA_DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("MVA_DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = port
		}
	}
	if v := os.Getenv("MVA_DB_NAME"); v != "" {
		cfg.Database.Name = v
	}
	if v := os.Getenv("MVA_DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("MVA_DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("MVA_NATS_URL"); v != "" {
		cfg.NATS.URL = v
	}
	if v := os.Getenv("MVA_MINIO_ENDPOINT"); v != "" {
		cfg.MinIO.Endpoint = v
	}
	if v := os.Getenv("MVA_MINIO_ACCESS_KEY"); v != "" {
		cfg.MinIO.AccessKey = v
	}
	if v := os.Getenv("MVA_MINIO_SECRET_KEY"); v != "" {
		cfg.MinIO.SecretKey = v
	}
	if v := os.Getenv("MVA_MINIO_BUCKET"); v != "" {
		cfg.MinIO.Bucket = v
	}
	if v := os.Getenv("MVA_WORKER_COUNT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Pipeline.WorkerCount = n
		}
	}
	if v := os.Getenv("MVA_FRAME_WIDTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Pipeline.FrameWidth = n
		}
	}
}
