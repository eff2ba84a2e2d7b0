package config

import (
	"log/slog"
	"testing"
)

func TestLoadConfig_MemoryDefaults(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("KAFKA_BROKERS", " kafka-1:9092, ,kafka-2:9092")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("REJECTION_POLICY", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Port = %s, want 8080", cfg.Port)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("LogLevel = %v, want debug", cfg.LogLevel)
	}
	if len(cfg.Kafka.Brokers) != 2 || cfg.Kafka.Brokers[1] != "kafka-2:9092" {
		t.Errorf("Kafka.Brokers = %v", cfg.Kafka.Brokers)
	}
	if cfg.RejectionPolicy != "delete" {
		t.Errorf("RejectionPolicy = %s, want delete", cfg.RejectionPolicy)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "postgres without url", cfg: Config{StorageDriver: "postgres", RejectionPolicy: "delete"}, wantErr: true},
		{name: "postgres with url", cfg: Config{StorageDriver: "postgres", DatabaseURL: "postgres://x", RejectionPolicy: "delete"}},
		{name: "unknown driver", cfg: Config{StorageDriver: "sqlite", RejectionPolicy: "delete"}, wantErr: true},
		{name: "bad rejection policy", cfg: Config{StorageDriver: "memory", RejectionPolicy: "archive"}, wantErr: true},
		{name: "cancel policy", cfg: Config{StorageDriver: "memory", RejectionPolicy: "cancel"}},
		{name: "production needs casdoor", cfg: Config{StorageDriver: "memory", RejectionPolicy: "delete", Environment: "production"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
