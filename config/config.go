package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

type Config struct {
	LogLevel string

	RabbitMqHost     string
	RabbitMqPort     string
	RabbitMqUser     string
	RabbitMqPassword string
	ListenQueue      string
	WriteQueue       string
	JobWorkers       int

	TempDirPath     string
	TempMaxAgeHours int
	SweepChance     float64

	FontsDirPath string

	FFmpeg  string
	FFprobe string

	Status struct {
		Pending string
		Success string
		Fail    string
	}
}

func Load() Config {
	err := godotenv.Load(".env")
	if err != nil {
		log.Println("Could not load the .env file")
	}

	c := Config{}
	c.LogLevel = cast.ToString(getOrReturnDefault("LOG_LEVEL", "debug"))

	c.RabbitMqHost = cast.ToString(getOrReturnDefault("RABBITMQ_HOST", "localhost"))
	c.RabbitMqPort = cast.ToString(getOrReturnDefault("RABBITMQ_PORT", "5672"))
	c.RabbitMqUser = cast.ToString(getOrReturnDefault("RABBITMQ_USER", "user"))
	c.RabbitMqPassword = cast.ToString(getOrReturnDefault("RABBITMQ_PASSWORD", "secret"))

	c.ListenQueue = cast.ToString(getOrReturnDefault("LISTEN_QUEUE", "media_jobs"))
	c.WriteQueue = cast.ToString(getOrReturnDefault("WRITE_QUEUE", "media_job_status"))
	c.JobWorkers = cast.ToInt(getOrReturnDefault("JOB_WORKERS", 1))

	c.TempDirPath = cast.ToString(getOrReturnDefault("TEMP_DIR_PATH", "temp_mediafx"))
	c.TempMaxAgeHours = cast.ToInt(getOrReturnDefault("TEMP_MAX_AGE_HOURS", 24))
	c.SweepChance = cast.ToFloat64(getOrReturnDefault("TEMP_SWEEP_CHANCE", 0.1))

	c.FontsDirPath = cast.ToString(getOrReturnDefault("FONTS_DIR_PATH", "fonts"))

	// Empty means discover the binary from PATH and known install locations
	c.FFmpeg = cast.ToString(getOrReturnDefault("FFMPEG", ""))
	c.FFprobe = cast.ToString(getOrReturnDefault("FFPROBE", ""))

	c.Status = struct {
		Pending string
		Success string
		Fail    string
	}{
		Pending: "pending",
		Success: "success",
		Fail:    "fail",
	}

	return c
}

func getOrReturnDefault(key string, defaultValue interface{}) interface{} {
	_, exists := os.LookupEnv(key)
	if exists {
		return os.Getenv(key)
	}

	return defaultValue
}
