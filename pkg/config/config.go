package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	SQLite    SQLiteConfig
	Redis     RedisConfig
	Reddit    RedditConfig
	NLP       NLPConfig
	Scoring   ScoringConfig
	Keywords  KeywordsConfig
	Scheduler SchedulerConfig
	Logging   LoggingConfig
}

type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  int
	WriteTimeout int
	BodyLimit    int
}

type SQLiteConfig struct {
	Path string
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
	CacheTTL int
}

type RedditConfig struct {
	ClientID     string
	ClientSecret string
	UserAgent    string
	Subreddits   []string
	PostLimit    int
}

type NLPConfig struct {
	Advanced            bool
	ConfidenceThreshold float64
	ClassifierModel     string
	ClassifierAPIKey    string
	ClassifierTimeout   int
	BatchSize           int
}

type ScoringConfig struct {
	SimilarityThreshold float64
	MinPainPoints       int
	MinTotalScore       float64
}

type KeywordsConfig struct {
	Path string
}

type SchedulerConfig struct {
	Enabled bool
	Cron    string
}

type LoggingConfig struct {
	Level      string
	Format     string
	OutputPath string
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/saasfinder")

	viper.SetEnvPrefix("SAAS_FINDER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.readTimeout", 30)
	viper.SetDefault("server.writeTimeout", 30)
	viper.SetDefault("server.bodyLimit", 1048576)

	viper.SetDefault("sqlite.path", "./data/saasfinder.db")

	viper.SetDefault("redis.enabled", false)
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.cacheTTL", 86400)

	viper.SetDefault("reddit.userAgent", "saasfinder/1.0")
	viper.SetDefault("reddit.subreddits", []string{"SaaS", "startups", "smallbusiness"})
	viper.SetDefault("reddit.postLimit", 100)

	viper.SetDefault("nlp.advanced", false)
	viper.SetDefault("nlp.confidenceThreshold", 0.6)
	viper.SetDefault("nlp.classifierModel", "gpt-4o-mini")
	viper.SetDefault("nlp.classifierTimeout", 30)
	viper.SetDefault("nlp.batchSize", 100)

	viper.SetDefault("scoring.similarityThreshold", 0.7)
	viper.SetDefault("scoring.minPainPoints", 5)
	viper.SetDefault("scoring.minTotalScore", 0.5)

	viper.SetDefault("keywords.path", "./config/keywords.yaml")

	viper.SetDefault("scheduler.enabled", false)
	viper.SetDefault("scheduler.cron", "0 */6 * * *")

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
	viper.SetDefault("logging.outputPath", "stdout")
}
