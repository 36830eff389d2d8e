// Package config 负责加载和管理应用程序的配置。
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// 全局配置变量，存储从配置文件加载的所有设置。
var Conf Config

// Config 是整个应用程序的配置结构体，与 config.yaml 文件结构对应。
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Log       LogConfig       `mapstructure:"log"`
	Kafka     KafkaConfig     `mapstructure:"kafka"`
	MinIO     MinIOConfig     `mapstructure:"minio"`
	Retrieval RetrievalConfig `mapstructure:"retrieval"`
	Indexer   IndexerConfig   `mapstructure:"indexer"`
	Chat      ChatConfig      `mapstructure:"chat"`
}

// ServerConfig 存储服务器相关的配置。
type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

// DatabaseConfig 存储所有数据库连接的配置。
type DatabaseConfig struct {
	MySQL MySQLConfig `mapstructure:"mysql"`
	Redis RedisConfig `mapstructure:"redis"`
}

// MySQLConfig 存储 MySQL 数据库的配置。
type MySQLConfig struct {
	DSN string `mapstructure:"dsn"`
}

// RedisConfig 存储 Redis 的配置。
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// LogConfig 存储日志相关的配置。
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

// KafkaConfig 存储 Kafka 相关的配置。
type KafkaConfig struct {
	Brokers string `mapstructure:"brokers"`
	Topic   string `mapstructure:"topic"`
}

// MinIOConfig 存储 MinIO 对象存储的配置（频道/视频缩略图）。
type MinIOConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	UseSSL          bool   `mapstructure:"use_ssl"`
	BucketName      string `mapstructure:"bucket_name"`
	URLExpireHours  int    `mapstructure:"url_expire_hours"`
}

// RetrievalConfig 存储外部检索引擎服务的配置。
type RetrievalConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
	TopK    int    `mapstructure:"top_k"`
}

// IndexerConfig 存储外部转写索引服务的配置。
type IndexerConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
}

// ChatConfig 配置对话行为。
type ChatConfig struct {
	// RetrievalTimeoutSeconds 限定单次检索调用的时长，超时等同于取消。
	RetrievalTimeoutSeconds int `mapstructure:"retrieval_timeout_seconds"`
	// HistoryTTLDays 控制 Redis 中对话文档的保留时长。
	HistoryTTLDays int `mapstructure:"history_ttl_days"`
}

// RetrievalTimeout 返回检索调用的超时时长，未配置时回退到 30 秒。
func (c ChatConfig) RetrievalTimeout() time.Duration {
	if c.RetrievalTimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.RetrievalTimeoutSeconds) * time.Second
}

// HistoryTTL 返回对话文档的保留时长，未配置时回退到 7 天。
func (c ChatConfig) HistoryTTL() time.Duration {
	if c.HistoryTTLDays <= 0 {
		return 7 * 24 * time.Hour
	}
	return time.Duration(c.HistoryTTLDays) * 24 * time.Hour
}

// Init 初始化配置加载，从指定的路径读取 YAML 文件并解析到 Conf 变量中。
func Init(configPath string) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		panic(fmt.Errorf("读取配置文件失败: %w", err))
	}

	if err := viper.Unmarshal(&Conf); err != nil {
		panic(fmt.Errorf("无法将配置解析到结构体中: %w", err))
	}
}
