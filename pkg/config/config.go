package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	LyricsDir   string        `json:"lyrics_dir"`   // 监听的歌词目录
	DataDir     string        `json:"data_dir"`     // SQLite数据库文件存放目录
	DBFileName  string        `json:"db_file_name"` // SQLite数据库文件名
	DBPath      string        `json:"-"`            // 完整的数据库文件路径
	ScanDelay   time.Duration `json:"scan_delay"`   // 文件变化后延迟多久再解析
	NeteaseAPI  string        `json:"netease_api"`  // 网易云音乐 API 地址
	HTTPTimeout time.Duration `json:"http_timeout"` // HTTP 请求超时
	ConvertT2S  bool          `json:"convert_t2s"`  // 是否将歌词繁体转简体
	ApplyOffset bool          `json:"apply_offset"` // 是否应用 [offset:] 标签
}

const (
	lyricsDir  = "/app/lyrics"
	dataDir    = "/app/data"
	dbFileName = "lyrics.db"
	neteaseAPI = "http://music.163.com"

	scanDelay   = 2 * time.Second
	httpTimeout = 30 * time.Second
)

// LoadConfig 从环境变量或默认值加载配置
func LoadConfig() (*Config, error) {
	// 尝试加载 .env 文件
	_ = godotenv.Load()

	cfg := &Config{
		LyricsDir:   os.Getenv("LYRICS_DIR"),
		DataDir:     os.Getenv("DATA_DIR"),
		DBFileName:  os.Getenv("DB_FILE_NAME"),
		ScanDelay:   parseDurationOrDefault(os.Getenv("SCAN_DELAY"), scanDelay),
		NeteaseAPI:  os.Getenv("NETEASE_API"),
		HTTPTimeout: parseDurationOrDefault(os.Getenv("HTTP_TIMEOUT"), httpTimeout),
		ConvertT2S:  parseBoolOrDefault(os.Getenv("CONVERT_T2S"), false),
		ApplyOffset: parseBoolOrDefault(os.Getenv("APPLY_OFFSET"), true),
	}

	// 设置默认值
	if cfg.LyricsDir == "" {
		cfg.LyricsDir = lyricsDir
	}
	if cfg.DataDir == "" {
		cfg.DataDir = dataDir
	}
	if cfg.DBFileName == "" {
		cfg.DBFileName = dbFileName
	}
	if cfg.NeteaseAPI == "" {
		cfg.NeteaseAPI = neteaseAPI
	}
	cfg.DBPath = filepath.Join(cfg.DataDir, cfg.DBFileName)
	// 确认目录存在
	if err := os.MkdirAll(cfg.LyricsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create lyrics directory %s: %w", cfg.LyricsDir, err)
	}
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory %s: %w", cfg.DataDir, err)
	}
	return cfg, nil
}

func parseDurationOrDefault(s string, defaultValue time.Duration) time.Duration {
	if s == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		log.Printf("Warning: Could not parse duration '%s', using default '%v'. Error: %v", s, defaultValue, err)
		return defaultValue
	}
	return d
}

func parseBoolOrDefault(s string, defaultValue bool) bool {
	if s == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		log.Printf("Warning: Could not parse bool '%s', using default '%v'. Error: %v", s, defaultValue, err)
		return defaultValue
	}
	return b
}
