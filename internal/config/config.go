package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const insecureDefaultSecret = "change-this-secret-in-production"

var ErrMissingJWTSecret = errors.New("JWT_SECRET is not set")

// Config 애플리케이션 전체 설정
type Config struct {
	Server     ServerConfig
	WebSocket  WebSocketConfig
	CORS       CORSConfig
	Auth       AuthConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	LiveKit    LiveKitConfig
	Recording  RecordingConfig
	Whiteboard WhiteboardConfig
	Log        LogConfig
}

// ServerConfig HTTP 서버 설정
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	RateLimit       int
}

// WebSocketConfig WebSocket 관련 설정
type WebSocketConfig struct {
	ReadBufferSize  int
	WriteBufferSize int
	WriteTimeout    time.Duration
	PongWait        time.Duration
	MaxMessageSize  int64
}

// PingPeriod must stay below PongWait.
func (w WebSocketConfig) PingPeriod() time.Duration {
	return w.PongWait * 9 / 10
}

// CORSConfig CORS 설정
type CORSConfig struct {
	AllowOrigins     string
	AllowHeaders     string
	AllowCredentials bool
}

// AuthConfig 인증 설정
type AuthConfig struct {
	JWTSecret string
	Issuer    string
}

// DatabaseConfig PostgreSQL 설정
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	TimeZone string
}

// DSN PostgreSQL 접속 문자열
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode, d.TimeZone,
	)
}

// RedisConfig Redis 설정. Addr 이 비어 있으면 단일 인스턴스로 동작한다.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Enabled Redis 사용 여부
func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}

// LiveKitConfig LiveKit 설정
type LiveKitConfig struct {
	Host       string
	APIKey     string
	APISecret  string
	TokenValid time.Duration
}

// RecordingConfig 녹화 조회 설정
type RecordingConfig struct {
	MatchWindow time.Duration
	CacheTTL    time.Duration
}

// WhiteboardConfig 화이트보드 릴레이 설정
type WhiteboardConfig struct {
	SessionQueueSize int
	BridgeQueueSize  int
}

// LogConfig 로그 설정
type LogConfig struct {
	Level   string
	Format  string
	Service string
}

// Load 환경 변수에서 설정 로드 (.env 파일이 있으면 먼저 읽는다)
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds the configuration from the process environment only.
func FromEnv() (*Config, error) {
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, ErrMissingJWTSecret
	}
	if jwtSecret == insecureDefaultSecret && getEnv("APP_ENV", "development") == "production" {
		return nil, fmt.Errorf("JWT_SECRET must be changed from its default value in production")
	}

	return &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", ":5001"),
			ReadTimeout:     getDuration("READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getDuration("WRITE_TIMEOUT", 10*time.Second),
			IdleTimeout:     getDuration("IDLE_TIMEOUT", 120*time.Second),
			ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
			RateLimit:       getInt("RATE_LIMIT_PER_MINUTE", 100),
		},
		WebSocket: WebSocketConfig{
			ReadBufferSize:  getInt("WS_READ_BUFFER_SIZE", 16*1024),
			WriteBufferSize: getInt("WS_WRITE_BUFFER_SIZE", 16*1024),
			WriteTimeout:    getDuration("WS_WRITE_TIMEOUT", 10*time.Second),
			PongWait:        getDuration("WS_PONG_WAIT", 60*time.Second),
			MaxMessageSize:  int64(getInt("WS_MAX_MESSAGE_SIZE", 64*1024)),
		},
		CORS: CORSConfig{
			AllowOrigins:     getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173"),
			AllowHeaders:     getEnv("CORS_ALLOW_HEADERS", "Origin, Content-Type, Accept, Authorization"),
			AllowCredentials: getBool("CORS_ALLOW_CREDENTIALS", true),
		},
		Auth: AuthConfig{
			JWTSecret: jwtSecret,
			Issuer:    getEnv("JWT_ISSUER", "streamify"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "streamify"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			TimeZone: getEnv("DB_TIMEZONE", "UTC"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getInt("REDIS_DB", 0),
		},
		LiveKit: LiveKitConfig{
			Host:       getEnv("LIVEKIT_HOST", "http://localhost:7880"),
			APIKey:     getEnv("LIVEKIT_API_KEY", "devkey"),
			APISecret:  getEnv("LIVEKIT_API_SECRET", "secret"),
			TokenValid: getDuration("LIVEKIT_TOKEN_TTL", 6*time.Hour),
		},
		Recording: RecordingConfig{
			MatchWindow: getDuration("RECORDING_MATCH_WINDOW", 5*time.Minute),
			CacheTTL:    getDuration("RECORDING_CACHE_TTL", 24*time.Hour),
		},
		Whiteboard: WhiteboardConfig{
			SessionQueueSize: getInt("WB_SESSION_QUEUE_SIZE", 256),
			BridgeQueueSize:  getInt("WB_BRIDGE_QUEUE_SIZE", 1024),
		},
		Log: LogConfig{
			Level:   getEnv("LOG_LEVEL", "info"),
			Format:  getEnv("LOG_FORMAT", "json"),
			Service: getEnv("SERVICE_NAME", "streamify-api"),
		},
	}, nil
}

// getEnv 환경 변수 조회 (기본값 지원)
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getInt 정수형 환경 변수 조회
func getInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getBool 불리언 환경 변수 조회
func getBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}

// getDuration 시간 환경 변수 조회
func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		// 숫자만 있으면 초로 간주
		if !strings.ContainsAny(value, "smh") {
			if secs, err := strconv.Atoi(value); err == nil {
				return time.Duration(secs) * time.Second
			}
		}
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
