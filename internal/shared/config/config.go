package config

import (
	"fmt"
	"strconv"
	"time"

	"galaxy-explorer/internal/shared/utils"
	"galaxy-explorer/internal/starfield"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Auth      AuthConfig
	OAuth     OAuthConfig
	Frontend  FrontendConfig
	Logging   LoggingConfig
	RateLimit RateLimitConfig
	Admin     AdminConfig
	Galaxy    starfield.GalaxySettings
	Sky       starfield.SkySettings
	Scene     SceneConfig
	Layout    LayoutConfig
}

type RedisConfig struct {
	Enabled  bool
	URL      string
	Host     string
	Port     string
	Password string
	DB       int
}

type ServerConfig struct {
	Port         string
	URL          string
	Environment  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	MigrationsPath  string
}

type AuthConfig struct {
	JWTSecret       string
	TokenExpiration time.Duration
	CookieSecure    bool
	CookieSameSite  string
}

type OAuthConfig struct {
	Google OAuthClientConfig
	GitHub OAuthClientConfig
}

// OAuthClientConfig holds one provider's client registration.
type OAuthClientConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string
}

func (c OAuthClientConfig) Configured() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

type FrontendConfig struct {
	URL          string
	ExtraOrigins []string
	CORSDebug    bool
}

type LoggingConfig struct {
	Level      string
	Format     string
	JSONFormat bool
}

type RateLimitConfig struct {
	Enabled           bool
	RequestsPerSecond float64
	BurstSize         int
	TrustProxy        bool
}

type AdminConfig struct {
	Email       string
	Username    string
	DisplayName string
}

// SceneConfig sizes the hosted galaxy sessions.
type SceneConfig struct {
	TickRate     int
	MaxSessions  int
	IdleTimeout  time.Duration
	QuadCapacity int
	PickRadius   float64
	PickOffset   float64
	MarkerPool   int
	DebugLevels  bool
}

type LayoutConfig struct {
	CacheTTL    time.Duration
	Dir         string
	DefaultName string
}

var GlobalConfig *Config

func Init() error {
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using system environment variables")
	}

	config, err := load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := config.validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	GlobalConfig = config
	return nil
}

func load() (*Config, error) {
	config := &Config{
		Server:    loadServerConfig(),
		Database:  loadDatabaseConfig(),
		Redis:     loadRedisConfig(),
		Auth:      loadAuthConfig(),
		OAuth:     loadOAuthConfig(),
		Frontend:  loadFrontendConfig(),
		Logging:   loadLoggingConfig(),
		RateLimit: loadRateLimitConfig(),
		Admin:     loadAdminConfig(),
		Galaxy:    loadGalaxyConfig(),
		Sky:       loadSkyConfig(),
		Scene:     loadSceneConfig(),
		Layout:    loadLayoutConfig(),
	}

	return config, nil
}

func loadRedisConfig() RedisConfig {
	enabled := utils.GetEnv("REDIS_ENABLED", "true") == "true"
	redisURL := utils.GetEnv("REDIS_URL", "")

	db, _ := strconv.Atoi(utils.GetEnv("REDIS_DB", "0"))

	return RedisConfig{
		Enabled:  enabled,
		URL:      redisURL,
		Host:     utils.GetEnv("REDIS_HOST", "localhost"),
		Port:     utils.GetEnv("REDIS_PORT", "6379"),
		Password: utils.GetEnv("REDIS_PASSWORD", ""),
		DB:       db,
	}
}

func loadServerConfig() ServerConfig {
	readTimeout, _ := strconv.Atoi(utils.GetEnv("SERVER_READ_TIMEOUT_SECONDS", "15"))
	writeTimeout, _ := strconv.Atoi(utils.GetEnv("SERVER_WRITE_TIMEOUT_SECONDS", "15"))
	idleTimeout, _ := strconv.Atoi(utils.GetEnv("SERVER_IDLE_TIMEOUT_SECONDS", "60"))

	return ServerConfig{
		Port:         utils.GetEnv("SERVER_PORT", "8080"),
		URL:          utils.GetEnv("SERVER_URL", "http://localhost:8080"),
		Environment:  utils.GetEnv("ENVIRONMENT", "development"),
		ReadTimeout:  time.Duration(readTimeout) * time.Second,
		WriteTimeout: time.Duration(writeTimeout) * time.Second,
		IdleTimeout:  time.Duration(idleTimeout) * time.Second,
	}
}

func loadDatabaseConfig() DatabaseConfig {
	maxOpenConns, _ := strconv.Atoi(utils.GetEnv("DB_MAX_OPEN_CONNS", "25"))
	maxIdleConns, _ := strconv.Atoi(utils.GetEnv("DB_MAX_IDLE_CONNS", "5"))
	connMaxLifetime, _ := strconv.Atoi(utils.GetEnv("DB_CONN_MAX_LIFETIME_MINUTES", "5"))

	return DatabaseConfig{
		Host:            utils.GetEnv("DB_HOST", "localhost"),
		Port:            utils.GetEnv("DB_PORT", "5432"),
		User:            utils.GetEnv("DB_USER", "postgres"),
		Password:        utils.GetEnv("DB_PASSWORD", "postgres"),
		Name:            utils.GetEnv("DB_NAME", "galaxy"),
		SSLMode:         utils.GetEnv("DB_SSLMODE", "disable"),
		MaxOpenConns:    maxOpenConns,
		MaxIdleConns:    maxIdleConns,
		ConnMaxLifetime: time.Duration(connMaxLifetime) * time.Minute,
		MigrationsPath:  utils.GetEnv("DB_MIGRATIONS_PATH", "migrations"),
	}
}

func loadAuthConfig() AuthConfig {
	tokenExpiration, _ := strconv.Atoi(utils.GetEnv("JWT_EXPIRATION_HOURS", "24"))

	environment := utils.GetEnv("ENVIRONMENT", "development")
	cookieSecure := environment == "production"

	return AuthConfig{
		JWTSecret:       utils.GetEnv("JWT_SECRET", ""),
		TokenExpiration: time.Duration(tokenExpiration) * time.Hour,
		CookieSecure:    cookieSecure,
		CookieSameSite:  utils.GetEnv("COOKIE_SAME_SITE", "lax"),
	}
}

func loadOAuthConfig() OAuthConfig {
	serverURL := utils.GetEnv("SERVER_URL", "http://localhost:8080")

	return OAuthConfig{
		Google: OAuthClientConfig{
			ClientID:     utils.GetEnv("GOOGLE_CLIENT_ID", ""),
			ClientSecret: utils.GetEnv("GOOGLE_CLIENT_SECRET", ""),
			RedirectURL:  serverURL + "/auth/google/callback",
			Scopes:       []string{"openid", "profile", "email"},
		},
		GitHub: OAuthClientConfig{
			ClientID:     utils.GetEnv("GITHUB_CLIENT_ID", ""),
			ClientSecret: utils.GetEnv("GITHUB_CLIENT_SECRET", ""),
			RedirectURL:  serverURL + "/auth/github/callback",
			Scopes:       []string{"user:email"},
		},
	}
}

func loadFrontendConfig() FrontendConfig {
	corsDebug := utils.GetEnv("CORS_DEBUG", "") == "true"

	return FrontendConfig{
		URL:          utils.GetEnv("FRONTEND_URL", "http://localhost:3000"),
		ExtraOrigins: utils.GetEnvList("CORS_EXTRA_ORIGINS"),
		CORSDebug:    corsDebug,
	}
}

func loadLoggingConfig() LoggingConfig {
	environment := utils.GetEnv("ENVIRONMENT", "development")
	jsonFormat := environment == "production"

	return LoggingConfig{
		Level:      utils.GetEnv("LOG_LEVEL", "debug"),
		Format:     utils.GetEnv("LOG_FORMAT", "text"),
		JSONFormat: jsonFormat,
	}
}

func loadRateLimitConfig() RateLimitConfig {
	enabled := utils.GetEnv("RATE_LIMIT_ENABLED", "true") == "true"
	requestsPerSecond, _ := strconv.ParseFloat(utils.GetEnv("RATE_LIMIT_REQUESTS_PER_SECOND", "10"), 64)
	burstSize, _ := strconv.Atoi(utils.GetEnv("RATE_LIMIT_BURST_SIZE", "20"))

	return RateLimitConfig{
		Enabled:           enabled,
		RequestsPerSecond: requestsPerSecond,
		BurstSize:         burstSize,
		TrustProxy:        utils.GetEnvBool("RATE_LIMIT_TRUST_PROXY", false),
	}
}

func loadAdminConfig() AdminConfig {
	return AdminConfig{
		Email:       utils.GetEnv("ADMIN_EMAIL", "admin@localhost"),
		Username:    utils.GetEnv("ADMIN_USERNAME", "admin"),
		DisplayName: utils.GetEnv("ADMIN_DISPLAY_NAME", "Admin"),
	}
}

// loadGalaxyConfig reads the disk generation defaults. Out of range values are
// clamped by the generator, not rejected here.
func loadGalaxyConfig() starfield.GalaxySettings {
	d := starfield.DefaultGalaxySettings()

	return starfield.GalaxySettings{
		StarsCount:      utils.GetEnvInt("GALAXY_STARS_COUNT", d.StarsCount),
		BlinkStarsCount: utils.GetEnvInt("GALAXY_BLINK_STARS_COUNT", d.BlinkStarsCount),
		BlinkDurMin:     utils.GetEnvFloat("GALAXY_BLINK_DUR_MIN", d.BlinkDurMin),
		BlinkDurMax:     utils.GetEnvFloat("GALAXY_BLINK_DUR_MAX", d.BlinkDurMax),
		StartAngle:      utils.GetEnvFloat("GALAXY_START_ANGLE", d.StartAngle),
		EndAngle:        utils.GetEnvFloat("GALAXY_END_ANGLE", d.EndAngle),
		StartOffsetXY:   utils.GetEnvFloat("GALAXY_START_OFFSET_XY", d.StartOffsetXY),
		EndOffsetXY:     utils.GetEnvFloat("GALAXY_END_OFFSET_XY", d.EndOffsetXY),
		StartOffsetH:    utils.GetEnvFloat("GALAXY_START_OFFSET_H", d.StartOffsetH),
		EndOffsetH:      utils.GetEnvFloat("GALAXY_END_OFFSET_H", d.EndOffsetH),
		K:               utils.GetEnvFloat("GALAXY_K", d.K),
		AlphaMin:        utils.GetEnvFloat("GALAXY_ALPHA_MIN", d.AlphaMin),
		AlphaMax:        utils.GetEnvFloat("GALAXY_ALPHA_MAX", d.AlphaMax),
		ScaleMin:        utils.GetEnvFloat("GALAXY_SCALE_MIN", d.ScaleMin),
		ScaleMax:        utils.GetEnvFloat("GALAXY_SCALE_MAX", d.ScaleMax),
	}
}

func loadSkyConfig() starfield.SkySettings {
	d := starfield.DefaultSkySettings()

	return starfield.SkySettings{
		StarsCount:      utils.GetEnvInt("SKY_STARS_COUNT", d.StarsCount),
		RadiusMin:       utils.GetEnvFloat("SKY_RADIUS_MIN", d.RadiusMin),
		RadiusMax:       utils.GetEnvFloat("SKY_RADIUS_MAX", d.RadiusMax),
		ScaleMin:        utils.GetEnvFloat("SKY_SCALE_MIN", d.ScaleMin),
		ScaleMax:        utils.GetEnvFloat("SKY_SCALE_MAX", d.ScaleMax),
		GalaxiesCount:   utils.GetEnvInt("SKY_GALAXIES_COUNT", d.GalaxiesCount),
		GalaxiesSizeMin: utils.GetEnvFloat("SKY_GALAXIES_SIZE_MIN", d.GalaxiesSizeMin),
		GalaxiesSizeMax: utils.GetEnvFloat("SKY_GALAXIES_SIZE_MAX", d.GalaxiesSizeMax),
	}
}

func loadSceneConfig() SceneConfig {
	return SceneConfig{
		TickRate:     utils.GetEnvInt("SCENE_TICK_RATE", 60),
		MaxSessions:  utils.GetEnvInt("SCENE_MAX_SESSIONS", 100),
		IdleTimeout:  time.Duration(utils.GetEnvInt("SCENE_IDLE_TIMEOUT_SECONDS", 300)) * time.Second,
		QuadCapacity: utils.GetEnvInt("SCENE_QUAD_CAPACITY", 30),
		PickRadius:   utils.GetEnvFloat("SCENE_PICK_RADIUS", 40),
		PickOffset:   utils.GetEnvFloat("SCENE_PICK_OFFSET", 30),
		MarkerPool:   utils.GetEnvInt("SCENE_MARKER_POOL", 400),
		DebugLevels:  utils.GetEnvBool("SCENE_DEBUG_LEVELS", false),
	}
}

func loadLayoutConfig() LayoutConfig {
	return LayoutConfig{
		CacheTTL:    time.Duration(utils.GetEnvInt("LAYOUT_CACHE_TTL_SECONDS", 600)) * time.Second,
		Dir:         utils.GetEnv("LAYOUT_DIR", "layouts"),
		DefaultName: utils.GetEnv("LAYOUT_DEFAULT_NAME", ""),
	}
}

func (c *Config) validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters long")
	}

	if c.Server.Port == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}

	if c.Database.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}

	if c.Database.Name == "" {
		return fmt.Errorf("DB_NAME is required")
	}

	if c.Server.URL == "" {
		return fmt.Errorf("SERVER_URL is required")
	}

	if c.Scene.TickRate < 1 || c.Scene.TickRate > 240 {
		return fmt.Errorf("SCENE_TICK_RATE must be between 1 and 240")
	}

	if c.Scene.MaxSessions < 1 {
		return fmt.Errorf("SCENE_MAX_SESSIONS must be positive")
	}

	return nil
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}
