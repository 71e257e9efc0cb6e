package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

const minSessionSecretLen = 32

type HTTPConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type SecurityConfig struct {
	AdminUsername     string
	AdminPassword     string
	AdminPasswordHash string
	SessionSecret     string
	SessionTTL        time.Duration
	SessionCookie     string
	PaymentKeyID      string
	PaymentKeySecret  string
}

type LeadsConfig struct {
	DataDir  string
	FileName string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Stream   string
	Group    string
	Consumer string
}

type StorageConfig struct {
	Endpoint     string
	AccessKey    string
	SecretKey    string
	BucketBackup string
	UseSSL       bool
	Region       string
}

type NotifyConfig struct {
	ResendAPIKey string
	FromEmail    string
	FromName     string
	AdminEmail   string
}

type JobsConfig struct {
	BackupSchedule string
	DigestSchedule string
}

type WorkerConfig struct {
	ClaimInterval time.Duration
}

type LoggingConfig struct {
	Level string
}

type AppConfig struct {
	Environment  string
	HTTP         HTTPConfig
	Security     SecurityConfig
	Leads        LeadsConfig
	Redis        RedisConfig
	Storage      StorageConfig
	Notify       NotifyConfig
	Jobs         JobsConfig
	Worker       WorkerConfig
	Logging      LoggingConfig
	AllowOrigins []string
}

// Load reads config.yaml (optional) and the VASTU_* environment. The returned
// config has not been validated; callers that serve traffic must call Validate.
func Load() (*AppConfig, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("../config")

	v.SetEnvPrefix("VASTU")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	if err := bindEnv(v); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}

// Validate rejects configurations that would run with missing secret material.
func (c *AppConfig) Validate() error {
	var errs []error
	if len(c.Security.SessionSecret) < minSessionSecretLen {
		errs = append(errs, fmt.Errorf("security.sessionsecret must be at least %d bytes", minSessionSecretLen))
	}
	if strings.TrimSpace(c.Security.AdminUsername) == "" {
		errs = append(errs, errors.New("security.adminusername is required"))
	}
	if c.Security.AdminPassword == "" && c.Security.AdminPasswordHash == "" {
		errs = append(errs, errors.New("security.adminpassword or security.adminpasswordhash is required"))
	}
	if c.Security.PaymentKeySecret == "" {
		errs = append(errs, errors.New("security.paymentkeysecret is required"))
	}
	if c.Security.SessionTTL <= 0 {
		errs = append(errs, errors.New("security.sessionttl must be positive"))
	}
	return errors.Join(errs...)
}

func (c *AppConfig) IsProduction() bool {
	return c.Environment == "production"
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")

	v.SetDefault("http.host", "0.0.0.0")
	v.SetDefault("http.port", 8080)
	v.SetDefault("http.readtimeout", "10s")
	v.SetDefault("http.writetimeout", "15s")
	v.SetDefault("http.idletimeout", "60s")

	v.SetDefault("security.sessionttl", "24h")
	v.SetDefault("security.sessioncookie", "admin_session")

	v.SetDefault("leads.datadir", "./data")
	v.SetDefault("leads.filename", "leads.json")

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.stream", "leads:events")
	v.SetDefault("redis.group", "lead-workers")
	v.SetDefault("redis.consumer", "worker-1")

	v.SetDefault("storage.endpoint", "")
	v.SetDefault("storage.bucketbackup", "vastu-leads-backup")
	v.SetDefault("storage.usessl", false)
	v.SetDefault("storage.region", "us-east-1")

	v.SetDefault("notify.fromemail", "noreply@example.com")
	v.SetDefault("notify.fromname", "Vastu Leads")

	v.SetDefault("jobs.backupschedule", "0 30 2 * * *")
	v.SetDefault("jobs.digestschedule", "0 0 9 * * *")

	v.SetDefault("worker.claiminterval", "30s")

	v.SetDefault("logging.level", "info")
}

// bindEnv registers keys that have no default so AutomaticEnv can see them, plus
// the conventional unprefixed names used by deployment tooling.
func bindEnv(v *viper.Viper) error {
	bindings := map[string][]string{
		"security.adminusername":     {"VASTU_SECURITY_ADMINUSERNAME", "ADMIN_USERNAME"},
		"security.adminpassword":     {"VASTU_SECURITY_ADMINPASSWORD", "ADMIN_PASSWORD"},
		"security.adminpasswordhash": {"VASTU_SECURITY_ADMINPASSWORDHASH", "ADMIN_PASSWORD_HASH"},
		"security.sessionsecret":     {"VASTU_SECURITY_SESSIONSECRET", "SESSION_SECRET"},
		"security.paymentkeyid":      {"VASTU_SECURITY_PAYMENTKEYID", "PAYMENT_KEY_ID"},
		"security.paymentkeysecret":  {"VASTU_SECURITY_PAYMENTKEYSECRET", "PAYMENT_KEY_SECRET"},
		"redis.password":             {"VASTU_REDIS_PASSWORD"},
		"storage.accesskey":          {"VASTU_STORAGE_ACCESSKEY"},
		"storage.secretkey":          {"VASTU_STORAGE_SECRETKEY"},
		"notify.resendapikey":        {"VASTU_NOTIFY_RESENDAPIKEY", "RESEND_API_KEY"},
		"notify.adminemail":          {"VASTU_NOTIFY_ADMINEMAIL"},
		"alloworigins":               {"VASTU_ALLOWORIGINS"},
	}
	for key, envs := range bindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return err
		}
	}
	return nil
}
