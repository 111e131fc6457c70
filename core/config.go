package core

import (
	"fmt"
	"log"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Conf is the application configuration, loaded once at start-up.
var Conf = loadConfig()

type (
	ServerConfig struct {
		Host                      string
		Port                      string
		ShutdownTimeout           time.Duration
		JWTExpirationDelta        time.Duration
		JWTRefreshExpirationDelta time.Duration
	}

	DatabaseConfig struct {
		Engine        string
		Name          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		Host          string
		Port          string
		DisableTLS    bool
	}

	// TrainingConfig holds the curriculum constants: how many modules make up
	// a training day and how many days the program runs.
	TrainingConfig struct {
		ModulesPerDay       int
		TotalDays           int
		DefaultPassingScore int
		DefaultTimeLimit    int // minutes
	}

	// KPIConfig holds the daily performance targets that metrics are classified against.
	KPIConfig struct {
		DailyDialsTarget           float64
		ContactRateTarget          float64
		InspectionsSetTarget       float64
		InspectionToDealRateTarget float64
		WindowSize                 int
	}

	Config struct {
		Env              string
		Debug            bool
		TestMode         bool
		AppName          string
		SecretKey        string
		Build            string
		FrontendBaseURL  string
		DefaultFromEmail string
		SendgridApiKey   string
		RollbarToken     string

		Server   ServerConfig
		Database DatabaseConfig
		Training TrainingConfig
		KPI      KPIConfig
	}
)

func (c ServerConfig) Address() string {
	return c.Host + ":" + c.Port
}

func (c DatabaseConfig) Address() string {
	return c.Host + ":" + c.Port
}

func (c *Config) DefaultFromEmailAddr() mail.Address {
	return mail.Address{Name: c.AppName, Address: c.DefaultFromEmail}
}

func loadConfig() *Config {
	v := viper.New()
	v.SetTypeByDefaultValue(true)

	// defaults
	v.SetDefault("debug", true)
	v.SetDefault("appName", "RoofingTrainer")
	v.SetDefault("secretKey", "qo15-xbv)remq$+81=kt&yplw9(v!z)#*f5(#dh7u^$wspn4qzx")
	v.SetDefault("build", "dev")
	v.SetDefault("frontendBaseURL", "http://localhost:3000")
	v.SetDefault("defaultFromEmail", "noreply@bestroofingnow.com")
	v.SetDefault("sendgridApiKey", "")
	v.SetDefault("rollbarToken", "")

	v.SetDefault("serverHost", "")
	v.SetDefault("serverPort", "8000")
	v.SetDefault("shutdownTimeout", 20*time.Second)
	v.SetDefault("jwtExpirationDelta", 7*24*time.Hour)
	v.SetDefault("jwtRefreshExpirationDelta", 4*time.Hour)

	v.SetDefault("dbEngine", "postgres")
	v.SetDefault("dbName", "roofingtrainer")
	v.SetDefault("dbUser", "")
	v.SetDefault("dbPassword", "")
	v.SetDefault("dbAdminUser", "postgres")
	v.SetDefault("dbAdminPassword", "")
	v.SetDefault("dbHost", "localhost")
	v.SetDefault("dbPort", "5432")
	v.SetDefault("dbDisableTLS", true)

	v.SetDefault("modulesPerDay", 2)
	v.SetDefault("totalDays", 5)
	v.SetDefault("defaultPassingScore", 80)
	v.SetDefault("defaultTimeLimit", 30)

	v.SetDefault("kpiDailyDialsTarget", 120.0)
	v.SetDefault("kpiContactRateTarget", 18.0)
	v.SetDefault("kpiInspectionsSetTarget", 6.0)
	v.SetDefault("kpiInspectionToDealRateTarget", 35.0)
	v.SetDefault("kpiWindowSize", 7)

	env := os.Getenv("ENV") // DEV (local; default), TEST, QA, PROD
	var testMode bool
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		testMode = true
	}
	v.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(Getwd(), "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	conf := &Config{
		Env:              env,
		Debug:            v.GetBool("debug"),
		TestMode:         testMode,
		AppName:          v.GetString("appName"),
		SecretKey:        v.GetString("secretKey"),
		Build:            v.GetString("build"),
		FrontendBaseURL:  v.GetString("frontendBaseURL"),
		DefaultFromEmail: v.GetString("defaultFromEmail"),
		SendgridApiKey:   v.GetString("sendgridApiKey"),
		RollbarToken:     v.GetString("rollbarToken"),
		Server: ServerConfig{
			Host:                      v.GetString("serverHost"),
			Port:                      v.GetString("serverPort"),
			ShutdownTimeout:           v.GetDuration("shutdownTimeout"),
			JWTExpirationDelta:        v.GetDuration("jwtExpirationDelta"),
			JWTRefreshExpirationDelta: v.GetDuration("jwtRefreshExpirationDelta"),
		},
		Database: DatabaseConfig{
			Engine:        v.GetString("dbEngine"),
			Name:          v.GetString("dbName"),
			User:          v.GetString("dbUser"),
			Password:      v.GetString("dbPassword"),
			AdminUser:     v.GetString("dbAdminUser"),
			AdminPassword: v.GetString("dbAdminPassword"),
			Host:          v.GetString("dbHost"),
			Port:          v.GetString("dbPort"),
			DisableTLS:    v.GetBool("dbDisableTLS"),
		},
		Training: TrainingConfig{
			ModulesPerDay:       v.GetInt("modulesPerDay"),
			TotalDays:           v.GetInt("totalDays"),
			DefaultPassingScore: v.GetInt("defaultPassingScore"),
			DefaultTimeLimit:    v.GetInt("defaultTimeLimit"),
		},
		KPI: KPIConfig{
			DailyDialsTarget:           v.GetFloat64("kpiDailyDialsTarget"),
			ContactRateTarget:          v.GetFloat64("kpiContactRateTarget"),
			InspectionsSetTarget:       v.GetFloat64("kpiInspectionsSetTarget"),
			InspectionToDealRateTarget: v.GetFloat64("kpiInspectionToDealRateTarget"),
			WindowSize:                 v.GetInt("kpiWindowSize"),
		},
	}
	if testMode {
		conf.Database.Name = fmt.Sprintf("%s_test", conf.Database.Name)
	}
	return conf
}
