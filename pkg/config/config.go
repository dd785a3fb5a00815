package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/asaskevich/govalidator"
	"github.com/go-viper/mapstructure/v2"
	log "github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	Azure  AzureConfig  `json:"azure"`
	Graph  GraphConfig  `json:"graph"`
	Report ReportConfig `json:"report"`
	Debug  bool         `json:"debug"`
}

type AzureConfig struct {
	Auth   AzureAuth   `json:"auth"`
	Tenant AzureTenant `json:"tenant"`
}

type AzureAuth struct {
	ClientId     string `json:"client-id"`
	ClientSecret string `json:"client-secret"`
	Method       string `json:"method"`
}

type AzureTenant struct {
	Id string `json:"id"`
}

type GraphConfig struct {
	Paging GraphPaging `json:"paging"`
	Retry  GraphRetry  `json:"retry"`
}

type GraphPaging struct {
	Enabled bool `json:"enabled"`
}

type GraphRetry struct {
	Enabled     bool          `json:"enabled"`
	MaxDuration time.Duration `json:"max-duration"`
}

type ReportConfig struct {
	GroupName      string `json:"group-name"`
	IncludeMembers bool   `json:"include-members"`
	Parallelism    int    `json:"parallelism"`
}

// Configuration options
const (
	AzureClientId         = "azure.auth.client-id"
	AzureClientSecret     = "azure.auth.client-secret"
	AzureAuthMethod       = "azure.auth.method"
	AzureTenantId         = "azure.tenant.id"
	GraphPagingEnabled    = "graph.paging.enabled"
	GraphRetryEnabled     = "graph.retry.enabled"
	GraphRetryMaxDuration = "graph.retry.max-duration"
	ReportGroupName       = "report.group-name"
	ReportIncludeMembers  = "report.include-members"
	ReportParallelism     = "report.parallelism"
	DebugEnabled          = "debug"
)

// Token acquisition methods for AzureAuthMethod
const (
	AuthMethodClientSecret = "clientsecret"
	AuthMethodAzidentity   = "azidentity"
)

func init() {
	// Automatically read configuration options from environment variables.
	// e.g. --report.group-name will be configurable using INTUNERATOR_REPORT_GROUP_NAME.
	viper.SetEnvPrefix("INTUNERATOR")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	// The credentials additionally bind to their conventional unprefixed
	// variable names, so an existing app registration configuration can be
	// reused without renaming.
	_ = viper.BindEnv(AzureClientId, "AZURE_CLIENT_ID")
	_ = viper.BindEnv(AzureClientSecret, "AZURE_CLIENT_SECRET")
	_ = viper.BindEnv(AzureTenantId, "AZURE_TENANT_ID")

	// Read configuration file from working directory and/or /etc.
	// File formats supported include JSON, TOML, YAML, HCL, envfile and Java properties config files
	viper.SetConfigName("intunerator")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/intunerator")

	flag.String(AzureClientId, "", "Client ID of the app registration used for Graph API authentication")
	flag.String(AzureClientSecret, "", "Client secret of the app registration used for Graph API authentication")
	flag.String(AzureAuthMethod, AuthMethodClientSecret, "Token acquisition method, one of 'clientsecret' or 'azidentity'")

	flag.String(AzureTenantId, "", "Tenant ID of the directory to report on")

	flag.Bool(GraphPagingEnabled, false, "Follow @odata.nextLink when listing device app management collections. When disabled, only the first page of each collection is consumed.")
	flag.Bool(GraphRetryEnabled, false, "Retry throttled Graph requests with backoff instead of failing the run")
	flag.Duration(GraphRetryMaxDuration, 2*time.Minute, "Upper bound on total time spent backing off on throttled Graph requests")

	flag.String(ReportGroupName, "", "Display name of the group to report assigned applications for. Prompted for interactively when unset.")
	flag.Bool(ReportIncludeMembers, false, "Additionally fetch the member list for the resolved group")
	flag.Int(ReportParallelism, 1, "Number of applications to resolve concurrently. 1 resolves strictly sequentially.")

	flag.Bool(DebugEnabled, false, "Debug mode toggle")
}

// Print out all configuration options except secret stuff.
func (c Config) Print(redacted []string) {
	ok := func(key string) bool {
		for _, forbiddenKey := range redacted {
			if forbiddenKey == key {
				return false
			}
		}
		return true
	}

	var keys sort.StringSlice = viper.AllKeys()

	keys.Sort()
	for _, key := range keys {
		if ok(key) {
			log.Printf("%s: %s", key, viper.GetString(key))
		} else {
			log.Printf("%s: ***REDACTED***", key)
		}
	}
}

func (c Config) Validate(required []string) error {
	present := func(key string) bool {
		for _, requiredKey := range required {
			if requiredKey == key {
				return len(viper.GetString(requiredKey)) > 0
			}
		}
		return true
	}
	var keys sort.StringSlice = viper.AllKeys()
	errs := make([]string, 0)

	keys.Sort()
	for _, key := range keys {
		if !present(key) {
			errs = append(errs, fmt.Sprintf("required key '%s' not configured", key))
		}
	}

	// Tenant and client IDs are GUIDs.
	for _, key := range []string{AzureClientId, AzureTenantId} {
		if value := viper.GetString(key); len(value) > 0 && !govalidator.IsUUID(value) {
			errs = append(errs, fmt.Sprintf("key '%s' must be a valid UUID", key))
		}
	}

	for _, err := range errs {
		log.Print(err)
	}
	if len(errs) > 0 {
		return errors.New("missing or invalid configuration values")
	}
	return nil
}

func decoderHook(dc *mapstructure.DecoderConfig) {
	dc.TagName = "json"
	dc.ErrorUnused = true
}

func New() (*Config, error) {
	var err error
	var cfg Config

	err = viper.ReadInConfig()
	if err != nil {
		if err.(viper.ConfigFileNotFoundError) != err {
			return nil, err
		}
	}

	flag.Parse()

	err = viper.BindPFlags(flag.CommandLine)
	if err != nil {
		return nil, err
	}

	err = viper.Unmarshal(&cfg, decoderHook)
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}
