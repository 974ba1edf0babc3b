package config_test

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/okian/wrapped/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with defaults", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":3000")
			convey.So(cfg.TalentAPIURL, convey.ShouldEqual, "https://api.talentprotocol.com")
			convey.So(cfg.TalentWebURL, convey.ShouldEqual, "https://talent.app")
			convey.So(cfg.UpstreamTimeout(), convey.ShouldEqual, 10*time.Second)
			convey.So(cfg.ScrapeTimeout(), convey.ShouldEqual, 15*time.Second)
			convey.So(cfg.EventsPageSize, convey.ShouldEqual, 100)
			convey.So(cfg.RateLimitRequests, convey.ShouldEqual, 100)
			convey.So(cfg.RateLimitWindow(), convey.ShouldEqual, 15*time.Minute)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load()

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":3000")
				convey.So(cfg.ScrapeScoresPage, convey.ShouldBeFalse)
				convey.So(cfg.OTelEndpoint, convey.ShouldEqual, "")
				convey.So(cfg.TrustProxy, convey.ShouldBeFalse)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("WRAPPED_ADDR", ":8080")
			_ = os.Setenv("WRAPPED_TALENT_API_KEY", "secret")
			_ = os.Setenv("WRAPPED_UPSTREAM_TIMEOUT_MS", "2500")
			_ = os.Setenv("WRAPPED_SCRAPE_SCORES_PAGE", "true")
			_ = os.Setenv("WRAPPED_TRUST_PROXY", "true")
			defer clearConfigEnvVars()

			cfg, err := config.Load()

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.TalentAPIKey, convey.ShouldEqual, "secret")
				convey.So(cfg.UpstreamTimeout(), convey.ShouldEqual, 2500*time.Millisecond)
				convey.So(cfg.ScrapeScoresPage, convey.ShouldBeTrue)
				convey.So(cfg.TrustProxy, convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			yamlContent := `
addr: ":9090"
talent_api_url: "http://profiles.internal"
events_page_size: 25
log_format: json
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("WRAPPED_CONFIG", tmpFile)
			_ = os.Setenv("WRAPPED_ADDR", ":7070")
			defer clearConfigEnvVars()

			cfg, err := config.Load()

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")                          // env
				convey.So(cfg.TalentAPIURL, convey.ShouldEqual, "http://profiles.internal") // file
				convey.So(cfg.EventsPageSize, convey.ShouldEqual, 25)                       // file
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")                        // file
				convey.So(cfg.ScrapeTimeoutMS, convey.ShouldEqual, 15_000)                  // default
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("WRAPPED_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load()

			convey.Convey("Then it should return a load error", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("WRAPPED_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load()

			convey.So(err, convey.ShouldNotBeNil)
			convey.So(cfg, convey.ShouldBeNil)
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("WRAPPED_EVENTS_PAGE_SIZE", "not_a_number")
			defer clearConfigEnvVars()

			cfg, err := config.Load()

			convey.So(err, convey.ShouldNotBeNil)
			convey.So(cfg, convey.ShouldBeNil)
		})
	})
}

func TestConfigValidation(t *testing.T) {
	convey.Convey("Given invalid settings", t, func() {
		cases := map[string]func(c *config.Config){
			"addr must not be empty": func(c *config.Config) { c.Addr = "" },
			"talent_api_url":         func(c *config.Config) { c.TalentAPIURL = "api.local" },
			"talent_web_url":         func(c *config.Config) { c.TalentWebURL = "::" },
			"upstream_timeout_ms":    func(c *config.Config) { c.UpstreamTimeoutMS = 0 },
			"scrape_timeout_ms":      func(c *config.Config) { c.ScrapeTimeoutMS = -1 },
		}
		for want, mutate := range cases {
			cfg := config.New()
			mutate(cfg)
			err := cfg.Validate()

			convey.So(err, convey.ShouldNotBeNil)
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			convey.So(err.Error(), convey.ShouldContainSubstring, want)
		}

		convey.Convey("An empty addr from the environment is rejected", func() {
			_ = os.Setenv("WRAPPED_ADDR", "")
			defer clearConfigEnvVars()

			cfg, err := config.Load()
			convey.So(cfg, convey.ShouldBeNil)
			convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"WRAPPED_CONFIG",
		"WRAPPED_ADDR",
		"WRAPPED_TALENT_API_KEY",
		"WRAPPED_UPSTREAM_TIMEOUT_MS",
		"WRAPPED_SCRAPE_SCORES_PAGE",
		"WRAPPED_EVENTS_PAGE_SIZE",
		"WRAPPED_TRUST_PROXY",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "wrapped-config-*.yaml")
	if err != nil {
		panic(err)
	}
	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}
	if err := tmpFile.Close(); err != nil {
		panic(err)
	}
	return tmpFile.Name()
}
