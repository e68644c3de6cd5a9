package config

import (
	"math"
	"net"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Settings holds the runtime configuration of the web server and its external
// collaborators. Values come from the optional TOML settings file; anything
// absent falls back to the defaults below.
type Settings struct {
	// Web server settings
	WebListen     string `toml:"webListen"`     // Listen IP address, empty for all interfaces
	WebPort       int    `toml:"webPort"`       // Listen port
	WebBasePath   string `toml:"webBasePath"`   // Base path for all routes
	SessionSecret string `toml:"sessionSecret"` // Cookie session signing secret
	SessionMaxAge int    `toml:"sessionMaxAge"` // Session maximum age in minutes
	JWTSecret     string `toml:"jwtSecret"`     // Bearer token signing secret

	// Mail transport settings
	SMTPHost string `toml:"smtpHost"`
	SMTPPort int    `toml:"smtpPort"`
	SMTPUser string `toml:"smtpUser"`
	SMTPPass string `toml:"smtpPass"`
	MailFrom string `toml:"mailFrom"` // Sender address on outgoing notifications
}

// DefaultSettings returns the settings used when no settings file exists.
func DefaultSettings() *Settings {
	return &Settings{
		WebListen:     "",
		WebPort:       8080,
		WebBasePath:   "/",
		SessionSecret: os.Getenv("BLOGAPI_SESSION_SECRET"),
		SessionMaxAge: 60,
		JWTSecret:     os.Getenv("BLOGAPI_JWT_SECRET"),
		SMTPHost:      "localhost",
		SMTPPort:      25,
		MailFrom:      "info.blog.api@example.com",
	}
}

// LoadSettings reads the TOML settings file at path, falling back to defaults
// when the file does not exist.
func LoadSettings(path string) (*Settings, error) {
	settings := DefaultSettings()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return settings, settings.CheckValid()
		}
		return nil, err
	}
	if err := toml.Unmarshal(data, settings); err != nil {
		return nil, err
	}
	return settings, settings.CheckValid()
}

// CheckValid validates the settings and normalizes the base path.
func (s *Settings) CheckValid() error {
	if s.WebListen != "" {
		if ip := net.ParseIP(s.WebListen); ip == nil {
			return NewInvalidSettingError("web listen is not a valid ip: " + s.WebListen)
		}
	}

	if s.WebPort <= 0 || s.WebPort > math.MaxUint16 {
		return NewInvalidSettingError("web port is not a valid port")
	}

	if !strings.HasPrefix(s.WebBasePath, "/") {
		s.WebBasePath = "/" + s.WebBasePath
	}
	if !strings.HasSuffix(s.WebBasePath, "/") {
		s.WebBasePath += "/"
	}

	return nil
}

// InvalidSettingError reports a settings value that fails validation.
type InvalidSettingError struct {
	msg string
}

func NewInvalidSettingError(msg string) *InvalidSettingError {
	return &InvalidSettingError{msg: msg}
}

func (e *InvalidSettingError) Error() string {
	return e.msg
}
