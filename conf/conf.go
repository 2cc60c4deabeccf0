package conf

import (
	"fmt"
	"os"

	"github.com/jinzhu/configor"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/soulgarden/aori-client/dictionary"
)

const defaultPath = "./conf/conf.json"

// Aori is everything the client needs. PrivateKey is kept for callers, nothing here signs with it.
type Aori struct {
	APIKey     string `json:"api_key"     env:"AORI_API_KEY"`
	PrivateKey string `json:"private_key" env:"PRIVATE_KEY"`

	Endpoint   string `json:"endpoint"    env:"AORI_ENDPOINT"    default:"https://api.aori.io"`
	WsEndpoint string `json:"ws_endpoint" env:"AORI_WS_ENDPOINT" default:"wss://api.aori.io/ws"`

	// 0 leaves the request to the transport, as no timeout.
	RequestTimeoutMs int `json:"request_timeout_ms"`

	Retry        Retry        `json:"retry"`
	Subscription Subscription `json:"subscription"`
	Telegram     Telegram     `json:"telegram"`

	Debug bool `json:"debug"`
}

type Retry struct {
	Attempts    int `json:"attempts"`
	BaseDelayMs int `json:"base_delay_ms" default:"200"`
	MaxDelayMs  int `json:"max_delay_ms"  default:"5000"`
}

type Subscription struct {
	PingIntervalSec int `json:"ping_interval_sec" default:"15"`
	ReadDeadlineSec int `json:"read_deadline_sec" default:"20"`

	Reconnect     bool `json:"reconnect"`
	MaxReconnects int  `json:"max_reconnects"`
	BaseDelayMs   int  `json:"base_delay_ms" default:"1000"`
	MaxDelayMs    int  `json:"max_delay_ms"  default:"30000"`

	// A connection open for less than this counts as a failed attempt.
	StableAfterSec int `json:"stable_after_sec" default:"10"`
}

type Telegram struct {
	Token  string `json:"token"`
	ChatID int64  `json:"chat_id"`
}

// Load merges defaults, an optional JSON file and the environment, including a .env file.
// path falls back to CFG_PATH and then to ./conf/conf.json when that file exists.
func Load(path string) (*Aori, error) {
	_ = godotenv.Load()

	if path == "" {
		path = os.Getenv("CFG_PATH")
	}

	var files []string

	switch {
	case path != "":
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("%w: %s", dictionary.ErrConfigFileNotFound, path)
		}

		files = append(files, path)
	default:
		if _, err := os.Stat(defaultPath); err == nil {
			files = append(files, defaultPath)
		}
	}

	c := &Aori{}

	if err := configor.New(&configor.Config{ENVPrefix: "AORI", ErrorOnUnmatchedKeys: true}).Load(c, files...); err != nil {
		return nil, err
	}

	return c, nil
}

func New(path string) *Aori {
	c, err := Load(path)
	if err != nil {
		log.Fatal().Err(err).Msg("conf validation errors")
	}

	return c
}
