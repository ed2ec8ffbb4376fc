package config

import (
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

const envPrefix = "PENNYWISE_"

type Application struct {
	Host     string   `koanf:"host"`
	Port     int      `koanf:"port"`
	Auth     Auth     `koanf:"auth"`
	Database Database `koanf:"db"`
}

type Auth struct {
	Secret     string        `koanf:"secret"`
	AccessTTL  time.Duration `koanf:"accessttl"`
	RefreshTTL time.Duration `koanf:"refreshttl"`
}

type Database struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	User     string `koanf:"user"`
	Pass     string `koanf:"pass"`
	Name     string `koanf:"name"`
	Schema   string `koanf:"schema"`
	MaxConns int32  `koanf:"maxconns"`
	MinConns int32  `koanf:"minconns"`
}

// Client is the configuration of the command line client.
type Client struct {
	Api     Api     `koanf:"api"`
	Session Session `koanf:"session"`
}

type Api struct {
	Url        string        `koanf:"url"`
	Timeout    time.Duration `koanf:"timeout"`
	MaxRetries int           `koanf:"maxretries"`
}

type Session struct {
	TokenFile string `koanf:"tokenfile"`
}

func DefaultApplication() Application {
	return Application{
		Host: "http://localhost:3000",
		Port: 8000,
		Auth: Auth{
			AccessTTL:  15 * time.Minute,
			RefreshTTL: 24 * time.Hour,
		},
		Database: Database{
			Host:     "localhost",
			Port:     5432,
			User:     "pennywise",
			Pass:     "",
			Name:     "pennywise",
			Schema:   "pennywise",
			MaxConns: 25,
			MinConns: 2,
		},
	}
}

func DefaultClient() Client {
	tokenFile := ".pennywise-tokens.json"
	if home, err := os.UserHomeDir(); err == nil {
		tokenFile = home + "/.config/pennywise/tokens.json"
	}
	return Client{
		Api: Api{
			Url:        "http://localhost:8000/api",
			Timeout:    10 * time.Second,
			MaxRetries: 3,
		},
		Session: Session{TokenFile: tokenFile},
	}
}

func Load(path string) (Application, error) {
	var app Application
	if err := load(path, DefaultApplication(), &app); err != nil {
		return Application{}, err
	}
	return app, nil
}

func LoadClient(path string) (Client, error) {
	var c Client
	if err := load(path, DefaultClient(), &c); err != nil {
		return Client{}, err
	}
	return c, nil
}

func load(path string, defaults any, target any) error {
	var k = koanf.New(".")

	err := k.Load(structs.Provider(defaults, "koanf"), nil)
	if err != nil {
		log.Errorf("error loading config from structs: %v", err)
		return err
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			if os.IsNotExist(err) {
				log.Debugf("Config file not found at %s, using defaults and environment variables", path)
			} else {
				log.Errorf("error loading config from YAML: %v", err)
				return err
			}
		} else {
			log.Infof("Loaded configuration from file: %s", path)
		}
	}

	err = k.Load(env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(k, v string) (string, any) {
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, envPrefix)), "_", ".")
			return k, v
		},
	}), nil)
	if err != nil {
		log.Errorf("error loading config from envs: %v", err)
		return err
	}

	return k.Unmarshal("", target)
}
