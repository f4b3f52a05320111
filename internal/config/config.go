// Package config provides functionality for managing configuration options
// for the application using command-line flags, environment variables and an
// optional JSON config file.
package config

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/url"
	"os"
)

// DefaultBind is the listen address used when none is configured.
const DefaultBind = "127.0.0.1:9000"

// Database holds the connection parameters for the persistence backend.
type Database struct {
	// Host is the backend hostname or IP.
	Host string `json:"host"`
	// Port is the backend TCP port.
	Port int `json:"port"`
	// Name is the database name holding the secrets and devices collections.
	Name string `json:"dbname"`
	// Username and Password are optional credentials.
	Username string `json:"username"`
	Password string `json:"password"`
	// PoolSize bounds the number of concurrent backend connections.
	PoolSize int `json:"pool_size"`
}

// DSN builds the connection URL for the backend driver.
func (d Database) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		Host:     fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:     d.Name,
		RawQuery: "sslmode=disable",
	}
	if d.Username != "" {
		u.User = url.User(d.Username)
		if d.Password != "" {
			u.User = url.UserPassword(d.Username, d.Password)
		}
	}
	return u.String()
}

// Options holds the configuration values for the application.
type Options struct {
	// Address defines the server's listening address (ip:port).
	Address string `json:"address"`

	// Database holds the backend connection parameters.
	Database Database `json:"database"`

	// Config is the path to the config file.
	Config string `json:"-"`
}

// options holds the current configuration values.
var options = &Options{}

// init initializes command-line flags and sets default values.
func init() {
	flag.StringVar(&options.Address, "a", "", "run on ip:port server")
	flag.StringVar(&options.Config, "config", "config.json", "path to config file")
	flag.StringVar(&options.Config, "c", "config.json", "path to config file (shorthand)")
}

// Parse parses the command-line flags, the config file and environment
// variables to set configuration values. It returns a pointer to the Options
// struct containing the parsed configuration values.
func Parse() *Options {
	flag.Parse()
	return parse()
}

// parse applies the file and environment overrides; split out so tests can
// run it without touching the flag package.
func parse() *Options {
	if configPath := os.Getenv("CONFIG"); configPath != "" {
		options.Config = configPath
	}

	if options.Config != "" {
		if _, err := os.Stat(options.Config); err == nil {
			data, err := os.ReadFile(options.Config)
			if err != nil {
				log.Fatalf("error while reading config file: %v", err)
			}
			if err := json.Unmarshal(data, options); err != nil {
				log.Fatalf("error while parsing config file: %v", err)
			}
		}
	}

	if serverAddress := os.Getenv("SERVER_ADDRESS"); serverAddress != "" {
		options.Address = serverAddress
	}

	if options.Address == "" {
		log.Printf("no binding given, using default %s", DefaultBind)
		options.Address = DefaultBind
	}
	if options.Database.PoolSize <= 0 {
		options.Database.PoolSize = 4
	}

	return options
}
