// Package config turns flags, XBEE_* environment variables and an optional
// config file into an xbee.Config.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/Station-Manager/xbee"
)

const EnvPrefix = "XBEE"

// Keys understood in flags, environment and config file.
const (
	KeyConfigFile      = "config"
	KeyDevice          = "device"
	KeyBaud            = "baud"
	KeyDataBits        = "databits"
	KeyParity          = "parity"
	KeyStopBits        = "stopbits"
	KeyVerbose         = "verbose"
	KeyGuardTime       = "guard-time"
	KeyPollInterval    = "poll-interval"
	KeyResponseTimeout = "response-timeout"
	KeyLogFile         = "log-file"
	KeyList            = "list"
)

// Settings is the loaded command line state.
type Settings struct {
	Probe   xbee.Config
	LogFile string
	// List asks for the available ports instead of a probe run.
	List bool
}

// NewFlagSet declares every flag with its default.
func NewFlagSet(name string) *pflag.FlagSet {
	d := xbee.DefaultConfig()

	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.String(KeyConfigFile, "", "config file (yaml, toml or json)")
	fs.StringP(KeyDevice, "d", d.PortName, "serial device path")
	fs.IntP(KeyBaud, "b", d.BaudRate.Int(), "baud rate")
	fs.Int(KeyDataBits, d.DataBits.Int(), "data bits")
	fs.String(KeyParity, d.Parity.String(), "parity (N,O,E,M,S)")
	fs.Int(KeyStopBits, 1, "stop bits (1 or 2)")
	fs.BoolP(KeyVerbose, "v", d.Verbose, "print a debug trace of the exchange")
	fs.Duration(KeyGuardTime, d.GuardTime, "silence before the escape sequence")
	fs.Duration(KeyPollInterval, d.PollInterval, "delay between input checks")
	fs.Duration(KeyResponseTimeout, d.ResponseTimeout, "how long to wait for a reply")
	fs.String(KeyLogFile, "", "also write the log to this file")
	fs.BoolP(KeyList, "l", false, "list serial ports and exit")
	return fs
}

// Load parses args into fs and resolves every key. Flags set on the command
// line win over the environment, which wins over the config file.
func Load(fs *pflag.FlagSet, args []string) (Settings, error) {
	if err := fs.Parse(args); err != nil {
		return Settings{}, err
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return Settings{}, fmt.Errorf("binding flags: %w", err)
	}

	if file := v.GetString(KeyConfigFile); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Settings{}, fmt.Errorf("reading config %s: %w", file, err)
		}
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (Settings, error) {
	cfg := xbee.DefaultConfig()
	cfg.PortName = v.GetString(KeyDevice)
	cfg.BaudRate = xbee.BaudRate(v.GetInt(KeyBaud))
	cfg.DataBits = xbee.DataBits(v.GetInt(KeyDataBits))
	cfg.Verbose = v.GetBool(KeyVerbose)
	cfg.GuardTime = v.GetDuration(KeyGuardTime)
	cfg.PollInterval = v.GetDuration(KeyPollInterval)
	cfg.ResponseTimeout = v.GetDuration(KeyResponseTimeout)

	parity, err := xbee.ParseParity(v.GetString(KeyParity))
	if err != nil {
		return Settings{}, err
	}
	cfg.Parity = parity

	switch v.GetInt(KeyStopBits) {
	case 1:
		cfg.StopBits = xbee.StopBits1
	case 2:
		cfg.StopBits = xbee.StopBits2
	default:
		return Settings{}, fmt.Errorf("unsupported stopbits %d (use 1 or 2)", v.GetInt(KeyStopBits))
	}

	s := Settings{
		Probe:   cfg,
		LogFile: v.GetString(KeyLogFile),
		List:    v.GetBool(KeyList),
	}
	if s.List {
		return s, nil
	}
	if err = xbee.ValidateConfig(cfg); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// IsHelp reports whether err is the result of -h/--help.
func IsHelp(err error) bool {
	return errors.Is(err, pflag.ErrHelp)
}
