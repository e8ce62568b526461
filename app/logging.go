package app

import (
	"github.com/sirupsen/logrus"
)

type LoggingConfig struct {
	Type       string `env:"LOG_TYPE"`
	Level      string `env:"LOG_LEVEL"`
	ServerName string `env:"SERVER_NAME"`
}

// Setup configures the global logrus logger from env.
func (logConf *LoggingConfig) Setup() {
	if logConf.Type == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(logConf.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	if logConf.ServerName != "" {
		logrus.AddHook(&serverNameHook{name: logConf.ServerName})
	}
}

// serverNameHook stamps every entry with the server name so aggregated logs
// stay attributable.
type serverNameHook struct {
	name string
}

func (h *serverNameHook) Levels() []logrus.Level { return logrus.AllLevels }

func (h *serverNameHook) Fire(entry *logrus.Entry) error {
	entry.Data["server"] = h.name
	return nil
}
