package observability

import (
	"fmt"
	"strings"

	"github.com/grafana/pyroscope-go"

	"github.com/riskibarqy/pingpong-club/internal/config"
	"github.com/riskibarqy/pingpong-club/internal/platform/logging"
)

// clubProfileTypes leaves out the mutex and block profiles.
var clubProfileTypes = []pyroscope.ProfileType{
	pyroscope.ProfileCPU,
	pyroscope.ProfileAllocObjects,
	pyroscope.ProfileAllocSpace,
	pyroscope.ProfileInuseObjects,
	pyroscope.ProfileInuseSpace,
	pyroscope.ProfileGoroutines,
}

// InitPyroscope starts continuous profiling when enabled. The returned stop
// func is never nil on success.
func InitPyroscope(cfg config.Config, logger *logging.Logger) (func() error, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if !cfg.PyroscopeEnabled {
		logger.Info("pyroscope disabled", "reason", "PYROSCOPE_ENABLED=false")
		return func() error { return nil }, nil
	}

	pc := profilerConfig(cfg, logger)
	if pc.ServerAddress == "" {
		return nil, fmt.Errorf("pyroscope enabled without PYROSCOPE_SERVER_ADDRESS")
	}
	profiler, err := pyroscope.Start(pc)
	if err != nil {
		return nil, fmt.Errorf("start pyroscope: %w", err)
	}
	logger.Info("pyroscope enabled", "server_address", pc.ServerAddress, "application", pc.ApplicationName)
	return profiler.Stop, nil
}

func profilerConfig(cfg config.Config, logger *logging.Logger) pyroscope.Config {
	app := strings.TrimSpace(cfg.PyroscopeAppName)
	if app == "" {
		app = cfg.ServiceName
	}
	return pyroscope.Config{
		ApplicationName:   app,
		ServerAddress:     strings.TrimSpace(cfg.PyroscopeServerAddress),
		AuthToken:         cfg.PyroscopeAuthToken,
		BasicAuthUser:     cfg.PyroscopeBasicAuthUser,
		BasicAuthPassword: cfg.PyroscopeBasicAuthPassword,
		UploadRate:        cfg.PyroscopeUploadRate,
		Logger:            profilerLogger{logger: logger},
		Tags:              profileTags(cfg),
		ProfileTypes:      clubProfileTypes,
	}
}

// profileTags labels every profile. Empty values are left out.
func profileTags(cfg config.Config) map[string]string {
	tags := map[string]string{}
	for key, value := range map[string]string{
		"env":     cfg.AppEnv,
		"service": cfg.ServiceName,
		"version": cfg.ServiceVersion,
	} {
		if value = strings.TrimSpace(value); value != "" {
			tags[key] = value
		}
	}
	return tags
}

// profilerLogger routes the profiler's printf logging into the zap logger.
type profilerLogger struct {
	logger *logging.Logger
}

func (l profilerLogger) Infof(format string, args ...any) {
	l.logger.Debug(fmt.Sprintf(format, args...), "component", "pyroscope")
}

func (l profilerLogger) Debugf(format string, args ...any) {
	l.logger.Debug(fmt.Sprintf(format, args...), "component", "pyroscope")
}

func (l profilerLogger) Errorf(format string, args ...any) {
	l.logger.Warn(fmt.Sprintf(format, args...), "component", "pyroscope")
}
