package cli

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ftl/gsm-inbox/gnokii"
	"github.com/ftl/gsm-inbox/sms"
)

func newLogger(config *Config) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(config.LogLevel)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid log level %q", config.LogLevel)
	}

	var zapConfig zap.Config
	if config.LogFormat == "json" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
		zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	zapConfig.Level = level
	zapConfig.DisableStacktrace = true

	return zapConfig.Build()
}

// logScanResult logs the positions that were discarded with an error. Empty locations are
// reported by gnokii with a nonzero exit code, they are only logged at debug level.
func logScanResult(logger *zap.Logger, result sms.ScanResult) {
	for _, position := range result.Positions {
		if position.Err == nil {
			continue
		}
		var deviceErr *sms.DeviceCommandError
		if errors.As(position.Err, &deviceErr) && deviceErr.Err == nil && gnokii.IsEmptyLocation(deviceErr.Output) {
			logger.Debug("empty location", zap.Int("position", position.Position))
			continue
		}
		logger.Warn("position discarded",
			zap.Int("position", position.Position),
			zap.Stringer("state", position.State),
			zap.Error(position.Err),
		)
	}
	logger.Info("scan finished",
		zap.Int("positions", len(result.Positions)),
		zap.Int("single", result.Count(sms.FinalizedSingle)),
		zap.Int("multipart", result.Count(sms.FinalizedMultipart)),
		zap.Int("messages", len(result.Messages)),
	)
}

// cronLogger lets the cron scheduler log through zap.
type cronLogger struct {
	logger *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Errorw(msg, append(keysAndValues, "error", err)...)
}
