package bootstrap

import (
	"JournalVault/internal/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// NewLogger создаёт логгер клиента, пишущий в файл с ротацией,
// чтобы вывод CLI оставался чистым. Без файла логи отключены.
func NewLogger(cfg *config.Config) (*zap.SugaredLogger, func()) {
	if cfg.LogFile == "" {
		return zap.NewNop().Sugar(), func() {}
	}
	level := zap.NewAtomicLevel()
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level.SetLevel(zap.InfoLevel)
	}
	w := &lumberjack.Logger{
		Filename:   cfg.LogFile,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, //days
	}
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		zapcore.AddSync(w),
		level,
	)
	logger := zap.New(core)
	return logger.Sugar(), func() {
		_ = logger.Sync()
		_ = w.Close()
	}
}
