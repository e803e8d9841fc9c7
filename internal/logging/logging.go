package logging

import (
	"errors"
	"fmt"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
	gormlogger "gorm.io/gorm/logger"
	"moul.io/zapgorm2"
	"os"
	"post-store/internal/config"
	"runtime"
	"strings"
)

type Logger interface {
	LogErrorf(keyVal []any, format string, args ...any)
	LogError(keyVal []any, args ...any)
	LogWarnf(keyVal []any, format string, args ...any)
	LogWarn(keyVal []any, args ...any)
	LogInfof(keyVal []any, format string, args ...any)
	LogInfo(keyVal []any, args ...any)
	LogDebugf(keyVal []any, format string, args ...any)
	LogDebug(keyVal []any, args ...any)
}

type DefaultLogger struct {
	Logger *zap.SugaredLogger
}

// ensure DefaultLogger implements Logger
var _ Logger = &DefaultLogger{}

type NullLogger struct{}

// ensure NullLogger implements Logger
var _ Logger = &NullLogger{}

func InitLogging(c *config.Configuration) *DefaultLogger {
	var core zapcore.Core

	consoleEncoderCfg := zap.NewProductionEncoderConfig()
	consoleEncoderCfg.EncodeTime = zapcore.RFC3339TimeEncoder
	consoleEncoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	consoleWriteSyncer := zapcore.Lock(os.Stderr)

	fileEncoderCfg := zap.NewProductionEncoderConfig()
	fileEncoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	fileEncoderCfg.EncodeTime = zapcore.RFC3339NanoTimeEncoder
	var fileWriteSyncer zapcore.WriteSyncer
	if len(c.Logging.File) > 0 {
		fileWriteSyncer = zapcore.AddSync(&lumberjack.Logger{
			Filename:   c.Logging.File,
			MaxSize:    c.Logging.MaxSize, // megabytes
			MaxBackups: c.Logging.MaxBackups,
			MaxAge:     c.Logging.MaxAge, // days
		})
		// if logfile is defined: log errors to console and configured log level to file
		core = zapcore.NewTee(
			zapcore.NewCore(
				zapcore.NewConsoleEncoder(consoleEncoderCfg),
				consoleWriteSyncer,
				c.Logging.ConsoleLogLevel,
			),
			zapcore.NewCore(
				zapcore.NewJSONEncoder(fileEncoderCfg),
				fileWriteSyncer,
				c.Logging.Level,
			),
		)
	} else {
		// log configured log level to console
		core = zapcore.NewCore(
			zapcore.NewConsoleEncoder(consoleEncoderCfg),
			consoleWriteSyncer,
			c.Logging.Level,
		)
	}

	zapLogger := zap.New(core)
	zap.ReplaceGlobals(zapLogger)
	zapSugaredLogger := zapLogger.Sugar()

	return &DefaultLogger{Logger: zapSugaredLogger}
}

// InitGormLogger routes SQL logging through zap. With a configured DbLogFile
// every statement is written to that (rotated) file; otherwise only slow
// statements and errors go to the global logger set up by InitLogging.
func InitGormLogger(c *config.Configuration) *zapgorm2.Logger {
	if len(c.Logging.DbLogFile) == 0 {
		gormLogger := zapgorm2.New(zap.L())
		gormLogger.LogLevel = gormlogger.Warn
		gormLogger.IgnoreRecordNotFoundError = true
		gormLogger.SetAsDefault()

		return &gormLogger
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.RFC3339TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	// DB LOGGER
	gormW := zapcore.AddSync(&lumberjack.Logger{
		Filename:   c.Logging.DbLogFile,
		MaxSize:    c.Logging.MaxSize, // megabytes
		MaxBackups: c.Logging.MaxBackups,
		MaxAge:     c.Logging.MaxAge, // days
	})
	gormCore := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		gormW,
		c.Logging.Level,
	)
	zapGormLogger := zap.New(gormCore)

	gormLogger := zapgorm2.New(zapGormLogger)
	gormLogger.LogLevel = gormlogger.Info
	gormLogger.IgnoreRecordNotFoundError = true
	gormLogger.SetAsDefault()

	return &gormLogger
}

// ErrPanic marks an error that was recovered from a panic.
var ErrPanic = errors.New("panic")

// RecoverPanic must be deferred directly. It logs a recovered panic with its
// location and, if errp is not nil, stores it there as an ErrPanic.
func RecoverPanic(l Logger, description string, errp *error) {
	r := recover()
	if r == nil {
		return
	}

	l.LogError(nil, fmt.Sprintf("!!PANIC OCCURED!!: %v: %v\n%v", description, r, IdentifyPanic()))
	if errp != nil {
		*errp = fmt.Errorf("%w in %s: %v", ErrPanic, description, r)
	}
}

func IdentifyPanic() string {
	var name, file string
	var line int
	var pc [16]uintptr

	n := runtime.Callers(3, pc[:])
	for _, pc := range pc[:n] {
		fn := runtime.FuncForPC(pc)
		if fn == nil {
			continue
		}
		file, line = fn.FileLine(pc)
		name = fn.Name()
		if !strings.HasPrefix(name, "runtime.") {
			break
		}
	}

	switch {
	case name != "":
		return fmt.Sprintf("%v:%v", name, line)
	case file != "":
		return fmt.Sprintf("%v:%v", file, line)
	}

	return fmt.Sprintf("pc:%x", pc)
}

func (d DefaultLogger) LogErrorf(keyVal []any, format string, args ...any) {
	d.Logger.Errorw(fmt.Sprintf(format, args...), keyVal...)
}
func (d DefaultLogger) LogError(keyVal []any, args ...any) {
	d.Logger.Errorw(fmt.Sprint(args...), keyVal...)
}

func (d DefaultLogger) LogWarnf(keyVal []any, format string, args ...any) {
	d.Logger.Warnw(fmt.Sprintf(format, args...), keyVal...)
}
func (d DefaultLogger) LogWarn(keyVal []any, args ...any) {
	d.Logger.Warnw(fmt.Sprint(args...), keyVal...)
}

func (d DefaultLogger) LogInfof(keyVal []any, format string, args ...any) {
	d.Logger.Infow(fmt.Sprintf(format, args...), keyVal...)
}
func (d DefaultLogger) LogInfo(keyVal []any, args ...any) {
	d.Logger.Infow(fmt.Sprint(args...), keyVal...)
}

func (d DefaultLogger) LogDebugf(keyVal []any, format string, args ...any) {
	d.Logger.Debugw(fmt.Sprintf(format, args...), keyVal...)
}

func (d DefaultLogger) LogDebug(keyVal []any, args ...any) {
	d.Logger.Debugw(fmt.Sprint(args...), keyVal...)
}

func (n NullLogger) LogErrorf(keyVal []any, format string, args ...any) {
	// null implementation
}

func (n NullLogger) LogError(keyVal []any, args ...any) {
	// null implementation
}

func (n NullLogger) LogWarnf(keyVal []any, format string, args ...any) {
	// null implementation
}

func (n NullLogger) LogWarn(keyVal []any, args ...any) {
	// null implementation
}

func (n NullLogger) LogInfof(keyVal []any, format string, args ...any) {
	// null implementation
}

func (n NullLogger) LogInfo(keyVal []any, args ...any) {
	// null implementation
}

func (n NullLogger) LogDebugf(keyVal []any, format string, args ...any) {
	// null implementation
}

func (n NullLogger) LogDebug(keyVal []any, args ...any) {
	// null implementation
}
