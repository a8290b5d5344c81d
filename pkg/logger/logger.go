package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/Meesho/BharatMLStack/online-learner/pkg/metric"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/diode"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type contextKey string

// PassIDKey carries the id of the sync pass or request that emitted the log line
const PassIDKey contextKey = "pass_id"

const defaultDrainingInterval = 5 * time.Millisecond

var (
	once        sync.Once
	initialized = false
	closer      io.Closer

	levels = map[string]zerolog.Level{
		"DEBUG":    zerolog.DebugLevel,
		"INFO":     zerolog.InfoLevel,
		"WARN":     zerolog.WarnLevel,
		"ERROR":    zerolog.ErrorLevel,
		"FATAL":    zerolog.FatalLevel,
		"PANIC":    zerolog.PanicLevel,
		"DISABLED": zerolog.Disabled,
	}
)

// InitLogger initializes the logger with the given app name and log level
func InitLogger(appName, logLevel string) {
	if len(appName) == 0 {
		panic("Application name is not set!")
	}
	if len(logLevel) == 0 {
		log.Warn().Msg("Log level not set, defaulting to WARN")
		logLevel = "WARN"
	}
	initLogger(appName, logLevel)
}

// Init initializes the logger from APP_NAME and APP_LOG_LEVEL. LOG_RB_SIZE switches output to a
// non-blocking ring buffer drained every LOG_RB_DRAINING_INTERVAL.
func Init() {
	appName := viper.GetString("APP_NAME")
	logLevel := viper.GetString("APP_LOG_LEVEL")

	if len(appName) == 0 {
		panic("APP_NAME is not set!")
	}
	if len(logLevel) == 0 {
		panic("APP_LOG_LEVEL is not set!")
	}
	InitLogger(appName, logLevel)
}

func initLogger(appName, logLevel string) {
	if initialized {
		log.Debug().Msgf("Logger already initialized!")
		return
	}
	once.Do(func() {
		setLogLevel(logLevel)
		out := newOutput(viper.GetInt("LOG_RB_SIZE"), viper.GetDuration("LOG_RB_DRAINING_INTERVAL"))

		log.Logger = zerolog.New(newConsoleWriter(out)).With().
			Timestamp().
			Str("processInfo", fmt.Sprintf("- [%d, %s] -", os.Getpid(), appName)).
			Caller().
			Logger().
			Hook(ContextHook{})

		// callers are logged as [file_name::line_number]
		zerolog.CallerMarshalFunc = func(pc uintptr, file string, line int) string {
			return fmt.Sprintf("[%s::%d]", file[strings.LastIndex(file, "/")+1:], line)
		}
		zerolog.ErrorStackMarshaler = func(err error) interface{} {
			return fmt.Sprintf("%s\n%s", err, debug.Stack())
		}

		initialized = true
		log.Info().Msg("Logger initialized!")
	})
}

// newOutput returns stdout, or a diode ring buffer over stdout when rbSize is positive.
// Lines dropped by a full ring buffer are counted in log_rb_dropped.
func newOutput(rbSize int, drainingInterval time.Duration) io.Writer {
	if rbSize <= 0 {
		return os.Stdout
	}
	if drainingInterval <= 0 {
		drainingInterval = defaultDrainingInterval
	}
	var dropWarnOnce sync.Once
	dw := diode.NewWriter(os.Stdout, rbSize, drainingInterval, func(missed int) {
		metric.Count("log_rb_dropped", int64(missed), nil)
		dropWarnOnce.Do(func() {
			fmt.Fprintf(os.Stderr, "Error from Logger: dropping logs due to buffer overflow\n")
		})
	})
	metric.Incr("log_rb_initialized", nil)
	closer = dw
	return dw
}

func newConsoleWriter(out io.Writer) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:           out,
		NoColor:       true,
		TimeFormat:    "2006-01-02 15:04:05.000",
		FormatLevel:   func(i interface{}) string { return strings.ToUpper(fmt.Sprintf("- [%-5s] -", i)) },
		FormatCaller:  func(i interface{}) string { return fmt.Sprintf("%s", i) },
		FormatMessage: func(i interface{}) string { return fmt.Sprintf("%s", i) },
		FieldsExclude: []string{"processInfo", "extraInfo"},
		PartsOrder: []string{
			zerolog.TimestampFieldName,
			zerolog.LevelFieldName,
			zerolog.CallerFieldName,
			"processInfo",
			"extraInfo",
			zerolog.MessageFieldName,
		},
	}
}

// Close flushes the ring buffer, if one is in use. Call it last during shutdown.
func Close() error {
	if closer == nil {
		return nil
	}
	return closer.Close()
}

func setLogLevel(logLevel string) {
	level, ok := levels[logLevel]
	if !ok {
		log.Panic().Msgf("Incorrect log level - %s", logLevel)
	}
	zerolog.SetGlobalLevel(level)
}

// ContextHook appends the pass id carried by the event context, if any
type ContextHook struct{}

func (h ContextHook) Run(e *zerolog.Event, level zerolog.Level, msg string) {
	passID := ""
	if ctx := e.GetCtx(); ctx != nil {
		if v, ok := ctx.Value(PassIDKey).(string); ok {
			passID = v
		}
	}
	e.Str("extraInfo", fmt.Sprintf("- [%s] -", passID))
}

// WithPassID returns a context whose log events are tagged with the given pass id
func WithPassID(ctx context.Context, passID string) context.Context {
	return context.WithValue(ctx, PassIDKey, passID)
}
