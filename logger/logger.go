package logger

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitLogger points the global logger at out. Debug enables debug-level
// messages and caller info.
func InitLogger(out io.Writer, debug bool) {
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		log.Logger = zerolog.New(PrettyWriter(out, true)).With().Timestamp().Caller().Logger()
		return
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = zerolog.New(PrettyWriter(out, false)).With().Timestamp().Logger()
}

// NewTrace returns the sink for the raw TX/RX line log. A disabled trace is
// zerolog.Nop so the line reader pays nothing for it.
func NewTrace(out io.Writer, enabled, debug bool) zerolog.Logger {
	if !enabled {
		return zerolog.Nop()
	}

	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	cw := PrettyWriter(out, false)
	cw.TimeFormat = "15:04:05.000"
	cw.FormatLevel = func(interface{}) string { return "[TRACE]" }

	return zerolog.New(cw).Level(level).With().Timestamp().Logger()
}

// PrettyWriter returns a zerolog.ConsoleWriter with or without caller info
func PrettyWriter(out io.Writer, showCaller bool) zerolog.ConsoleWriter {
	cw := zerolog.ConsoleWriter{
		Out:          out,
		NoColor:      true,
		TimeFormat:   time.RFC3339,
		TimeLocation: time.Local,
		FormatLevel: func(i interface{}) string {
			return "[" + strings.ToUpper(fmt.Sprint(i)) + "]"
		},
		FormatMessage: func(i interface{}) string {
			return fmt.Sprint(i)
		},
		FormatFieldName: func(i interface{}) string {
			return "(" + fmt.Sprint(i) + ")"
		},
		FormatFieldValue: func(i interface{}) string {
			return fmt.Sprint(i)
		},
	}
	if showCaller {
		cw.FormatCaller = func(i interface{}) string {
			if i == nil || i == "" {
				return ""
			}
			callerStr := fmt.Sprint(i)
			if idx := strings.Index(callerStr, "/gif-player-v2/"); idx != -1 {
				callerStr = callerStr[idx+len("/gif-player-v2/"):]
			}
			return fmt.Sprintf("(%s)", callerStr)
		}
	} else {
		cw.FormatCaller = func(i interface{}) string { return "" }
	}
	return cw
}
