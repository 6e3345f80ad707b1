package logger

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config opciones del logger. Service se estampa en cada entrada para que los
// logs de varias instancias del servicio sean distinguibles en agregación.
type Config struct {
	Env     string // development -> consola legible; cualquier otro -> JSON
	Level   string // trace, debug, info, warn, error (LOG_LEVEL)
	Service string // nombre del servicio (APP_NAME)
}

// New crea el logger estructurado de la aplicación y lo instala como logger
// global de zerolog. Un nivel desconocido cae a info.
func New(cfg Config) zerolog.Logger {
	return build(os.Stdout, cfg)
}

func build(w io.Writer, cfg Config) zerolog.Logger {
	if cfg.Env == "development" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	}

	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	ctx := zerolog.New(w).Level(level).With().Timestamp()
	if cfg.Service != "" {
		ctx = ctx.Str("service", cfg.Service)
	}
	zl := ctx.Logger()

	log.Logger = zl
	return zl
}
