// Package logger provee un logger Zap singleton con scoping por contexto.
//
//   - Singleton: una sola instancia global inicializada con Init().
//   - Context scoping: cada request puede llevar un logger "scoped" con campos
//     adicionales (request_id, subject_id, etc.) sin crear un nuevo core.
//   - Environments: "dev" usa consola con colores, "prod" usa JSON.
package logger

import (
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	once     sync.Once
	instance *zap.Logger
)

// Config configura el logger.
type Config struct {
	// Env define el entorno: "dev" (consola con colores) o "prod" (JSON).
	Env string

	// Level define el nivel mínimo de log: "debug", "info", "warn", "error".
	Level string

	// ServiceName es el nombre del servicio para incluir en logs. Opcional.
	ServiceName string
}

// Init inicializa el logger singleton con la configuración dada.
// Es idempotente: solo la primera llamada tiene efecto.
func Init(cfg Config) {
	once.Do(func() {
		instance = build(cfg)
	})
}

// L retorna el logger singleton.
// Si Init() no fue llamado, crea un logger por defecto (dev, info).
func L() *zap.Logger {
	if instance == nil {
		Init(Config{Env: "dev", Level: "info"})
	}
	return instance
}

// Named retorna un logger con un nombre de componente.
func Named(name string) *zap.Logger {
	return L().Named(name)
}

// With retorna un logger con campos adicionales.
func With(fields ...zap.Field) *zap.Logger {
	return L().With(fields...)
}

// Sync flushea cualquier buffer pendiente. Llamar con defer en main.
func Sync() error {
	if instance != nil {
		return instance.Sync()
	}
	return nil
}

// build construye el logger según la configuración.
func build(cfg Config) *zap.Logger {
	level := parseLevel(cfg.Level)

	var l *zap.Logger
	var err error

	if strings.ToLower(cfg.Env) == "prod" {
		l, err = buildProd(level)
	} else {
		l, err = buildDev(level)
	}
	if err != nil {
		// Fallback a un logger básico si falla
		l, _ = zap.NewProduction()
	}

	if cfg.ServiceName != "" {
		l = l.With(zap.String("service", cfg.ServiceName))
	}
	return l
}

func buildDev(level zapcore.Level) (*zap.Logger, error) {
	zcfg := zap.NewDevelopmentConfig()
	zcfg.Level = zap.NewAtomicLevelAt(level)
	zcfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	zcfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
	zcfg.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder
	zcfg.DisableStacktrace = true
	return zcfg.Build(zap.AddCaller(), zap.AddCallerSkip(1))
}

func buildProd(level zapcore.Level) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(level)
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zcfg.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder
	return zcfg.Build(
		zap.AddCaller(),
		zap.AddCallerSkip(1),
		zap.AddStacktrace(zapcore.ErrorLevel),
	)
}

// parseLevel convierte un string a zapcore.Level.
func parseLevel(lvl string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(lvl)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
