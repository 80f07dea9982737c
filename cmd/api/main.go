package main

import (
	"expvar"
	"fmt"
	"log"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"paygate/internal/auth"
	"paygate/internal/db"
	"paygate/internal/domain/partners"
	"paygate/internal/domain/payments"
	"paygate/internal/mailer"
	"paygate/internal/pg"
	"paygate/internal/ratelimiter"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var version = "1.0.0"

// NewLogger creates a new zap logger with color.
func NewLogger() (*zap.SugaredLogger, error) {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder

	consoleEncoder := zapcore.NewConsoleEncoder(encoderCfg)
	core := zapcore.NewCore(consoleEncoder, zapcore.NewMultiWriteSyncer(zapcore.AddSync(os.Stdout)), zapcore.InfoLevel)

	return zap.New(core).Sugar(), nil
}

func envInt(key string, fallback int) int {
	if val, exists := os.LookupEnv(key); exists {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
		fmt.Printf("Invalid %s, defaulting to %d\n", key, fallback)
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if val, exists := os.LookupEnv(key); exists {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
		fmt.Printf("Invalid %s, defaulting to %t\n", key, fallback)
	}
	return fallback
}

// parsePartnerIDs reads a comma separated id list like "2,5,7".
func parsePartnerIDs(raw string) []int64 {
	var out []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			log.Fatalf("Invalid partner id %q in PG_PARTNER_IDS", part)
		}
		out = append(out, id)
	}
	return out
}

//	@title			Paygate API
//	@description	Card payment settlement and query API for partner merchants.

//	@BasePath					/v1
//	@securityDefinitions.apikey	ApiKeyAuth
//	@in							header
//	@name						Authorization
//	@description

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Fatalf("Error loading .env file: %v", err)
	}

	cfg := config{
		addr:   os.Getenv("ADDR"),
		env:    os.Getenv("ENV"),
		apiURL: os.Getenv("EXTERNAL_URL"),
		db: dbConfig{
			addr:        os.Getenv("DB_ADDR"),
			maxConns:    int32(envInt("DB_MAX_CONNS", 25)),
			maxIdleTime: os.Getenv("DB_MAX_IDLE_TIME"),
		},
		pg: pgConfig{
			baseURL:    os.Getenv("PG_BASE_URL"),
			apiKey:     os.Getenv("PG_API_KEY"),
			iv:         os.Getenv("PG_IV"),
			partnerIDs: parsePartnerIDs(os.Getenv("PG_PARTNER_IDS")),
		},
		auth: authConfig{
			basic: basicConfig{
				user: os.Getenv("AUTH_BASIC_USER"),
				pass: os.Getenv("AUTH_BASIC_PASS"),
			},
			token: tokenConfig{
				secret:          os.Getenv("AUTH_TOKEN_SECRET"),
				refreshSecret:   os.Getenv("AUTH_TOKEN_REFRESH_SECRET"),
				accessTokenExp:  time.Hour * 24,
				refreshTokenExp: time.Hour * 24 * 7,
				iss:             "paygate",
			},
		},
		mail: mailConfig{
			enabled:   envBool("MAIL_ENABLED", false),
			host:      os.Getenv("MAIL_HOST"),
			port:      envInt("MAIL_PORT", 587),
			username:  os.Getenv("MAIL_USERNAME"),
			password:  os.Getenv("MAIL_PASSWORD"),
			fromEmail: os.Getenv("MAIL_FROM_EMAIL"),
		},
		cursor: cursorConfig{
			salt: os.Getenv("CURSOR_SALT"),
		},
		rateLimiter: ratelimiter.Config{
			RequestsPerTimeFrame: envInt("RATELIMITER_REQUESTS_COUNT", 200),
			TimeFrame:            5 * time.Second,
			Enabled:              envBool("RATE_LIMITER_ENABLED", false),
		},
	}

	logger, err := NewLogger()
	if err != nil {
		fmt.Println("Error creating logger:", err)
		return
	}
	defer logger.Sync()

	pool, err := db.New(cfg.db.addr, cfg.db.maxConns, cfg.db.maxIdleTime)
	if err != nil {
		logger.Fatal(err)
	}
	defer pool.Close()
	logger.Info("database connection pool established")

	partnerStore := partners.NewStore(pool)
	paymentStore := payments.NewStore(pool)

	gateways := pg.NewRegistry()
	gateways.Register(pg.NewTestPGAdapter(
		cfg.pg.baseURL,
		cfg.pg.apiKey,
		cfg.pg.iv,
		cfg.pg.partnerIDs,
		logger,
	))

	settlement := payments.NewService(partnerStore, partnerStore, paymentStore, gateways, logger)

	cursorCodec, err := payments.NewCursorCodec(cfg.cursor.salt)
	if err != nil {
		logger.Fatal(err)
	}
	queries := payments.NewQueryEngine(paymentStore, cursorCodec)

	var mailClient mailer.Client
	if cfg.mail.enabled {
		mailClient, err = mailer.NewSMTPClient(
			cfg.mail.host,
			cfg.mail.port,
			cfg.mail.username,
			cfg.mail.password,
			cfg.mail.fromEmail,
		)
		if err != nil {
			logger.Fatal(err)
		}
	}

	rateLimiter := ratelimiter.NewFixedWindowLimiter(
		cfg.rateLimiter.RequestsPerTimeFrame,
		cfg.rateLimiter.TimeFrame,
	)

	jwtAuthenticator := auth.NewJWTAuthenticator(
		cfg.auth.token.secret,
		cfg.auth.token.refreshSecret,
		cfg.auth.token.iss,
		cfg.auth.token.iss,
		cfg.auth.token.accessTokenExp,
		cfg.auth.token.refreshTokenExp,
	)

	app := &application{
		config:        cfg,
		logger:        logger,
		partners:      partnerStore,
		payments:      paymentStore,
		settlement:    settlement,
		queries:       queries,
		gateways:      gateways,
		mailer:        mailClient,
		authenticator: jwtAuthenticator,
		rateLimiter:   rateLimiter,
	}

	// Metrics collected at /v1/debug/vars
	expvar.NewString("version").Set(version)
	expvar.Publish("database", expvar.Func(func() any {
		s := pool.Stat()
		return map[string]any{
			"total_conns":    s.TotalConns(),
			"acquired_conns": s.AcquiredConns(),
			"idle_conns":     s.IdleConns(),
		}
	}))
	expvar.Publish("goroutines", expvar.Func(func() any {
		return runtime.NumGoroutine()
	}))

	mux := app.mount()

	logger.Fatal(app.run(mux))
}
