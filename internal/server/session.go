package server

import (
	"net/http"

	"github.com/circleone/member-directory/internal/config"
	"github.com/circleone/member-directory/internal/constants"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	redisStore "github.com/gin-contrib/sessions/redis"
)

const redisPoolSize = 10

// NewSessionStore keeps sessions in Redis when REDIS_HOST is set and in a
// signed cookie otherwise.
func NewSessionStore(cfg *config.Config) (sessions.Store, error) {
	var store sessions.Store
	if cfg.RedisHost != "" {
		rs, err := redisStore.NewStore(
			redisPoolSize,
			"tcp",
			cfg.RedisHost+":"+cfg.RedisPort,
			cfg.RedisPassword,
			[]byte(cfg.SessionSecret),
		)
		if err != nil {
			return nil, err
		}
		store = rs
	} else {
		store = cookie.NewStore([]byte(cfg.SessionSecret))
	}

	store.Options(sessionOptions(cfg))
	return store, nil
}

func sessionOptions(cfg *config.Config) sessions.Options {
	return sessions.Options{
		Path:     "/",
		MaxAge:   constants.SessionMaxAge,
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	}
}
