package app

import (
	"log/slog"
	"os"

	"github.com/shandysiswandi/otpgate/internal/verification"
)

func (a *App) initModules() {
	if a.config.GetBool("modules.verification.enabled") {
		dep := verification.Dependency{
			Ctx:         a.ctx,
			DBConn:      a.dbConn,
			Storage:     a.storage,
			Idempotency: a.idemp,
			Goroutine:   a.goroutine,
			Router:      a.router,
			Messaging:   a.messaging,
			SMS:         a.sms,
			Config:      a.config,
			Instrument:  a.ins,
			UID:         a.uid,
			UUID:        a.uuid,
			Clock:       a.clock,
			Validator:   a.validator,
		}
		// a nil *redis.Client must not become a non-nil interface
		if a.cacheConn != nil {
			dep.CacheConn = a.cacheConn
		}

		if err := verification.New(dep); err != nil {
			slog.Error("failed to init module verification", "error", err)
			os.Exit(1)
		}
	}
}
