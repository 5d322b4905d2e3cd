package providers

import (
	"clanwatch/internal/structures"
	"fmt"

	"github.com/gookit/validate"
)

type CnfValidator struct {
	conf *structures.Config
}

func (v *CnfValidator) Validate() error {
	val := validate.Struct(v.conf)
	if !val.Validate() {
		return fmt.Errorf("invalid config: %s", val.Errors.One())
	}

	if v.conf.Cache.Enabled && v.conf.Cache.Backend == "redis" && v.conf.Cache.Redis.Addr == "" {
		return fmt.Errorf("invalid config: cache.redis.addr is required for the redis backend")
	}
	if v.conf.Reminder.Enabled {
		if v.conf.Reminder.IntervalMinutes <= 0 {
			return fmt.Errorf("invalid config: reminder.intervalMinutes must be positive")
		}
		if v.conf.Upstream.ClanTag == "" {
			return fmt.Errorf("invalid config: upstream.clanTag is required when reminders are enabled")
		}
	}
	return nil
}

func NewCnfValidator(conf *structures.Config) *CnfValidator {
	return &CnfValidator{conf: conf}
}
