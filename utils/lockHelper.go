package utils

import (
	"context"
	"time"

	"github.com/bsm/redislock"
	"github.com/codezana/generator-system-api/config"
	"github.com/sirupsen/logrus"
)

// ObtainLock tries to obtain a best-effort redis lock for the given key.
// Reliability must not depend on Redis: callers also serialize via
// SELECT ... FOR UPDATE inside their DB transaction. A nil return means
// "proceed without the redis lock".
func ObtainLock(ctx context.Context, key string, moduleName string, funcName string) *redislock.Lock {
	logger := config.GetLogger()
	locker := config.GetRedisLock()
	if locker == nil {
		logger.WithFields(logrus.Fields{
			"module":   moduleName,
			"funcName": funcName,
			"key":      key,
		}).Warn("redis lock not ready; proceeding without redis lock")
		return nil
	}
	lock, err := locker.Obtain(ctx, key, 30*time.Second, nil)
	if err == redislock.ErrNotObtained {
		logger.WithFields(logrus.Fields{
			"module":   moduleName,
			"funcName": funcName,
			"key":      key,
		}).Warn("could not obtain redis lock; proceeding without redis lock")
		return nil
	} else if err != nil {
		logger.WithFields(logrus.Fields{
			"module":   moduleName,
			"funcName": funcName,
			"key":      key,
		}).Warn("error obtaining redis lock; proceeding without redis lock: " + err.Error())
		return nil
	}
	return lock
}

// ReleaseLock releases a lock obtained with ObtainLock. Safe on nil.
func ReleaseLock(ctx context.Context, lock *redislock.Lock) {
	if lock == nil {
		return
	}
	if err := lock.Release(ctx); err != nil {
		config.GetLogger().Warn("failed to release redis lock: " + err.Error())
	}
}
