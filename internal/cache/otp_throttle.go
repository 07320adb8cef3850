package cache

import (
	"context"
	"fmt"
	"time"
)

// ThrottleRule bounds how many OTP issues a Discord account may
// request inside a window before being blocked.
type ThrottleRule struct {
	Window      time.Duration
	MaxAttempts int
	Block       time.Duration
}

func otpAttemptKey(discordID string) string {
	return fmt.Sprintf("otp:attempts:%s", discordID)
}

func otpBlockKey(discordID string) string {
	return fmt.Sprintf("otp:block:%s", discordID)
}

// AllowOTPIssue counts an issue attempt against the rule. Returns
// false when the account is currently blocked. With the cache disabled
// the throttle is a no-op and always allows.
func AllowOTPIssue(ctx context.Context, discordID string, rule ThrottleRule) (bool, error) {
	if !Enabled() || discordID == "" || rule.MaxAttempts <= 0 {
		return true, nil
	}

	blocked, err := redisClient.Exists(ctx, buildKey(otpBlockKey(discordID))).Result()
	if err != nil {
		return false, err
	}
	if blocked > 0 {
		return false, nil
	}

	key := buildKey(otpAttemptKey(discordID))
	count, err := redisClient.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if count == 1 && rule.Window > 0 {
		if err := redisClient.Expire(ctx, key, rule.Window).Err(); err != nil {
			return false, err
		}
	}
	if count > int64(rule.MaxAttempts) {
		block := rule.Block
		if block <= 0 {
			block = rule.Window
		}
		if err := redisClient.Set(ctx, buildKey(otpBlockKey(discordID)), 1, block).Err(); err != nil {
			return false, err
		}
		return false, nil
	}
	return true, nil
}

// ClearOTPThrottle resets the issue counters, used after a successful
// verification.
func ClearOTPThrottle(ctx context.Context, discordID string) error {
	if !Enabled() || discordID == "" {
		return nil
	}
	if err := Del(ctx, otpAttemptKey(discordID)); err != nil {
		return err
	}
	return Del(ctx, otpBlockKey(discordID))
}
