package seating

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Lua script for atomic seat reservation - pops seats from the pool
var luaReserveSeats = redis.NewScript(`
-- KEYS[1] = available set
-- KEYS[2] = reserved set
-- ARGV[1] = seat count
local count = tonumber(ARGV[1])

if redis.call("SCARD", KEYS[1]) < count then
    return {0, "insufficient_seats"}
end

local seats = redis.call("SPOP", KEYS[1], count)
for i = 1, #seats do
    redis.call("SADD", KEYS[2], seats[i])
end

return {1, seats}
`)

// Lua script for assigning reserved seats to an account
var luaAssignSeats = redis.NewScript(`
-- KEYS[1] = reserved set
-- KEYS[2] = account seats set
-- KEYS[3] = owners hash
-- ARGV[1] = account_id
-- ARGV[2..N] = seat_ids
local account_id = ARGV[1]

for i = 2, #ARGV do
    if redis.call("SISMEMBER", KEYS[1], ARGV[i]) == 0 then
        return {0, ARGV[i]}
    end
end

for i = 2, #ARGV do
    redis.call("SREM", KEYS[1], ARGV[i])
    redis.call("SADD", KEYS[2], ARGV[i])
    redis.call("HSET", KEYS[3], ARGV[i], account_id)
end

return {1, #ARGV - 1}
`)

// Lua script for handing seats back to the pool
var luaReleaseSeats = redis.NewScript(`
-- KEYS[1] = available set
-- KEYS[2] = reserved set
-- KEYS[3] = account seats set
-- KEYS[4] = owners hash
-- ARGV[1] = account_id
-- ARGV[2..N] = seat_ids
local account_id = ARGV[1]
local released = 0

for i = 2, #ARGV do
    local seat_id = ARGV[i]
    local owner = redis.call("HGET", KEYS[4], seat_id)

    if redis.call("SREM", KEYS[2], seat_id) == 1 then
        redis.call("SADD", KEYS[1], seat_id)
        released = released + 1
    elseif owner == account_id then
        redis.call("SREM", KEYS[3], seat_id)
        redis.call("HDEL", KEYS[4], seat_id)
        redis.call("SADD", KEYS[1], seat_id)
        released = released + 1
    end
end

return {1, released}
`)

// AtomicRedisOperations runs the seat scripts against Redis
type AtomicRedisOperations struct {
	redis *redis.Client
}

// NewAtomicRedisOperations creates a new atomic Redis operations handler
func NewAtomicRedisOperations(redisClient *redis.Client) *AtomicRedisOperations {
	return &AtomicRedisOperations{
		redis: redisClient,
	}
}

// AtomicReserveSeats takes count seats out of the pool and marks them reserved
func (a *AtomicRedisOperations) AtomicReserveSeats(ctx context.Context, count int) ([]string, error) {
	if a.redis == nil {
		return nil, fmt.Errorf("redis client not available")
	}

	result, err := luaReserveSeats.Run(ctx, a.redis, []string{keyAvailable, keyReserved}, count).Slice()
	if err != nil {
		return nil, fmt.Errorf("failed to execute atomic seat reservation: %w", err)
	}

	success, err := parseFlag(result)
	if err != nil {
		return nil, err
	}
	if !success {
		return nil, ErrInsufficientSeats
	}

	raw, ok := result[1].([]interface{})
	if !ok {
		return nil, fmt.Errorf("invalid seat list in Lua script result")
	}

	seats := make([]string, 0, len(raw))
	for _, v := range raw {
		seatID, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("invalid seat id in Lua script result")
		}
		seats = append(seats, seatID)
	}
	return seats, nil
}

// AtomicAssignSeats moves reserved seats onto an account
func (a *AtomicRedisOperations) AtomicAssignSeats(ctx context.Context, accountID int64, seatIDs []string) error {
	if a.redis == nil {
		return fmt.Errorf("redis client not available")
	}

	keys := []string{keyReserved, accountKey(accountID), keyOwners}
	args := seatArgs(accountID, seatIDs)

	result, err := luaAssignSeats.Run(ctx, a.redis, keys, args...).Slice()
	if err != nil {
		return fmt.Errorf("failed to execute atomic seat assignment: %w", err)
	}

	success, err := parseFlag(result)
	if err != nil {
		return err
	}
	if !success {
		if seatID, ok := result[1].(string); ok {
			return fmt.Errorf("%w: %s", ErrSeatNotReserved, seatID)
		}
		return ErrSeatNotReserved
	}
	return nil
}

// AtomicReleaseSeats returns reserved or assigned seats to the pool
func (a *AtomicRedisOperations) AtomicReleaseSeats(ctx context.Context, accountID int64, seatIDs []string) (int, error) {
	if a.redis == nil {
		return 0, fmt.Errorf("redis client not available")
	}

	keys := []string{keyAvailable, keyReserved, accountKey(accountID), keyOwners}
	args := seatArgs(accountID, seatIDs)

	result, err := luaReleaseSeats.Run(ctx, a.redis, keys, args...).Slice()
	if err != nil {
		return 0, fmt.Errorf("failed to execute atomic seat release: %w", err)
	}

	if _, err := parseFlag(result); err != nil {
		return 0, err
	}

	released, ok := result[1].(int64)
	if !ok {
		return 0, fmt.Errorf("invalid released count in Lua script result")
	}
	return int(released), nil
}

// PreloadScripts loads Lua scripts into Redis for better performance
func (a *AtomicRedisOperations) PreloadScripts(ctx context.Context) error {
	if a.redis == nil {
		return fmt.Errorf("redis client not available")
	}

	for name, script := range map[string]*redis.Script{
		"reserve": luaReserveSeats,
		"assign":  luaAssignSeats,
		"release": luaReleaseSeats,
	} {
		if err := script.Load(ctx, a.redis).Err(); err != nil {
			return fmt.Errorf("failed to load seat %s script: %w", name, err)
		}
	}
	return nil
}

func seatArgs(accountID int64, seatIDs []string) []interface{} {
	args := make([]interface{}, 0, len(seatIDs)+1)
	args = append(args, accountID)
	for _, seatID := range seatIDs {
		args = append(args, seatID)
	}
	return args
}

func parseFlag(result []interface{}) (bool, error) {
	if len(result) != 2 {
		return false, fmt.Errorf("unexpected result format from Lua script")
	}
	success, ok := result[0].(int64)
	if !ok {
		return false, fmt.Errorf("invalid success flag in Lua script result")
	}
	return success == 1, nil
}
