package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "items:v1:"

// commitScript checks every precondition against current state, and only when
// all of them hold applies every write. Script execution is atomic on the
// Redis side, which is what makes the commit all-or-nothing. It replies with
// one integer per write: 1 when the precondition held, 0 when it did not.
var commitScript = redis.NewScript(`
local n = #KEYS
local outcomes = {}
local failed = false
for i = 1, n do
    local base = (i - 1) * 4
    local kind = ARGV[base + 1]
    local ok = true
    if kind == "absent" then
        if redis.call("EXISTS", KEYS[i]) == 1 then
            ok = false
        end
    elseif kind == "gte" then
        local cur = redis.call("GET", KEYS[i])
        if cur then
            local doc = cjson.decode(cur)
            local v = doc[ARGV[base + 2]]
            if v ~= nil then
                if type(v) ~= "number" or v < tonumber(ARGV[base + 3]) then
                    ok = false
                end
            end
        end
    end
    if ok then
        outcomes[i] = 1
    else
        outcomes[i] = 0
        failed = true
    end
end
if failed then
    return outcomes
end
for i = 1, n do
    local base = (i - 1) * 4
    redis.call("SET", KEYS[i], ARGV[base + 4])
end
return outcomes
`)

// RedisStore keeps items as JSON strings under prefixed keys and relies on
// Lua script atomicity for conditional commits.
type RedisStore struct {
	client *redis.Client
}

// NewRedis constructs a Redis-backed store.
func NewRedis(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func redisKey(table, key string) string {
	return redisKeyPrefix + table + ":" + key
}

// Get performs a point read.
func (s *RedisStore) Get(ctx context.Context, table, key string) (Item, error) {
	raw, err := s.client.Get(ctx, redisKey(table, key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	var item Item
	if err := json.Unmarshal([]byte(raw), &item); err != nil {
		return nil, fmt.Errorf("decode item %s/%s: %w", table, key, err)
	}
	return item, nil
}

// AtomicCommit evaluates and applies all writes in one script run.
func (s *RedisStore) AtomicCommit(ctx context.Context, writes []Write) error {
	keys := make([]string, len(writes))
	argv := make([]any, 0, len(writes)*4)
	for i, w := range writes {
		doc, err := json.Marshal(w.Item)
		if err != nil {
			return fmt.Errorf("encode item %s/%s: %w", w.Table, w.Key, err)
		}
		keys[i] = redisKey(w.Table, w.Key)

		kind := "none"
		switch w.Cond.Kind {
		case CondKeyAbsent:
			kind = "absent"
		case CondNumericGTE:
			kind = "gte"
		}
		argv = append(argv, kind, w.Cond.Attr, w.Cond.Value, string(doc))
	}

	res, err := commitScript.Run(ctx, s.client, keys, argv...).Result()
	if err != nil {
		return err
	}

	replies, ok := res.([]any)
	if !ok || len(replies) != len(writes) {
		return fmt.Errorf("unexpected commit reply %v", res)
	}

	outcomes := make([]Outcome, len(replies))
	failed := false
	for i, r := range replies {
		code, ok := r.(int64)
		if !ok {
			return fmt.Errorf("unexpected commit reply element %v", r)
		}
		if code == 1 {
			outcomes[i] = OutcomeOK
		} else {
			outcomes[i] = OutcomeConditionFailed
			failed = true
		}
	}
	if failed {
		return &CommitError{Outcomes: outcomes}
	}
	return nil
}
