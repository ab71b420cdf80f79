package cache

import (
	"context"
	"fmt"
	"go-parking-facility/internal/model"

	"github.com/redis/go-redis/v9"
)

// CounterStore 以 (branch, category) 為 key 的原子整數計數器。
// 不同 key 之間彼此獨立、不互相競爭；各操作必須是原子的 read-modify-write。
type CounterStore interface {
	// 遞增並回傳新值
	Increment(ctx context.Context, branchID int, category model.VehicleCategory) (int64, error)
	// 遞減並回傳新值；低於零時夾定為零，clamped 為 true
	Decrement(ctx context.Context, branchID int, category model.VehicleCategory) (int64, bool, error)
	// 設定權威值（對帳用）
	Set(ctx context.Context, branchID int, category model.VehicleCategory, value int64) error
	// 非阻塞讀取；key 不存在視為 0
	Get(ctx context.Context, branchID int, category model.VehicleCategory) (int64, error)
}

type RedisCounterStore struct {
	client *redis.Client
}

func NewRedisCounterStore(client *redis.Client) CounterStore {
	return &RedisCounterStore{
		client: client,
	}
}

// 佔用數 key
func (s *RedisCounterStore) getOccupancyKey(branchID int, category model.VehicleCategory) string {
	return fmt.Sprintf("occupancy:%d:%s", branchID, category)
}

func (s *RedisCounterStore) Increment(ctx context.Context, branchID int, category model.VehicleCategory) (int64, error) {
	key := s.getOccupancyKey(branchID, category)
	return s.client.Incr(ctx, key).Result()
}

/*
*

	遞減佔用數 (使用Lua腳本確保原子性)
	1. 執行 DECR
	2. 結果低於零則夾定回零，並回報 clamped
*/
func (s *RedisCounterStore) Decrement(ctx context.Context, branchID int, category model.VehicleCategory) (int64, bool, error) {
	key := s.getOccupancyKey(branchID, category)

	script := `
		-- 1. 遞減
		local value = redis.call('DECR', KEYS[1])

		-- 2. 低於零則夾定回零（防止重複釋放）
		if value < 0 then
			redis.call('SET', KEYS[1], 0)
			return {0, 1}
		end

		return {value, 0}
	`

	result, err := s.client.Eval(ctx, script, []string{key}).Result()
	if err != nil {
		return 0, false, err
	}

	resSlice := result.([]interface{})
	value := resSlice[0].(int64)
	clamped := resSlice[1].(int64) == 1

	return value, clamped, nil
}

func (s *RedisCounterStore) Set(ctx context.Context, branchID int, category model.VehicleCategory, value int64) error {
	key := s.getOccupancyKey(branchID, category)
	return s.client.Set(ctx, key, value, 0).Err()
}

func (s *RedisCounterStore) Get(ctx context.Context, branchID int, category model.VehicleCategory) (int64, error) {
	key := s.getOccupancyKey(branchID, category)
	val, err := s.client.Get(ctx, key).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return val, err
}
