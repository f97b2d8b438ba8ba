package kv

import (
	"bytes"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
)

// ttlPrefix 标记带过期时间的值，供不支持原生 TTL 的后端使用.
var ttlPrefix = []byte("FVTTL1:")

type ttlEnvelope struct {
	Value    []byte `json:"v"`
	ExpireAt int64  `json:"e"` // Unix 毫秒
}

// sealTTL 为 ttl > 0 的值加上过期时间，其余原样返回.
func sealTTL(value []byte, ttl time.Duration, now time.Time) ([]byte, error) {
	if ttl <= 0 {
		return value, nil
	}

	b, err := sonic.Marshal(ttlEnvelope{Value: value, ExpireAt: now.Add(ttl).UnixMilli()})
	if err != nil {
		return nil, fmt.Errorf("seal ttl value: %w", err)
	}

	return append(append([]byte{}, ttlPrefix...), b...), nil
}

// openTTL 解开过期包装，live 为 false 表示已过期.
func openTTL(raw []byte, now time.Time) (value []byte, live bool, err error) {
	body, sealed := bytes.CutPrefix(raw, ttlPrefix)
	if !sealed {
		return raw, true, nil
	}

	var env ttlEnvelope
	if err := sonic.Unmarshal(body, &env); err != nil {
		return nil, false, fmt.Errorf("open ttl value: %w", err)
	}

	if env.ExpireAt > 0 && now.UnixMilli() >= env.ExpireAt {
		return nil, false, nil
	}

	return env.Value, true, nil
}
