package kv

import "path"

// matchKey 按 glob 模式匹配键，与 Redis KEYS 的常用语法一致.
func matchKey(pattern, key string) bool {
	if pattern == "" || pattern == "*" {
		return true
	}

	ok, err := path.Match(pattern, key)

	return err == nil && ok
}
