// Package keylock 提供按 key 粒度的互斥锁。
// 同一会话的多轮对话、同一订单的并发取消都通过它串行化，
// 不同 key 之间互不阻塞。
package keylock

import "sync"

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// KeyedMutex 是一个按 key 分配互斥锁的注册表。
// 锁在无人持有或等待时会被回收，key 数量不会无限增长。
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*lockEntry
}

// New 创建一个新的 KeyedMutex。
func New() *KeyedMutex {
	return &KeyedMutex{locks: make(map[string]*lockEntry)}
}

// Lock 获取指定 key 的锁，返回对应的解锁函数。
// 用法：unlock := km.Lock(id); defer unlock()
func (k *KeyedMutex) Lock(key string) func() {
	k.mu.Lock()
	e, ok := k.locks[key]
	if !ok {
		e = &lockEntry{}
		k.locks[key] = e
	}
	e.refs++
	k.mu.Unlock()

	e.mu.Lock()

	return func() {
		e.mu.Unlock()
		k.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
