package keylock

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// KeyLock взаимное исключение по строковому ключу (id консоли, id пользователя)
// Семафор ключа удаляется, когда его больше никто не держит и не ждет
type KeyLock struct {
	mu    sync.Mutex
	locks map[string]*entry
}

type entry struct {
	sem  *semaphore.Weighted
	refs int
}

// New создает пустой KeyLock
func New() *KeyLock {
	return &KeyLock{locks: make(map[string]*entry)}
}

// Lock захватывает ключ. Возвращает функцию освобождения
// Ожидание прерывается отменой контекста
func (k *KeyLock) Lock(ctx context.Context, key string) (func(), error) {
	e := k.acquireEntry(key)

	if err := e.sem.Acquire(ctx, 1); err != nil {
		k.releaseEntry(key, e)
		return nil, err
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			e.sem.Release(1)
			k.releaseEntry(key, e)
		})
	}, nil
}

// Held количество ключей, которые сейчас кем-то удерживаются или ожидаются
func (k *KeyLock) Held() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}

func (k *KeyLock) acquireEntry(key string) *entry {
	k.mu.Lock()
	defer k.mu.Unlock()

	e, ok := k.locks[key]
	if !ok {
		e = &entry{sem: semaphore.NewWeighted(1)}
		k.locks[key] = e
	}
	e.refs++
	return e
}

func (k *KeyLock) releaseEntry(key string, e *entry) {
	k.mu.Lock()
	defer k.mu.Unlock()

	e.refs--
	if e.refs == 0 {
		delete(k.locks, key)
	}
}
