package chat

import "sync"

// ChatLocker serializes message handling per chat id. Two near-simultaneous
// messages from a brand-new chat must not both fire the welcome message, so
// each chat's processing holds its lock for the duration of one message.
// Different chats proceed in parallel.
type ChatLocker struct {
	mu    sync.Mutex
	locks map[string]*chatLock
}

type chatLock struct {
	mu   sync.Mutex
	refs int
}

// NewChatLocker creates an empty locker.
func NewChatLocker() *ChatLocker {
	return &ChatLocker{locks: make(map[string]*chatLock)}
}

// Lock acquires the lock for chatID and returns its release func. The
// release func must be called on every exit path; entries are dropped once
// no goroutine holds or waits on them.
func (l *ChatLocker) Lock(chatID string) func() {
	l.mu.Lock()
	entry, ok := l.locks[chatID]
	if !ok {
		entry = &chatLock{}
		l.locks[chatID] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()

	var once sync.Once
	return func() {
		once.Do(func() {
			entry.mu.Unlock()
			l.mu.Lock()
			entry.refs--
			if entry.refs == 0 {
				delete(l.locks, chatID)
			}
			l.mu.Unlock()
		})
	}
}
