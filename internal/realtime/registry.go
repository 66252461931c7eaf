package realtime

import "sync"

// Handle は1本のリアルタイム接続への参照。
// Registryは参照を保持するだけで、接続のライフサイクルには関与しない。
type Handle interface {
	// Push はフレームを送信キューに積む。ブロックしない。
	// キューが満杯、または接続が既に閉じている場合はfalseを返す。
	Push(frame []byte) bool
}

// Registry はユーザーIDから現在の接続への対応表。
// 1ユーザーにつき保持する接続は最大1本で、後から接続したものが優先される。
type Registry struct {
	// mu は両方のマップを保護する。ロック中にI/Oは行わない。
	mu sync.Mutex
	// byUser はユーザーIDから接続への対応。
	byUser map[string]Handle
	// byHandle は接続からユーザーIDへの逆引き。
	byHandle map[Handle]string
}

// NewRegistry は空のRegistryを生成する。
func NewRegistry() *Registry {
	return &Registry{
		byUser:   make(map[string]Handle),
		byHandle: make(map[Handle]string),
	}
}

// Register はユーザーIDに接続を対応付ける。
// 既存の接続がある場合は置き換える。置き換えられた接続は閉じない。
func (r *Registry) Register(userID string, h Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.byUser[userID]; ok && prev != h {
		delete(r.byHandle, prev)
	}
	// 同じ接続が別ユーザーで登録済みなら、そちらの対応を外す
	if prevUser, ok := r.byHandle[h]; ok && prevUser != userID {
		if r.byUser[prevUser] == h {
			delete(r.byUser, prevUser)
		}
	}

	r.byUser[userID] = h
	r.byHandle[h] = userID
}

// Unregister は接続の登録を解除する。
// ユーザーが既に再接続していて別の接続が登録されている場合は何もしない。
// 解除した場合はtrueを返す。
func (r *Registry) Unregister(h Handle) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	userID, ok := r.byHandle[h]
	if !ok {
		return false
	}
	delete(r.byHandle, h)
	if r.byUser[userID] == h {
		delete(r.byUser, userID)
	}
	return true
}

// Lookup はユーザーの現在の接続を返す。
func (r *Registry) Lookup(userID string) (Handle, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	h, ok := r.byUser[userID]
	return h, ok
}

// Len は接続中のユーザー数を返す。
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byUser)
}
