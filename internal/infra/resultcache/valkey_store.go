package resultcache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/patternlife/internal/domain/pattern"
)

// ValkeyStore persists computed views in a Valkey-compatible database so replicas share work.
type ValkeyStore struct {
	client valkey.Client
	prefix string
}

// NewValkeyStore constructs a new cache backed by Valkey.
func NewValkeyStore(client valkey.Client, prefix string) *ValkeyStore {
	if prefix == "" {
		prefix = "patternlife"
	}
	return &ValkeyStore{client: client, prefix: prefix}
}

func (s *ValkeyStore) Get(ctx context.Context, key string) (pattern.View, bool, error) {
	cmd := s.client.B().Get().Key(s.entryKey(key)).Build()
	payload, err := s.client.Do(ctx, cmd).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return pattern.View{}, false, nil
		}
		return pattern.View{}, false, err
	}
	var view pattern.View
	if err := json.Unmarshal([]byte(payload), &view); err != nil {
		return pattern.View{}, false, fmt.Errorf("decode cached view: %w", err)
	}
	return view, true, nil
}

func (s *ValkeyStore) Put(ctx context.Context, key string, view pattern.View, ttl time.Duration) error {
	payload, err := json.Marshal(view)
	if err != nil {
		return err
	}
	builder := s.client.B().Set().Key(s.entryKey(key)).Value(string(payload))
	var cmd valkey.Completed
	if ttl > 0 {
		if ttl < time.Second {
			ttl = time.Second
		}
		cmd = builder.Ex(ttl).Build()
	} else {
		cmd = builder.Build()
	}
	return s.client.Do(ctx, cmd).Error()
}

func (s *ValkeyStore) entryKey(key string) string {
	return fmt.Sprintf("%s:%s", s.prefix, key)
}

var _ pattern.ResultCache = (*ValkeyStore)(nil)
