package credguard

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	recoveryKeyPrefix       = "rcv"
	recoveryRecordVersionV1 = 1
)

// redisRecoveryStore is the multi-instance backend: records live under
// a prefixed key with a server-side TTL, and Claim runs a WATCH
// transaction so concurrent redemptions of one token resolve to a
// single winner.
type redisRecoveryStore struct {
	redis  redis.UniversalClient
	prefix string
}

func newRedisRecoveryStore(client redis.UniversalClient) *redisRecoveryStore {
	return &redisRecoveryStore{
		redis:  client,
		prefix: recoveryKeyPrefix,
	}
}

func (s *redisRecoveryStore) key(token string) string {
	return s.prefix + ":" + token
}

func (s *redisRecoveryStore) Save(ctx context.Context, token string, record recoveryRecord, ttl time.Duration) error {
	encoded, err := encodeRecoveryRecord(&record)
	if err != nil {
		return err
	}

	if err := s.redis.Set(ctx, s.key(token), encoded, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

func (s *redisRecoveryStore) Get(ctx context.Context, token string) (*recoveryRecord, error) {
	data, err := s.redis.Get(ctx, s.key(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrInvalidOrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	record, err := decodeRecoveryRecord(data)
	if err != nil {
		return nil, err
	}
	if time.Now().Unix() >= record.ExpiresAt {
		return nil, ErrInvalidOrExpiredToken
	}
	return record, nil
}

func (s *redisRecoveryStore) Claim(ctx context.Context, token string) (*recoveryRecord, error) {
	const maxRetries = 4
	key := s.key(token)

	for i := 0; i < maxRetries; i++ {
		var claimed *recoveryRecord

		err := s.redis.Watch(ctx, func(tx *redis.Tx) error {
			data, err := tx.Get(ctx, key).Bytes()
			if err != nil {
				return err
			}

			record, err := decodeRecoveryRecord(data)
			if err != nil {
				return err
			}

			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Del(ctx, key)
				return nil
			})
			if err != nil {
				return err
			}

			if time.Now().Unix() >= record.ExpiresAt {
				return ErrInvalidOrExpiredToken
			}

			claimed = record
			return nil
		}, key)

		if err == redis.TxFailedErr {
			continue
		}
		if err != nil {
			switch {
			case errors.Is(err, redis.Nil), errors.Is(err, ErrInvalidOrExpiredToken):
				return nil, ErrInvalidOrExpiredToken
			default:
				return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
			}
		}

		return claimed, nil
	}

	return nil, ErrInvalidOrExpiredToken
}

func encodeRecoveryRecord(record *recoveryRecord) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte(recoveryRecordVersionV1)
	if err := binary.Write(&buf, binary.BigEndian, record.ExpiresAt); err != nil {
		return nil, err
	}

	if len(record.UserID) > 65535 {
		return nil, errors.New("recovery record user id too long")
	}
	if err := binary.Write(&buf, binary.BigEndian, uint16(len(record.UserID))); err != nil {
		return nil, err
	}
	buf.WriteString(record.UserID)

	return buf.Bytes(), nil
}

func decodeRecoveryRecord(data []byte) (*recoveryRecord, error) {
	reader := bytes.NewReader(data)

	version, err := reader.ReadByte()
	if err != nil {
		return nil, err
	}
	if version != recoveryRecordVersionV1 {
		return nil, errors.New("invalid recovery record version")
	}

	record := &recoveryRecord{}
	if err := binary.Read(reader, binary.BigEndian, &record.ExpiresAt); err != nil {
		return nil, err
	}

	var userIDLen uint16
	if err := binary.Read(reader, binary.BigEndian, &userIDLen); err != nil {
		return nil, err
	}

	userID := make([]byte, userIDLen)
	if _, err := io.ReadFull(reader, userID); err != nil {
		return nil, err
	}
	record.UserID = string(userID)

	return record, nil
}
