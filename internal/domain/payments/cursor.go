package payments

import (
	"errors"
	"time"

	hashids "github.com/speps/go-hashids/v2"
)

// ErrInvalidCursor means a pagination token did not decode to a cursor key.
// Tokens come from clients and are never trusted.
var ErrInvalidCursor = errors.New("invalid cursor token")

// CursorCodec turns a (createdAt, id) resume point into an opaque token and
// back. Hashids over (unix micros, id) keeps the key unguessable without
// being encryption; the salt only has to be stable across deploys.
type CursorCodec struct {
	h *hashids.HashID
}

func NewCursorCodec(salt string) (*CursorCodec, error) {
	hd := hashids.NewData()
	hd.Salt = salt
	hd.MinLength = 16
	h, err := hashids.NewWithData(hd)
	if err != nil {
		return nil, err
	}
	return &CursorCodec{h: h}, nil
}

func (c *CursorCodec) Encode(key CursorKey) (string, error) {
	return c.h.EncodeInt64([]int64{key.CreatedAt.UnixMicro(), key.ID})
}

func (c *CursorCodec) Decode(token string) (CursorKey, error) {
	nums, err := c.h.DecodeInt64WithError(token)
	if err != nil || len(nums) != 2 || nums[1] <= 0 {
		return CursorKey{}, ErrInvalidCursor
	}
	return CursorKey{CreatedAt: time.UnixMicro(nums[0]).UTC(), ID: nums[1]}, nil
}
