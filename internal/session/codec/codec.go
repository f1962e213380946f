package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"IdleCity/internal/game/state"
	"IdleCity/internal/session/entity"
	"IdleCity/internal/shared/security"
	"IdleCity/modules/kit/errx"

	"github.com/pierrec/lz4"
)

// FormatVersion 是信封结构的版本，结构不兼容时递增。
const FormatVersion = 1

// 存档字节布局：magic(3) + flags(1) + payload。
// payload = lz4(json(envelope))，flagEncrypted 时再做一层 AES。
var magic = []byte("ICS")

const flagEncrypted byte = 1 << 0

var (
	ErrBadMagic       = errors.New("save blob has no magic header")
	ErrKeyRequired    = errors.New("save blob is encrypted but no save_key configured")
	ErrFormatTooNew   = errors.New("save format version is newer than this server")
	ErrPlayerMismatch = errors.New("save belongs to another player")
)

type envelope struct {
	Version        int              `json:"version"`
	PlayerID       int64            `json:"playerId"`
	SelectedCityID string           `json:"selectedCityId,omitempty"`
	SavedAt        time.Time        `json:"savedAt"`
	State          *state.GameState `json:"state"`
}

type Codec struct {
	cipher *security.Cipher
}

// New 创建存档编解码器。saveKey 为空时不加密。
func New(saveKey string) (*Codec, error) {
	if saveKey == "" {
		return &Codec{}, nil
	}
	c, err := security.NewCipher(saveKey)
	if err != nil {
		return nil, err
	}
	return &Codec{cipher: c}, nil
}

func (c *Codec) Encrypted() bool {
	return c != nil && c.cipher != nil
}

func (c *Codec) Encode(s *entity.PersistSnapshot) ([]byte, error) {
	if s == nil || s.State == nil {
		return nil, fmt.Errorf("encode: empty snapshot")
	}
	raw, err := json.Marshal(envelope{
		Version:        FormatVersion,
		PlayerID:       int64(s.PlayerID),
		SelectedCityID: s.SelectedCityID,
		SavedAt:        s.SavedAt.UTC(),
		State:          s.State,
	})
	if err != nil {
		return nil, err
	}
	payload, err := compress(raw)
	if err != nil {
		return nil, err
	}

	var flags byte
	if c.Encrypted() {
		if payload, err = c.cipher.Encrypt(payload); err != nil {
			return nil, err
		}
		flags |= flagEncrypted
	}

	out := make([]byte, 0, len(magic)+1+len(payload))
	out = append(out, magic...)
	out = append(out, flags)
	return append(out, payload...), nil
}

// Decode 还原存档。所有失败都归为 errx.ErrCorruptSave，调用方据此回退到新档。
func (c *Codec) Decode(playerID entity.PlayerID, blob []byte) (*entity.SaveDocument, error) {
	doc, err := c.decode(playerID, blob)
	if err != nil {
		return nil, errx.ErrCorruptSave.WithCause(err).WithData("player_id", int64(playerID))
	}
	return doc, nil
}

func (c *Codec) decode(playerID entity.PlayerID, blob []byte) (*entity.SaveDocument, error) {
	if len(blob) < len(magic)+1 || !bytes.Equal(blob[:len(magic)], magic) {
		return nil, ErrBadMagic
	}
	flags := blob[len(magic)]
	payload := blob[len(magic)+1:]

	if flags&flagEncrypted != 0 {
		if !c.Encrypted() {
			return nil, ErrKeyRequired
		}
		var err error
		if payload, err = c.cipher.Decrypt(payload); err != nil {
			return nil, err
		}
	}

	raw, err := decompress(payload)
	if err != nil {
		return nil, err
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, err
	}
	if env.Version > FormatVersion {
		return nil, ErrFormatTooNew
	}
	if env.PlayerID != int64(playerID) {
		return nil, ErrPlayerMismatch
	}
	if err := env.State.CheckInvariants(); err != nil {
		return nil, err
	}
	return &entity.SaveDocument{
		PlayerID:       playerID,
		SelectedCityID: env.SelectedCityID,
		SavedAt:        env.SavedAt,
		State:          env.State,
	}, nil
}

func compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	writer := lz4.NewWriter(&buf)

	if _, err := writer.Write(data); err != nil {
		writer.Close()
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decompress(data []byte) ([]byte, error) {
	reader := lz4.NewReader(bytes.NewReader(data))

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, reader); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
