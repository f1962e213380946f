package utils

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// 玩家 id 布局：41 位毫秒时间 | 10 位节点 | 12 位序列，起点 2026-01-01 UTC。
const (
	playerIDEpoch = int64(1767225600000)

	nodeBits = 10
	seqBits  = 12

	maxNodeID = int64(1)<<nodeBits - 1
	seqMask   = int64(1)<<seqBits - 1
)

var ErrNodeConfigured = errors.New("player id node already configured")

// Snowflake 是玩家 id 生成器。clock 只在测试里替换。
type Snowflake struct {
	mu     sync.Mutex
	node   int64
	lastMS int64
	seq    int64
	clock  func() time.Time
}

func NewSnowflake(nodeID int64) (*Snowflake, error) {
	return newSnowflake(nodeID, time.Now)
}

func newSnowflake(nodeID int64, clock func() time.Time) (*Snowflake, error) {
	if nodeID < 0 || nodeID > maxNodeID {
		return nil, fmt.Errorf("player id node out of range [0,%d]: %d", maxNodeID, nodeID)
	}
	return &Snowflake{node: nodeID, clock: clock}, nil
}

// NextID 严格递增；时钟回拨时沿用上一次的毫秒，序列用完就借下一毫秒。
func (s *Snowflake) NextID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	ms := max(s.clock().UnixMilli(), s.lastMS)
	if ms == s.lastMS {
		s.seq = (s.seq + 1) & seqMask
		if s.seq == 0 {
			ms++
		}
	} else {
		s.seq = 0
	}
	s.lastMS = ms
	return (ms-playerIDEpoch)<<(nodeBits+seqBits) | s.node<<seqBits | s.seq
}

// IDInfo 是从玩家 id 里拆出来的字段，打日志排查用。
type IDInfo struct {
	IssuedAt time.Time
	Node     int64
	Seq      int64
}

func Decompose(id int64) IDInfo {
	return IDInfo{
		IssuedAt: time.UnixMilli(id>>(nodeBits+seqBits) + playerIDEpoch).UTC(),
		Node:     id >> seqBits & maxNodeID,
		Seq:      id & seqMask,
	}
}

var (
	defaultMu  sync.Mutex
	defaultGen *Snowflake
)

// ConfigureNode 设置本进程的节点号，必须在第一次发 id 之前调用。
func ConfigureNode(nodeID int64) error {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultGen != nil {
		return ErrNodeConfigured
	}
	gen, err := NewSnowflake(nodeID)
	if err != nil {
		return err
	}
	defaultGen = gen
	return nil
}

// NextPlayerID 用进程级生成器发一个新玩家 id，没配置节点时用 1 号节点。
func NextPlayerID() (int64, error) {
	defaultMu.Lock()
	if defaultGen == nil {
		defaultGen, _ = NewSnowflake(1)
	}
	gen := defaultGen
	defaultMu.Unlock()
	return gen.NextID(), nil
}
